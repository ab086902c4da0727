package indicator

// Backend computes the raw indicator series. Two implementations exist:
// a go-talib backed one and a plain formula one, selected at startup.
// All methods return a series of the same length as the input; leading
// entries are undefined (NaN or zero depending on backend) until enough
// history accumulates. Callers must check lengths before trusting values.
type Backend interface {
	SMA(values []float64, period int) []float64
	EMA(values []float64, period int) []float64
	RSI(values []float64, period int) []float64
	MACD(values []float64, fast, slow, signal int) (macd, sig, hist []float64)
	Bollinger(values []float64, period int, width float64) (upper, middle, lower []float64)
	OBV(closes, volumes []float64) []float64
	Name() string
}

// NewBackend selects a backend by name. Unknown names fall back to the
// formula backend.
func NewBackend(name string) Backend {
	switch name {
	case "talib", "":
		return NewTalibBackend()
	default:
		return NewFormulaBackend()
	}
}
