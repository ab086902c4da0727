package indicator

import talib "github.com/markcheno/go-talib"

// TalibBackend computes indicators through go-talib. Undefined leading
// entries are zero, the library's warm-up convention; the NaN guards from
// the formula backend are applied only when the input is too short for
// the library to be called at all.
type TalibBackend struct{}

// NewTalibBackend creates a go-talib backed backend.
func NewTalibBackend() *TalibBackend { return &TalibBackend{} }

func (b *TalibBackend) Name() string { return "talib" }

func (b *TalibBackend) SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSlice(len(values))
	}
	return talib.Sma(values, period)
}

func (b *TalibBackend) EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSlice(len(values))
	}
	return talib.Ema(values, period)
}

func (b *TalibBackend) RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period+1 {
		return nanSlice(len(values))
	}
	return talib.Rsi(values, period)
}

func (b *TalibBackend) MACD(values []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	if len(values) < slow+signal {
		n := len(values)
		return nanSlice(n), nanSlice(n), nanSlice(n)
	}
	return talib.Macd(values, fast, slow, signal)
}

func (b *TalibBackend) Bollinger(values []float64, period int, width float64) (upper, middle, lower []float64) {
	if period <= 1 || len(values) < period {
		n := len(values)
		return nanSlice(n), nanSlice(n), nanSlice(n)
	}
	return talib.BBands(values, period, width, width, talib.SMA)
}

func (b *TalibBackend) OBV(closes, volumes []float64) []float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return make([]float64, len(closes))
	}
	return talib.Obv(closes, volumes)
}
