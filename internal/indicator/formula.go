package indicator

import "math"

// FormulaBackend computes indicators with plain formulas. It is the
// fallback when the talib backend is not wanted; undefined leading
// entries are NaN.
type FormulaBackend struct{}

// NewFormulaBackend creates a formula-based backend.
func NewFormulaBackend() *FormulaBackend { return &FormulaBackend{} }

func (b *FormulaBackend) Name() string { return "formula" }

// SMA computes the simple moving average. The first period-1 entries are NaN.
func (b *FormulaBackend) SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average seeded with the SMA of the
// first period values.
func (b *FormulaBackend) EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// RSI computes the rolling-mean RSI: average gain over average loss of the
// closes' first differences across the trailing window. The first period
// entries are NaN. A window with zero losses yields 100; a flat window
// (no gains, no losses) yields the neutral 50.
func (b *FormulaBackend) RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period {
			switch {
			case lossSum == 0 && gainSum == 0:
				out[i] = 50.0
			case lossSum == 0:
				out[i] = 100.0
			default:
				rs := gainSum / lossSum
				out[i] = 100.0 - 100.0/(1.0+rs)
			}
		}
	}
	return out
}

// MACD computes the EMA(fast)−EMA(slow) line, its EMA(signal) line, and
// the histogram (line − signal).
func (b *FormulaBackend) MACD(values []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(values)
	macd, sig, hist = nanSlice(n), nanSlice(n), nanSlice(n)
	if n < slow+signal {
		return macd, sig, hist
	}

	emaFast := b.EMA(values, fast)
	emaSlow := b.EMA(values, slow)
	firstValid := slow - 1
	for i := firstValid; i < n; i++ {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	sigTail := b.EMA(macd[firstValid:], signal)
	for i, v := range sigTail {
		sig[firstValid+i] = v
		if !math.IsNaN(v) {
			hist[firstValid+i] = macd[firstValid+i] - v
		}
	}
	return macd, sig, hist
}

// Bollinger computes the middle SMA band and upper/lower bands at
// width times the rolling sample standard deviation.
func (b *FormulaBackend) Bollinger(values []float64, period int, width float64) (upper, middle, lower []float64) {
	n := len(values)
	upper, lower = nanSlice(n), nanSlice(n)
	middle = b.SMA(values, period)
	if period <= 1 || n < period {
		return upper, middle, lower
	}
	for i := period - 1; i < n; i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period-1))
		upper[i] = mean + width*sd
		lower[i] = mean - width*sd
	}
	return upper, middle, lower
}

// OBV computes on-balance volume as a single accumulator fold: the first
// bar seeds the total with its own volume, then each bar adds its volume
// on a rising close, subtracts it on a falling close, and leaves the
// total unchanged on an equal close.
func (b *FormulaBackend) OBV(closes, volumes []float64) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n == 0 || len(volumes) != n {
		return out
	}
	out[0] = volumes[0]
	for i := 1; i < n; i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
