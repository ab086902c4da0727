package analysis

import (
	"math"

	"CryptoSentinel/internal/model"
)

// obvLookback is how far back the OBV comparison reaches when deciding
// accumulation versus distribution.
const obvLookback = 5

// RSICondition maps an RSI value to its discrete condition band.
func RSICondition(rsi float64) model.Condition {
	switch {
	case rsi > 80:
		return model.CondExtremelyOverbought
	case rsi > 70:
		return model.CondOverbought
	case rsi > 60:
		return model.CondBullish
	case rsi > 40:
		return model.CondNeutral
	case rsi > 30:
		return model.CondBearish
	case rsi > 20:
		return model.CondOversold
	default:
		return model.CondExtremelyOversold
	}
}

// MACDCondition is bullish only when the MACD line is above its signal
// with a positive histogram, bearish in the mirrored case, else neutral.
func MACDCondition(macd, signal, histogram float64) model.Condition {
	switch {
	case macd > signal && histogram > 0:
		return model.CondBullish
	case macd < signal && histogram < 0:
		return model.CondBearish
	default:
		return model.CondNeutral
	}
}

// DetectCrossover reports a MACD crossover from a histogram sign flip
// versus the previous bar.
func DetectCrossover(histogram, prevHistogram float64) model.Crossover {
	switch {
	case histogram > 0 && prevHistogram <= 0:
		return model.CrossoverBullish
	case histogram < 0 && prevHistogram >= 0:
		return model.CrossoverBearish
	default:
		return model.CrossoverNone
	}
}

// BollingerPosition locates price against the three bands.
func BollingerPosition(price, upper, middle, lower float64) model.BandPosition {
	if math.IsNaN(upper) || math.IsNaN(middle) || math.IsNaN(lower) {
		return model.BandUnknown
	}
	switch {
	case price > upper:
		return model.BandAboveUpper
	case price > middle:
		return model.BandUpperHalf
	case price > lower:
		return model.BandLowerHalf
	default:
		return model.BandBelowLower
	}
}

// DetectSqueeze reports a Bollinger squeeze: the current band width is
// below 80% of the average width over the last 20 bars.
func DetectSqueeze(upper, lower []float64) bool {
	n := len(upper)
	if n == 0 || len(lower) != n {
		return false
	}
	current := upper[n-1] - lower[n-1]
	if math.IsNaN(current) || current <= 0 {
		return false
	}

	// Warm-up rows are NaN from the formula backend but zero from talib;
	// either way a non-positive width is not usable history.
	sum, count := 0.0, 0
	for i := n - 1; i >= 0 && count < 20; i-- {
		w := upper[i] - lower[i]
		if math.IsNaN(w) || w <= 0 {
			break
		}
		sum += w
		count++
	}
	if count < 20 {
		return false
	}
	return current < (sum/float64(count))*0.8
}

// OBVTrend compares the latest on-balance volume against the value five
// bars back: accumulation when volume flow rose, distribution otherwise.
func OBVTrend(obv []float64) model.VolumeTrend {
	n := len(obv)
	if n < obvLookback {
		return model.VolumeUnknown
	}
	if obv[n-1] > obv[n-obvLookback] {
		return model.VolumeAccumulation
	}
	return model.VolumeDistribution
}
