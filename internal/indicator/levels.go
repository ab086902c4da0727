package indicator

import (
	"math"
	"sort"

	"CryptoSentinel/internal/model"
)

const (
	// DefaultPivotWindow is the centered window used for pivot detection.
	DefaultPivotWindow = 20

	// fallbackLevelPct is the synthetic level offset used when no pivot
	// qualifies, so the level set is never empty.
	fallbackLevelPct = 0.02

	volumeProfileBins = 20
)

// FindSupportResistance identifies support and resistance from pivot highs
// and lows: a bar is a pivot when its high (low) is the extreme of a
// centered window around it. The three most recent pivot highs above the
// current price become resistance; the three most recent pivot lows below
// it become support. Strength counts every qualifying pivot before capping.
func FindSupportResistance(candles []model.Candle, window int) model.LevelSet {
	if window <= 0 {
		window = DefaultPivotWindow
	}
	n := len(candles)
	if n == 0 {
		return model.LevelSet{}
	}
	currentPrice := candles[n-1].Close

	var pivotHighs, pivotLows []float64
	left := window / 2
	right := window - left - 1
	for i := left; i+right < n; i++ {
		isHigh, isLow := true, true
		for j := i - left; j <= i+right; j++ {
			if candles[j].High > candles[i].High {
				isHigh = false
			}
			if candles[j].Low < candles[i].Low {
				isLow = false
			}
		}
		if isHigh {
			pivotHighs = append(pivotHighs, candles[i].High)
		}
		if isLow {
			pivotLows = append(pivotLows, candles[i].Low)
		}
	}

	// Most recent five pivots per side are the candidates.
	pivotHighs = tail(pivotHighs, 5)
	pivotLows = tail(pivotLows, 5)

	var resistance, support []float64
	for _, p := range pivotHighs {
		if p > currentPrice*1.001 {
			resistance = append(resistance, p)
		}
	}
	for _, p := range pivotLows {
		if p < currentPrice*0.999 {
			support = append(support, p)
		}
	}
	strength := len(resistance) + len(support)

	resistance = dedupeAscending(tail(resistance, 3))
	support = dedupeAscending(tail(support, 3))
	if len(resistance) == 0 {
		resistance = []float64{currentPrice * (1 + fallbackLevelPct)}
	}
	if len(support) == 0 {
		support = []float64{currentPrice * (1 - fallbackLevelPct)}
	}

	return model.LevelSet{Support: support, Resistance: resistance, Strength: strength}
}

// VolumeProfileOf bins volume by close price across twenty equal bins and
// reports the point of control (midpoint of the heaviest bin).
func VolumeProfileOf(candles []model.Candle) model.VolumeProfile {
	n := len(candles)
	if n == 0 {
		return model.VolumeProfile{Distribution: "unknown"}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	total := 0.0
	for _, c := range candles {
		if c.Close < lo {
			lo = c.Close
		}
		if c.Close > hi {
			hi = c.Close
		}
		total += c.Volume
	}
	currentPrice := candles[n-1].Close
	if hi == lo {
		return model.VolumeProfile{POC: currentPrice, TotalVolume: total, Distribution: "balanced"}
	}

	bins := make([]float64, volumeProfileBins)
	width := (hi - lo) / float64(volumeProfileBins)
	for _, c := range candles {
		idx := int((c.Close - lo) / width)
		if idx >= volumeProfileBins {
			idx = volumeProfileBins - 1
		}
		bins[idx] += c.Volume
	}
	best := 0
	for i, v := range bins {
		if v > bins[best] {
			best = i
		}
	}
	poc := lo + width*(float64(best)+0.5)

	dist := "skewed"
	if currentPrice != 0 && math.Abs(poc-currentPrice)/currentPrice < 0.02 {
		dist = "balanced"
	}
	return model.VolumeProfile{POC: poc, TotalVolume: total, Distribution: dist}
}

func tail(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

func dedupeAscending(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
