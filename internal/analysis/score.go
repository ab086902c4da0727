package analysis

import "CryptoSentinel/internal/model"

// priceTrendScore scores price against the short and long moving averages:
// +2 when price sits above both in bullish alignment, -2 in the mirrored
// bearish alignment, ±1 for the weak cases.
func priceTrendScore(price, smaShort, smaLong float64) int {
	switch {
	case price > smaShort && smaShort > smaLong:
		return 2
	case price > smaShort:
		return 1
	case price < smaShort && smaShort < smaLong:
		return -2
	case price < smaShort:
		return -1
	default:
		return 0
	}
}

func rsiTrendVote(cond model.Condition) int {
	switch cond {
	case model.CondBullish, model.CondOversold:
		return 1
	case model.CondBearish, model.CondOverbought:
		return -1
	default:
		return 0
	}
}

func macdTrendVote(cond model.Condition) int {
	switch cond {
	case model.CondBullish:
		return 1
	case model.CondBearish:
		return -1
	default:
		return 0
	}
}

// DetermineTrend aggregates the moving-average alignment with the RSI and
// MACD conditions into one trend label.
func DetermineTrend(price, smaShort, smaLong float64, rsiCond, macdCond model.Condition) model.Trend {
	total := priceTrendScore(price, smaShort, smaLong) + rsiTrendVote(rsiCond) + macdTrendVote(macdCond)
	switch {
	case total >= 3:
		return model.TrendStrongBullish
	case total >= 1:
		return model.TrendBullish
	case total <= -3:
		return model.TrendStrongBearish
	case total <= -1:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// ConfidenceScore rates how decisive the timeframe's signals are, 0~100.
// Base 50, +15 for a decisive RSI, +15 for a decisive MACD, +10 for a
// detected crossover, +2 per qualifying support/resistance pivot capped
// at +10. The extreme RSI bands do not count as decisive.
func ConfidenceScore(rsiCond, macdCond model.Condition, crossover model.Crossover, levelStrength int) float64 {
	confidence := 50.0

	switch rsiCond {
	case model.CondBullish, model.CondBearish, model.CondOversold, model.CondOverbought:
		confidence += 15
	}
	switch macdCond {
	case model.CondBullish, model.CondBearish:
		confidence += 15
	}
	if crossover == model.CrossoverBullish || crossover == model.CrossoverBearish {
		confidence += 10
	}

	strength := float64(levelStrength) * 2
	if strength > 10 {
		strength = 10
	}
	confidence += strength

	return clamp(confidence, 0, 100)
}

// Sentiment weights per contributing signal. The 0~1 sentiment scale is
// intentionally separate from the 0~100 confidence scale; the two answer
// similar questions with different bases and are reported independently.
const (
	sentimentTrendWeight = 0.15
	sentimentRSIWeight   = 0.125
	sentimentMACDWeight  = 0.125
	sentimentOBVWeight   = 0.1
)

func bullishCondition(cond model.Condition) bool {
	switch cond {
	case model.CondBullish, model.CondOversold, model.CondExtremelyOversold:
		return true
	}
	return false
}

func bearishCondition(cond model.Condition) bool {
	switch cond {
	case model.CondBearish, model.CondOverbought, model.CondExtremelyOverbought:
		return true
	}
	return false
}

func bullishTrend(t model.Trend) bool {
	return t == model.TrendBullish || t == model.TrendStrongBullish
}

func bearishTrend(t model.Trend) bool {
	return t == model.TrendBearish || t == model.TrendStrongBearish
}

// SentimentScore produces the 0~1 narrative sentiment: 0.5 neutral prior
// adjusted by weighted trend, RSI, MACD, and OBV contributions.
func SentimentScore(trend model.Trend, rsiCond, macdCond model.Condition, obvTrend model.VolumeTrend) float64 {
	score := 0.5

	if bullishTrend(trend) {
		score += sentimentTrendWeight
	} else if bearishTrend(trend) {
		score -= sentimentTrendWeight
	}

	if bullishCondition(rsiCond) {
		score += sentimentRSIWeight
	} else if bearishCondition(rsiCond) {
		score -= sentimentRSIWeight
	}

	if macdCond == model.CondBullish {
		score += sentimentMACDWeight
	} else if macdCond == model.CondBearish {
		score -= sentimentMACDWeight
	}

	switch obvTrend {
	case model.VolumeAccumulation:
		score += sentimentOBVWeight
	case model.VolumeDistribution:
		score -= sentimentOBVWeight
	}

	return clamp(score, 0, 1)
}

// DecideAction takes a majority vote over the trend, RSI, and MACD
// directions. A tie holds.
func DecideAction(trend model.Trend, rsiCond, macdCond model.Condition) model.Action {
	bulls, bears := 0, 0

	if bullishTrend(trend) {
		bulls++
	} else if bearishTrend(trend) {
		bears++
	}
	if bullishCondition(rsiCond) {
		bulls++
	} else if bearishCondition(rsiCond) {
		bears++
	}
	if macdCond == model.CondBullish {
		bulls++
	} else if macdCond == model.CondBearish {
		bears++
	}

	switch {
	case bulls > bears:
		return model.ActionBuy
	case bears > bulls:
		return model.ActionSell
	default:
		return model.ActionHold
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
