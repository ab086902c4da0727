package analysis

import (
	"math"

	"CryptoSentinel/internal/model"
)

// Horizon labels for the two trade-level sets.
const (
	HorizonIntraday = "intraday"
	HorizonSwing    = "swing"
)

// Fixed stop/target offsets per horizon. These are deliberately not
// volatility-sized.
const (
	intradayStopPct   = 0.015
	intradayTargetPct = 0.030
	swingStopPct      = 0.05
	swingTargetPct    = 0.10

	// placeholderPrice substitutes a missing or zero anchor close so the
	// ratio computation never divides by zero.
	placeholderPrice = 1000.0
)

// CalcTradeLevels derives entry, stop-loss, take-profit, and the
// reward:risk ratio from the anchor candle's close and the action.
// SELL and HOLD share the short-side offsets.
func CalcTradeLevels(anchorClose float64, action model.Action, horizon string) model.TradeLevels {
	price := anchorClose
	if price <= 0 || math.IsNaN(price) {
		price = placeholderPrice
	}

	stopPct, targetPct := swingStopPct, swingTargetPct
	if horizon == HorizonIntraday {
		stopPct, targetPct = intradayStopPct, intradayTargetPct
	}

	var stop, target float64
	if action == model.ActionBuy {
		stop = price * (1 - stopPct)
		target = price * (1 + targetPct)
	} else {
		stop = price * (1 + stopPct)
		target = price * (1 - targetPct)
	}

	risk := math.Abs(stop - price)
	reward := math.Abs(target - price)
	ratio := 1.0
	if risk > 0 {
		ratio = reward / risk
	}

	return model.TradeLevels{
		Horizon:    horizon,
		Action:     action,
		Entry:      price,
		StopLoss:   stop,
		TakeProfit: target,
		RewardRisk: ratio,
	}
}
