package notifier

import (
	"fmt"
	"sort"
	"strings"

	"CryptoSentinel/internal/model"
)

// FormatReport renders the assembled analysis into a Telegram Markdown
// message. The core hands over a structured Report; everything textual
// happens here.
func FormatReport(rep *model.Report) string {
	var b strings.Builder

	symbol := strings.ReplaceAll(rep.Symbol, "/", "")
	b.WriteString(fmt.Sprintf("*%s | Professional Analysis | %s*\n\n",
		symbol, rep.GeneratedAt.UTC().Format("02 Jan 2006 – 15:04 MST")))

	// Anchor candle
	if rep.HasAnchor {
		b.WriteString(fmt.Sprintf("📊 *Anchor Candle* (%s)\n", rep.Anchor.Time.UTC().Format("15:04")))
		b.WriteString(fmt.Sprintf("O: %.2f | H: %.2f | L: %.2f | C: %.2f\n\n",
			rep.Anchor.Open, rep.Anchor.High, rep.Anchor.Low, rep.Anchor.Close))
	}

	// Trading matrix
	b.WriteString("📈 *Trading Matrix*\n")
	writeTradeLevels(&b, "Intraday", rep.Intraday)
	writeTradeLevels(&b, "Swing", rep.Swing)
	b.WriteString("\n")

	// Key levels from the swing timeframe when present, else any.
	if ta := levelSource(rep); ta != nil {
		b.WriteString(fmt.Sprintf("🔑 *Key Levels* (%s)\n", ta.Timeframe))
		b.WriteString(fmt.Sprintf("Resistance: %s\n", formatLevels(ta.Levels.Resistance)))
		b.WriteString(fmt.Sprintf("Support: %s\n\n", formatLevels(ta.Levels.Support)))
	}

	// Per-timeframe signals
	b.WriteString("📡 *Technical Signals*\n")
	for _, tf := range sortedTimeframes(rep) {
		if ta, ok := rep.Timeframes[tf]; ok {
			writeTimeframeSection(&b, ta)
		} else if msg, failed := rep.Errors[tf]; failed {
			b.WriteString(fmt.Sprintf("*%s*: analysis unavailable (%s)\n", tf, msg))
		}
	}
	b.WriteString("\n")

	// Market context
	b.WriteString("🌐 *Market Context*\n")
	b.WriteString(fmt.Sprintf("24h change: %+.2f%% | Sentiment: %s (%.0f%%)\n",
		rep.Context.PriceChange24h, rep.Context.Sentiment, rep.Context.SentimentStrength*100))
	if rep.Price.Price > 0 {
		b.WriteString(fmt.Sprintf("Last price: %.2f (%s)\n", rep.Price.Price, rep.Price.Source))
	}
	b.WriteString("\n")

	// Sentiment pair
	b.WriteString("🎯 *Sentiment Scores*\n")
	b.WriteString(fmt.Sprintf("Short-term: %.2f | Long-term: %.2f\n\n",
		rep.ShortTermSentiment, rep.LongTermSentiment))

	b.WriteString("⚠️ _Risk guidelines: size positions so a stop-out costs at most 2% of capital. This is analysis, not financial advice._\n")

	return b.String()
}

func writeTradeLevels(b *strings.Builder, label string, tl model.TradeLevels) {
	b.WriteString(fmt.Sprintf("%s: *%s* | Entry %.2f | SL %.2f | TP %.2f | R:R %.2f\n",
		label, tl.Action, tl.Entry, tl.StopLoss, tl.TakeProfit, tl.RewardRisk))
}

func writeTimeframeSection(b *strings.Builder, ta *model.TimeframeAnalysis) {
	b.WriteString(fmt.Sprintf("*%s* — trend %s, confidence %.0f%%\n", ta.Timeframe, ta.Trend, ta.Confidence))

	if ta.RSI.Valid {
		dir := "falling"
		if ta.RSI.Rising {
			dir = "rising"
		}
		b.WriteString(fmt.Sprintf("  RSI %.1f (%s, %s)\n", ta.RSI.Value, ta.RSI.Condition, dir))
	}
	if ta.MACD.Valid {
		b.WriteString(fmt.Sprintf("  MACD %.4f / signal %.4f / hist %.4f (%s", ta.MACD.MACD, ta.MACD.Signal, ta.MACD.Histogram, ta.MACD.Condition))
		if ta.MACD.Crossover != model.CrossoverNone {
			b.WriteString(fmt.Sprintf(", %s", ta.MACD.Crossover))
		}
		b.WriteString(")\n")
	}
	if ta.Bollinger.Valid {
		b.WriteString(fmt.Sprintf("  Bollinger: %s", ta.Bollinger.Position))
		if ta.Bollinger.Squeeze {
			b.WriteString(" (squeeze)")
		}
		b.WriteString("\n")
	}
	if ta.OBV.Valid {
		b.WriteString(fmt.Sprintf("  OBV: %s\n", ta.OBV.Trend))
	}
	if ta.VolumeProfile.POC > 0 {
		b.WriteString(fmt.Sprintf("  Volume POC: %.2f (%s)\n", ta.VolumeProfile.POC, ta.VolumeProfile.Distribution))
	}
}

// formatLevels renders a level list, which is never empty by contract,
// but a defaulted analysis can still carry none.
func formatLevels(levels []float64) string {
	if len(levels) == 0 {
		return "None identified"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%.2f", l)
	}
	return strings.Join(parts, " | ")
}

func levelSource(rep *model.Report) *model.TimeframeAnalysis {
	if ta, ok := rep.Timeframes["1d"]; ok {
		return ta
	}
	for _, tf := range sortedTimeframes(rep) {
		if ta, ok := rep.Timeframes[tf]; ok {
			return ta
		}
	}
	return nil
}

func sortedTimeframes(rep *model.Report) []string {
	seen := make(map[string]bool)
	var tfs []string
	for tf := range rep.Timeframes {
		seen[tf] = true
		tfs = append(tfs, tf)
	}
	for tf := range rep.Errors {
		if !seen[tf] {
			tfs = append(tfs, tf)
		}
	}
	sort.Strings(tfs)
	return tfs
}

// FormatHelp is the reply for unknown input and the /help command.
func FormatHelp() string {
	return strings.Join([]string{
		"*CryptoSentinel — Command Guide*",
		"",
		"/analyze — analysis for the default symbol",
		"/analyze SYMBOL — analysis for a specific pair (e.g. /analyze BTC/USDT)",
		"/status — bot operational status",
		"/help — this guide",
	}, "\n")
}
