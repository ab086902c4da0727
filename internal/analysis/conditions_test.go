package analysis

import (
	"math"
	"testing"

	"CryptoSentinel/internal/model"
)

func TestRSICondition(t *testing.T) {
	tests := []struct {
		rsi  float64
		want model.Condition
	}{
		{85, model.CondExtremelyOverbought},
		{80.01, model.CondExtremelyOverbought},
		{80, model.CondOverbought}, // boundary belongs to the lower band
		{75, model.CondOverbought},
		{70, model.CondBullish},
		{65, model.CondBullish},
		{60, model.CondNeutral},
		{50, model.CondNeutral},
		{40, model.CondBearish},
		{35, model.CondBearish},
		{30, model.CondOversold},
		{25, model.CondOversold},
		{20, model.CondExtremelyOversold},
		{10, model.CondExtremelyOversold},
		{0, model.CondExtremelyOversold},
	}
	for _, tt := range tests {
		if got := RSICondition(tt.rsi); got != tt.want {
			t.Errorf("RSICondition(%v) = %v, want %v", tt.rsi, got, tt.want)
		}
	}
}

func TestMACDCondition(t *testing.T) {
	tests := []struct {
		name               string
		macd, signal, hist float64
		want               model.Condition
	}{
		{"bullish", 2, 1, 1, model.CondBullish},
		{"bearish", -2, -1, -1, model.CondBearish},
		{"above signal but negative hist", 2, 1, -0.1, model.CondNeutral},
		{"below signal but positive hist", 1, 2, 0.1, model.CondNeutral},
		{"flat", 1, 1, 0, model.CondNeutral},
	}
	for _, tt := range tests {
		if got := MACDCondition(tt.macd, tt.signal, tt.hist); got != tt.want {
			t.Errorf("%s: MACDCondition = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectCrossover(t *testing.T) {
	tests := []struct {
		name       string
		hist, prev float64
		want       model.Crossover
	}{
		{"bullish flip", 0.5, -0.2, model.CrossoverBullish},
		{"bullish from zero", 0.5, 0, model.CrossoverBullish},
		{"bearish flip", -0.5, 0.2, model.CrossoverBearish},
		{"bearish from zero", -0.5, 0, model.CrossoverBearish},
		{"steady positive", 0.5, 0.4, model.CrossoverNone},
		{"steady negative", -0.5, -0.4, model.CrossoverNone},
		{"zero now", 0, 0.4, model.CrossoverNone},
	}
	for _, tt := range tests {
		if got := DetectCrossover(tt.hist, tt.prev); got != tt.want {
			t.Errorf("%s: DetectCrossover(%v, %v) = %v, want %v", tt.name, tt.hist, tt.prev, got, tt.want)
		}
	}
}

func TestBollingerPosition(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name                        string
		price, upper, middle, lower float64
		want                        model.BandPosition
	}{
		{"above upper", 111, 110, 100, 90, model.BandAboveUpper},
		{"upper half", 105, 110, 100, 90, model.BandUpperHalf},
		{"lower half", 95, 110, 100, 90, model.BandLowerHalf},
		{"below lower", 85, 110, 100, 90, model.BandBelowLower},
		{"at lower boundary", 90, 110, 100, 90, model.BandBelowLower},
		{"nan bands", 100, nan, nan, nan, model.BandUnknown},
	}
	for _, tt := range tests {
		if got := BollingerPosition(tt.price, tt.upper, tt.middle, tt.lower); got != tt.want {
			t.Errorf("%s: BollingerPosition = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectSqueeze(t *testing.T) {
	mkBands := func(widths []float64) (upper, lower []float64) {
		upper = make([]float64, len(widths))
		lower = make([]float64, len(widths))
		for i, w := range widths {
			upper[i] = 100 + w/2
			lower[i] = 100 - w/2
		}
		return
	}

	// 19 wide bars then one narrow: current 2 vs average (19*10+2)/20 = 9.6.
	widths := make([]float64, 20)
	for i := range widths {
		widths[i] = 10
	}
	widths[19] = 2
	upper, lower := mkBands(widths)
	if !DetectSqueeze(upper, lower) {
		t.Error("expected squeeze when current width collapses below 80% of average")
	}

	// Constant width never squeezes.
	for i := range widths {
		widths[i] = 10
	}
	upper, lower = mkBands(widths)
	if DetectSqueeze(upper, lower) {
		t.Error("constant width should not be a squeeze")
	}

	// Fewer than 20 valid widths cannot qualify.
	upper, lower = mkBands(widths[:10])
	if DetectSqueeze(upper, lower) {
		t.Error("short history should not be a squeeze")
	}

	// Zero-width warm-up rows must not count toward the 20-bar average:
	// only 11 real widths exist here, so no squeeze can be declared even
	// though the final bar is narrow.
	widths = make([]float64, 30)
	for i := 19; i < len(widths); i++ {
		widths[i] = 10
	}
	widths[29] = 2
	upper, lower = mkBands(widths)
	if DetectSqueeze(upper, lower) {
		t.Error("zero-width rows counted as band history")
	}
}

func TestOBVTrend(t *testing.T) {
	if got := OBVTrend([]float64{1, 2, 3}); got != model.VolumeUnknown {
		t.Errorf("short OBV series = %v, want unknown", got)
	}
	if got := OBVTrend([]float64{10, 11, 12, 13, 14, 15}); got != model.VolumeAccumulation {
		t.Errorf("rising OBV = %v, want accumulation", got)
	}
	if got := OBVTrend([]float64{15, 14, 13, 12, 11, 10}); got != model.VolumeDistribution {
		t.Errorf("falling OBV = %v, want distribution", got)
	}
	// Flat flow counts as distribution: no fresh accumulation detected.
	if got := OBVTrend([]float64{10, 10, 10, 10, 10}); got != model.VolumeDistribution {
		t.Errorf("flat OBV = %v, want distribution", got)
	}
}
