package indicator

import (
	"math"
	"testing"
	"time"

	"CryptoSentinel/internal/model"
)

func flatCandles(n int, price float64) []model.Candle {
	candles := make([]model.Candle, n)
	for i := range candles {
		candles[i] = model.Candle{
			Time:   time.Unix(int64(i)*900, 0),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 100,
		}
	}
	return candles
}

func TestFindSupportResistance_Pivots(t *testing.T) {
	// Spikes every 20 bars: highs to 115 at 10/30/50, lows to 85 at 20/40.
	candles := flatCandles(60, 100)
	for _, i := range []int{10, 30, 50} {
		candles[i].High = 115
	}
	for _, i := range []int{20, 40} {
		candles[i].Low = 85
	}

	levels := FindSupportResistance(candles, 20)

	if len(levels.Resistance) != 1 || levels.Resistance[0] != 115 {
		t.Errorf("resistance = %v, want [115]", levels.Resistance)
	}
	if len(levels.Support) != 1 || levels.Support[0] != 85 {
		t.Errorf("support = %v, want [85]", levels.Support)
	}
	if levels.Strength != 5 {
		t.Errorf("strength = %d, want 5 (3 pivot highs + 2 pivot lows)", levels.Strength)
	}
}

func TestFindSupportResistance_Fallback(t *testing.T) {
	// Strictly rising series has no interior pivots: both sides must fall
	// back to the synthetic ±2% levels.
	candles := make([]model.Candle, 40)
	for i := range candles {
		p := 100 + float64(i)
		candles[i] = model.Candle{High: p + 0.5, Low: p - 0.5, Close: p, Volume: 10}
	}
	current := candles[len(candles)-1].Close

	levels := FindSupportResistance(candles, 20)

	if len(levels.Resistance) != 1 || math.Abs(levels.Resistance[0]-current*1.02) > 1e-9 {
		t.Errorf("resistance = %v, want fallback %v", levels.Resistance, current*1.02)
	}
	if len(levels.Support) != 1 || math.Abs(levels.Support[0]-current*0.98) > 1e-9 {
		t.Errorf("support = %v, want fallback %v", levels.Support, current*0.98)
	}
	if levels.Strength != 0 {
		t.Errorf("strength = %d, want 0 with no qualifying pivots", levels.Strength)
	}
}

func TestFindSupportResistance_Empty(t *testing.T) {
	levels := FindSupportResistance(nil, 20)
	if len(levels.Support) != 0 || len(levels.Resistance) != 0 {
		t.Errorf("expected empty level set for empty input, got %+v", levels)
	}
}

func TestFindSupportResistance_OrderedAndCapped(t *testing.T) {
	// Distinct pivot highs above the current price; only the three most
	// recent may remain, ascending.
	candles := flatCandles(100, 100)
	spikes := map[int]float64{10: 111, 30: 114, 50: 112, 70: 118, 90: 116}
	for i, h := range spikes {
		candles[i].High = h
	}

	levels := FindSupportResistance(candles, 20)

	if len(levels.Resistance) != 3 {
		t.Fatalf("resistance count = %d, want 3", len(levels.Resistance))
	}
	// Last three pivots chronologically are 112, 118, 116 -> ascending.
	want := []float64{112, 116, 118}
	for i, w := range want {
		if levels.Resistance[i] != w {
			t.Errorf("resistance[%d] = %v, want %v", i, levels.Resistance[i], w)
		}
	}
	if levels.Strength != 5 {
		t.Errorf("strength = %d, want 5", levels.Strength)
	}
}

func TestVolumeProfile_POC(t *testing.T) {
	// Volume concentrated near 105 while price ranges 100..110.
	candles := make([]model.Candle, 50)
	for i := range candles {
		p := 100 + float64(i%11)
		vol := 10.0
		if p == 105 {
			vol = 1000
		}
		candles[i] = model.Candle{Close: p, Volume: vol}
	}
	vp := VolumeProfileOf(candles)
	if math.Abs(vp.POC-105) > 1.0 {
		t.Errorf("POC = %v, want near 105", vp.POC)
	}
	if vp.TotalVolume <= 0 {
		t.Errorf("total volume = %v, want positive", vp.TotalVolume)
	}
}

func TestVolumeProfile_Empty(t *testing.T) {
	vp := VolumeProfileOf(nil)
	if vp.Distribution != "unknown" {
		t.Errorf("distribution = %q, want unknown", vp.Distribution)
	}
}
