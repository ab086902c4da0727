package collector

import (
	"testing"

	"github.com/adshao/go-binance/v2"
)

func TestContextFromChange(t *testing.T) {
	tests := []struct {
		change    float64
		sentiment string
		strength  float64
	}{
		{5.0, "bullish", 0.5},
		{2.1, "bullish", 0.21},
		{2.0, "neutral", 0.2},
		{0, "neutral", 0},
		{-2.0, "neutral", 0.2},
		{-3.0, "bearish", 0.3},
		{-25.0, "bearish", 1.0}, // strength caps at 1
		{15.0, "bullish", 1.0},
	}
	for _, tt := range tests {
		mctx := contextFromChange(tt.change, 1e6)
		if mctx.Sentiment != tt.sentiment {
			t.Errorf("change %+.1f: sentiment = %q, want %q", tt.change, mctx.Sentiment, tt.sentiment)
		}
		if diff := mctx.SentimentStrength - tt.strength; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("change %+.1f: strength = %v, want %v", tt.change, mctx.SentimentStrength, tt.strength)
		}
	}
}

func TestKlineToCandle(t *testing.T) {
	k := &binance.Kline{
		OpenTime: 1700000000000,
		Open:     "2000.5",
		High:     "2010.0",
		Low:      "1995.25",
		Close:    "2005.75",
		Volume:   "1234.5",
	}
	c, err := klineToCandle(k)
	if err != nil {
		t.Fatalf("klineToCandle: %v", err)
	}
	if c.Open != 2000.5 || c.High != 2010 || c.Low != 1995.25 || c.Close != 2005.75 || c.Volume != 1234.5 {
		t.Errorf("candle = %+v", c)
	}
	if c.Time.UnixMilli() != 1700000000000 {
		t.Errorf("time = %v", c.Time)
	}

	k.Close = "not-a-number"
	if _, err := klineToCandle(k); err == nil {
		t.Error("expected a parse error for a malformed close")
	}
}
