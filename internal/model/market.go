package model

import "time"

// Candle represents a single OHLCV candlestick bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleSeries holds one timeframe's candles in chronological order.
// The last candle may still be in progress; the second-to-last is the
// latest completed one.
type CandleSeries struct {
	Symbol    string
	Timeframe string
	Candles   []Candle
	FetchedAt time.Time
}

// Len returns the number of candles in the series.
func (s *CandleSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Closes extracts the close prices in order.
func (s *CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// AnchorCandle returns the latest completed candle (second-to-last bar)
// and false when the series is too short to have one.
func (s *CandleSeries) AnchorCandle() (Candle, bool) {
	if s == nil || len(s.Candles) < 2 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-2], true
}

// PriceInfo is the latest ticker snapshot for a symbol.
type PriceInfo struct {
	Price     float64
	Change24h float64 // percent
	Volume24h float64
	High24h   float64
	Low24h    float64
	Source    string
}

// MarketContext carries 24h market color used by the report narrative.
type MarketContext struct {
	PriceChange24h    float64 // percent
	Volume24h         float64
	Sentiment         string  // "bullish", "bearish", "neutral"
	SentimentStrength float64 // 0.0 ~ 1.0
}

// MarketSnapshot is everything the analysis engine consumes for one symbol:
// one candle series per timeframe, the anchor candle from the intraday
// timeframe, the current ticker, and the market context.
type MarketSnapshot struct {
	Symbol    string
	Series    map[string]*CandleSeries
	Anchor    Candle
	HasAnchor bool
	Price     PriceInfo
	Context   MarketContext
	FetchedAt time.Time
}
