package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"CryptoSentinel/internal/model"
)

// Collector assembles a full MarketSnapshot from a chain of fetchers,
// trying each provider in order until one delivers candle data.
type Collector struct {
	Fetchers    []Fetcher
	Timeframes  []string
	CandleLimit int
}

// NewCollector creates a Collector over the given fetcher chain.
func NewCollector(fetchers []Fetcher, timeframes []string, candleLimit int) *Collector {
	return &Collector{Fetchers: fetchers, Timeframes: timeframes, CandleLimit: candleLimit}
}

// Snapshot fetches every configured timeframe plus ticker and market
// context for one symbol. Providers are tried in order; a provider counts
// as working when it returns at least one non-empty series.
func (c *Collector) Snapshot(ctx context.Context, symbol string) (*model.MarketSnapshot, error) {
	if len(c.Fetchers) == 0 {
		return nil, fmt.Errorf("no data sources configured for %s", symbol)
	}
	var lastErr error
	for _, f := range c.Fetchers {
		snap, err := c.snapshotFrom(ctx, f, symbol)
		if err != nil {
			log.Printf("[WARN] %s fetch failed for %s: %v", f.Name(), symbol, err)
			lastErr = err
			continue
		}
		log.Printf("[INFO] %s: %s data fetched (%d timeframes)", f.Name(), symbol, len(snap.Series))
		return snap, nil
	}
	return nil, fmt.Errorf("all data sources failed for %s: %w", symbol, lastErr)
}

func (c *Collector) snapshotFrom(ctx context.Context, f Fetcher, symbol string) (*model.MarketSnapshot, error) {
	series := make(map[string]*model.CandleSeries, len(c.Timeframes))

	// Timeframes are independent, so fetch them concurrently.
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, tf := range c.Timeframes {
		wg.Add(1)
		go func(tf string) {
			defer wg.Done()
			candles, err := f.FetchCandles(ctx, symbol, tf, c.CandleLimit)
			if err != nil {
				log.Printf("[WARN] %s: fetch %s %s: %v", f.Name(), symbol, tf, err)
				return
			}
			if len(candles) == 0 {
				return
			}
			mu.Lock()
			series[tf] = &model.CandleSeries{
				Symbol:    symbol,
				Timeframe: tf,
				Candles:   candles,
				FetchedAt: time.Now(),
			}
			mu.Unlock()
		}(tf)
	}
	wg.Wait()

	if len(series) == 0 {
		return nil, fmt.Errorf("no candle data from %s", f.Name())
	}

	snap := &model.MarketSnapshot{
		Symbol:    symbol,
		Series:    series,
		FetchedAt: time.Now(),
	}

	if info, err := f.FetchTicker(ctx, symbol); err != nil {
		log.Printf("[WARN] %s: ticker %s: %v", f.Name(), symbol, err)
	} else {
		snap.Price = info
	}
	if mctx, err := f.FetchMarketContext(ctx, symbol); err != nil {
		log.Printf("[WARN] %s: market context %s: %v, defaulting to neutral", f.Name(), symbol, err)
		snap.Context = model.MarketContext{Sentiment: "neutral", SentimentStrength: 0.5}
	} else {
		snap.Context = mctx
	}

	// Anchor candle comes from the intraday series when available.
	anchorSeries, ok := series["15m"]
	if !ok {
		for _, tf := range c.Timeframes {
			if s, present := series[tf]; present {
				anchorSeries = s
				break
			}
		}
	}
	if anchor, has := anchorSeries.AnchorCandle(); has {
		snap.Anchor = anchor
		snap.HasAnchor = true
	}

	return snap, nil
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles map[string][]model.Candle // per timeframe; generated when nil
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, timeframe string, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles[timeframe], nil
	}
	return GenerateCandles(m.Price, limit), nil
}

func (m *MockFetcher) FetchTicker(_ context.Context, _ string) (model.PriceInfo, error) {
	if m.Err != nil {
		return model.PriceInfo{}, m.Err
	}
	return model.PriceInfo{Price: m.Price, Source: m.Name()}, nil
}

func (m *MockFetcher) FetchMarketContext(_ context.Context, _ string) (model.MarketContext, error) {
	if m.Err != nil {
		return model.MarketContext{}, m.Err
	}
	return model.MarketContext{Sentiment: "neutral", SentimentStrength: 0.5}, nil
}

// GenerateCandles produces a mild drift series around a base price.
func GenerateCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			Time:   time.Now().Add(-time.Duration(count-i) * 15 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return candles
}
