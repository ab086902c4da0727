package collector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"CryptoSentinel/internal/model"
)

// BinanceFetcher implements Fetcher against the Binance spot API. Requests
// are rate limited and retried with exponential backoff.
type BinanceFetcher struct {
	client  *binance.Client
	limiter *rate.Limiter
}

// NewBinanceFetcher creates a Binance fetcher. API keys are optional for
// the public market-data endpoints used here.
func NewBinanceFetcher(apiKey, secretKey string) *BinanceFetcher {
	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return &BinanceFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchCandles fetches one timeframe's klines, newest last.
func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error) {
	klines, err := f.withRetry(ctx, func() ([]*binance.Kline, error) {
		return f.client.NewKlinesService().
			Symbol(normalizeSymbol(symbol)).
			Interval(timeframe).
			Limit(limit).
			Do(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("binance klines %s %s: %w", symbol, timeframe, err)
	}

	candles := make([]model.Candle, 0, len(klines))
	for _, k := range klines {
		c, err := klineToCandle(k)
		if err != nil {
			return nil, fmt.Errorf("binance kline parse %s %s: %w", symbol, timeframe, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// FetchTicker fetches the 24h ticker statistics.
func (f *BinanceFetcher) FetchTicker(ctx context.Context, symbol string) (model.PriceInfo, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return model.PriceInfo{}, err
	}
	stats, err := f.client.NewListPriceChangeStatsService().
		Symbol(normalizeSymbol(symbol)).
		Do(ctx)
	if err != nil {
		return model.PriceInfo{}, fmt.Errorf("binance ticker %s: %w", symbol, err)
	}
	if len(stats) == 0 {
		return model.PriceInfo{}, fmt.Errorf("binance ticker %s: no data", symbol)
	}
	s := stats[0]

	info := model.PriceInfo{Source: f.Name()}
	info.Price, _ = strconv.ParseFloat(s.LastPrice, 64)
	info.Change24h, _ = strconv.ParseFloat(s.PriceChangePercent, 64)
	info.Volume24h, _ = strconv.ParseFloat(s.Volume, 64)
	info.High24h, _ = strconv.ParseFloat(s.HighPrice, 64)
	info.Low24h, _ = strconv.ParseFloat(s.LowPrice, 64)
	return info, nil
}

// FetchMarketContext derives the 24h market context from the ticker.
func (f *BinanceFetcher) FetchMarketContext(ctx context.Context, symbol string) (model.MarketContext, error) {
	info, err := f.FetchTicker(ctx, symbol)
	if err != nil {
		return model.MarketContext{}, err
	}
	return contextFromChange(info.Change24h, info.Volume24h), nil
}

// withRetry runs the call up to three retries with exponential backoff,
// waiting on the rate limiter before each attempt.
func (f *BinanceFetcher) withRetry(ctx context.Context, call func() ([]*binance.Kline, error)) ([]*binance.Kline, error) {
	const maxRetries = 3
	backoff := 100 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		klines, err := call()
		if err == nil {
			return klines, nil
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}
		wait := time.Duration(math.Pow(2, float64(attempt))) * backoff
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func klineToCandle(k *binance.Kline) (model.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return model.Candle{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return model.Candle{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return model.Candle{}, err
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return model.Candle{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return model.Candle{}, err
	}
	return model.Candle{
		Time:   time.UnixMilli(k.OpenTime),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// contextFromChange maps a 24h percent change to the qualitative
// sentiment used in report narratives.
func contextFromChange(change24h, volume24h float64) model.MarketContext {
	sentiment := "neutral"
	if change24h > 2 {
		sentiment = "bullish"
	} else if change24h < -2 {
		sentiment = "bearish"
	}
	strength := math.Abs(change24h) / 10
	if strength > 1 {
		strength = 1
	}
	return model.MarketContext{
		PriceChange24h:    change24h,
		Volume24h:         volume24h,
		Sentiment:         sentiment,
		SentimentStrength: strength,
	}
}
