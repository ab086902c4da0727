package collector

import (
	"context"
	"strings"

	"CryptoSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data from one provider.
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error)
	FetchTicker(ctx context.Context, symbol string) (model.PriceInfo, error)
	FetchMarketContext(ctx context.Context, symbol string) (model.MarketContext, error)
	Name() string
}

// normalizeSymbol turns a "ETH/USDT" style pair into the exchange form
// "ETHUSDT".
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(symbol), "/", ""))
}
