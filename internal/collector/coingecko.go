package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CryptoSentinel/internal/model"
)

// CoinGeckoFetcher is the last-resort data source when the exchange is
// unreachable. CoinGecko only provides price points, so candles are
// synthesized around each point; the same series serves every timeframe.
type CoinGeckoFetcher struct {
	BaseURL string
	Client  *http.Client
	CoinMap map[string]string // maps trading pair to CoinGecko coin id
}

// NewCoinGeckoFetcher creates a CoinGecko fetcher with optional proxy support.
func NewCoinGeckoFetcher(proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL: "https://api.coingecko.com/api/v3",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		CoinMap: map[string]string{
			"ETH/USDT": "ethereum",
			"BTC/USDT": "bitcoin",
			"SOL/USDT": "solana",
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

func (f *CoinGeckoFetcher) coinID(symbol string) string {
	if id, ok := f.CoinMap[symbol]; ok {
		return id
	}
	return "ethereum"
}

type geckoMarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// FetchCandles returns synthetic OHLCV bars built from hourly price
// points of the last seven days. The timeframe argument is ignored;
// CoinGecko's free chart endpoint has a single granularity.
func (f *CoinGeckoFetcher) FetchCandles(ctx context.Context, symbol, _ string, limit int) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=7&interval=hourly",
		f.BaseURL, url.PathEscape(f.coinID(symbol)))

	var chart geckoMarketChart
	if err := f.getJSON(ctx, endpoint, &chart); err != nil {
		return nil, fmt.Errorf("coingecko chart %s: %w", symbol, err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko chart %s: no data", symbol)
	}

	candles := make([]model.Candle, 0, len(chart.Prices))
	for i, p := range chart.Prices {
		ts, price := p[0], p[1]
		volume := 0.0
		if i < len(chart.TotalVolumes) {
			volume = chart.TotalVolumes[i][1]
		}
		candles = append(candles, model.Candle{
			Time:   time.UnixMilli(int64(ts)),
			Open:   price,
			High:   price * 1.001,
			Low:    price * 0.999,
			Close:  price,
			Volume: volume,
		})
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

type geckoSimplePrice struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
	USD24hVol    float64 `json:"usd_24h_vol"`
}

func (f *CoinGeckoFetcher) fetchSimplePrice(ctx context.Context, symbol string) (geckoSimplePrice, error) {
	id := f.coinID(symbol)
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_24hr_vol=true",
		f.BaseURL, url.QueryEscape(id))

	prices := map[string]geckoSimplePrice{}
	if err := f.getJSON(ctx, endpoint, &prices); err != nil {
		return geckoSimplePrice{}, fmt.Errorf("coingecko price %s: %w", symbol, err)
	}
	p, ok := prices[id]
	if !ok {
		return geckoSimplePrice{}, fmt.Errorf("coingecko price %s: no data", symbol)
	}
	return p, nil
}

func (f *CoinGeckoFetcher) FetchTicker(ctx context.Context, symbol string) (model.PriceInfo, error) {
	p, err := f.fetchSimplePrice(ctx, symbol)
	if err != nil {
		return model.PriceInfo{}, err
	}
	return model.PriceInfo{
		Price:     p.USD,
		Change24h: p.USD24hChange,
		Volume24h: p.USD24hVol,
		Source:    f.Name(),
	}, nil
}

func (f *CoinGeckoFetcher) FetchMarketContext(ctx context.Context, symbol string) (model.MarketContext, error) {
	p, err := f.fetchSimplePrice(ctx, symbol)
	if err != nil {
		return model.MarketContext{}, err
	}
	return contextFromChange(p.USD24hChange, p.USD24hVol), nil
}

func (f *CoinGeckoFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
