package analysis

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"CryptoSentinel/internal/indicator"
	"CryptoSentinel/internal/model"
)

// Preferred timeframes for the two trade horizons. When absent, the
// first (resp. last) available timeframe stands in.
const (
	IntradayTimeframe = "15m"
	SwingTimeframe    = "1d"
)

// Analyzer runs the full indicator/scoring pipeline for one or more
// timeframes. It is stateless across invocations; every call constructs
// fresh result structures.
type Analyzer struct {
	Backend indicator.Backend

	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerWidth  float64
	SMAShort        int
	SMALong         int
	PivotWindow     int
}

// NewAnalyzer creates an Analyzer with the standard parameter set.
func NewAnalyzer(backend indicator.Backend) *Analyzer {
	return &Analyzer{
		Backend:         backend,
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerWidth:  2.0,
		SMAShort:        20,
		SMALong:         50,
		PivotWindow:     indicator.DefaultPivotWindow,
	}
}

// AnalyzeTimeframe runs indicators, classification, and scoring over one
// candle series. Individual indicator failures degrade to neutral
// defaults; only a completely empty series is an error.
func (a *Analyzer) AnalyzeTimeframe(series *model.CandleSeries) (*model.TimeframeAnalysis, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("no candle data for timeframe %s", timeframeLabel(series))
	}

	closes := series.Closes()
	volumes := make([]float64, len(series.Candles))
	for i, c := range series.Candles {
		volumes[i] = c.Volume
	}
	n := len(closes)
	currentPrice := closes[n-1]

	ta := &model.TimeframeAnalysis{
		Timeframe:    series.Timeframe,
		CurrentPrice: currentPrice,
		RSI:          model.RSIResult{Condition: model.CondNeutral},
		MACD:         model.MACDResult{Condition: model.CondNeutral, Crossover: model.CrossoverNone},
		Bollinger:    model.BollingerResult{Position: model.BandUnknown},
		OBV:          model.OBVResult{Trend: model.VolumeUnknown},
	}

	// RSI
	if n >= a.RSIPeriod+1 {
		rsi := a.Backend.RSI(closes, a.RSIPeriod)
		if v := rsi[n-1]; isFinite(v) {
			ta.RSI = model.RSIResult{
				Value:     v,
				Condition: RSICondition(v),
				Rising:    n >= 3 && isFinite(rsi[n-3]) && v > rsi[n-3],
				Valid:     true,
			}
		}
	}

	// MACD
	if n >= a.MACDSlow+a.MACDSignal {
		macd, sig, hist := a.Backend.MACD(closes, a.MACDFast, a.MACDSlow, a.MACDSignal)
		if isFinite(macd[n-1]) && isFinite(sig[n-1]) && isFinite(hist[n-1]) {
			crossover := model.CrossoverNone
			if n >= 2 && isFinite(hist[n-2]) {
				crossover = DetectCrossover(hist[n-1], hist[n-2])
			}
			ta.MACD = model.MACDResult{
				MACD:      macd[n-1],
				Signal:    sig[n-1],
				Histogram: hist[n-1],
				Condition: MACDCondition(macd[n-1], sig[n-1], hist[n-1]),
				Crossover: crossover,
				Valid:     true,
			}
		}
	}

	// Bollinger Bands
	if n >= a.BollingerPeriod {
		upper, middle, lower := a.Backend.Bollinger(closes, a.BollingerPeriod, a.BollingerWidth)
		if isFinite(upper[n-1]) && isFinite(middle[n-1]) && isFinite(lower[n-1]) {
			ta.Bollinger = model.BollingerResult{
				Upper:    upper[n-1],
				Middle:   middle[n-1],
				Lower:    lower[n-1],
				Position: BollingerPosition(currentPrice, upper[n-1], middle[n-1], lower[n-1]),
				Squeeze:  DetectSqueeze(upper, lower),
				Valid:    true,
			}
		}
	}

	// On-Balance Volume
	obv := a.Backend.OBV(closes, volumes)
	if len(obv) > 0 {
		ta.OBV = model.OBVResult{Value: obv[len(obv)-1], Trend: OBVTrend(obv), Valid: true}
	}

	// Support/resistance and volume profile
	ta.Levels = indicator.FindSupportResistance(series.Candles, a.PivotWindow)
	ta.VolumeProfile = indicator.VolumeProfileOf(series.Candles)

	// Aggregate trend and confidence. Missing moving averages stay NaN so
	// their comparisons drop out of the alignment score.
	smaShort, smaLong := math.NaN(), math.NaN()
	if n >= a.SMAShort {
		if v := a.Backend.SMA(closes, a.SMAShort)[n-1]; isFinite(v) {
			smaShort = v
		}
	}
	if n >= a.SMALong {
		if v := a.Backend.SMA(closes, a.SMALong)[n-1]; isFinite(v) {
			smaLong = v
		}
	}
	ta.Trend = DetermineTrend(currentPrice, smaShort, smaLong, ta.RSI.Condition, ta.MACD.Condition)
	ta.Confidence = ConfidenceScore(ta.RSI.Condition, ta.MACD.Condition, ta.MACD.Crossover, ta.Levels.Strength)

	return ta, nil
}

// Analyze runs the pipeline once per timeframe in the snapshot and
// assembles the report. A single timeframe's failure is recorded as an
// error marker and never aborts the others; only a snapshot with no
// series at all is an error.
func (a *Analyzer) Analyze(snap *model.MarketSnapshot) (*model.Report, error) {
	if snap == nil || len(snap.Series) == 0 {
		return nil, fmt.Errorf("no market data to analyze")
	}

	rep := &model.Report{
		Symbol:      snap.Symbol,
		GeneratedAt: time.Now(),
		Anchor:      snap.Anchor,
		HasAnchor:   snap.HasAnchor,
		Price:       snap.Price,
		Context:     snap.Context,
		Timeframes:  make(map[string]*model.TimeframeAnalysis, len(snap.Series)),
		Errors:      make(map[string]string),
	}

	timeframes := make([]string, 0, len(snap.Series))
	for tf := range snap.Series {
		timeframes = append(timeframes, tf)
	}
	sort.Strings(timeframes)

	for _, tf := range timeframes {
		ta, err := a.AnalyzeTimeframe(snap.Series[tf])
		if err != nil {
			log.Printf("[WARN] analysis failed for %s %s: %v", snap.Symbol, tf, err)
			rep.Errors[tf] = err.Error()
			continue
		}
		rep.Timeframes[tf] = ta
	}

	intraday := pickTimeframe(rep.Timeframes, timeframes, IntradayTimeframe, false)
	swing := pickTimeframe(rep.Timeframes, timeframes, SwingTimeframe, true)

	anchorClose := 0.0
	if rep.HasAnchor {
		anchorClose = rep.Anchor.Close
	}
	rep.Intraday = CalcTradeLevels(anchorClose, actionOf(intraday), HorizonIntraday)
	rep.Swing = CalcTradeLevels(anchorClose, actionOf(swing), HorizonSwing)
	rep.ShortTermSentiment = sentimentOf(intraday)
	rep.LongTermSentiment = sentimentOf(swing)

	return rep, nil
}

// pickTimeframe returns the preferred timeframe's analysis, or the first
// (last, when fromEnd) available one when the preferred is missing.
func pickTimeframe(analyses map[string]*model.TimeframeAnalysis, sorted []string, preferred string, fromEnd bool) *model.TimeframeAnalysis {
	if ta, ok := analyses[preferred]; ok {
		return ta
	}
	if fromEnd {
		for i := len(sorted) - 1; i >= 0; i-- {
			if ta, ok := analyses[sorted[i]]; ok {
				return ta
			}
		}
		return nil
	}
	for _, tf := range sorted {
		if ta, ok := analyses[tf]; ok {
			return ta
		}
	}
	return nil
}

func actionOf(ta *model.TimeframeAnalysis) model.Action {
	if ta == nil {
		return model.ActionHold
	}
	return DecideAction(ta.Trend, ta.RSI.Condition, ta.MACD.Condition)
}

func sentimentOf(ta *model.TimeframeAnalysis) float64 {
	if ta == nil {
		return 0.5
	}
	return SentimentScore(ta.Trend, ta.RSI.Condition, ta.MACD.Condition, ta.OBV.Trend)
}

func timeframeLabel(series *model.CandleSeries) string {
	if series == nil {
		return "unknown"
	}
	return series.Timeframe
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
