package model

import "time"

// Condition is a discrete indicator state label.
type Condition string

const (
	CondExtremelyOverbought Condition = "extremely_overbought"
	CondOverbought          Condition = "overbought"
	CondBullish             Condition = "bullish"
	CondNeutral             Condition = "neutral"
	CondBearish             Condition = "bearish"
	CondOversold            Condition = "oversold"
	CondExtremelyOversold   Condition = "extremely_oversold"
)

// Trend is the aggregate per-timeframe trend label.
type Trend string

const (
	TrendStrongBullish Trend = "strong_bullish"
	TrendBullish       Trend = "bullish"
	TrendNeutral       Trend = "neutral"
	TrendBearish       Trend = "bearish"
	TrendStrongBearish Trend = "strong_bearish"
)

// Crossover marks a MACD histogram sign flip versus the previous bar.
type Crossover string

const (
	CrossoverBullish Crossover = "bullish_crossover"
	CrossoverBearish Crossover = "bearish_crossover"
	CrossoverNone    Crossover = "no_crossover"
)

// BandPosition locates the current price relative to the Bollinger Bands.
type BandPosition string

const (
	BandAboveUpper BandPosition = "above_upper"
	BandUpperHalf  BandPosition = "upper_half"
	BandLowerHalf  BandPosition = "lower_half"
	BandBelowLower BandPosition = "below_lower"
	BandUnknown    BandPosition = "unknown"
)

// VolumeTrend is the OBV direction over the last five bars.
type VolumeTrend string

const (
	VolumeAccumulation VolumeTrend = "accumulation"
	VolumeDistribution VolumeTrend = "distribution"
	VolumeUnknown      VolumeTrend = "unknown"
)

// Action is the trade direction decision.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// RSIResult holds the latest RSI value, its condition, and its short trend.
type RSIResult struct {
	Value     float64
	Condition Condition
	Rising    bool
	Valid     bool
}

// MACDResult holds the latest MACD line, signal, and histogram values.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
	Condition Condition
	Crossover Crossover
	Valid     bool
}

// BollingerResult holds the latest band values and the derived position.
type BollingerResult struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Position BandPosition
	Squeeze  bool
	Valid    bool
}

// OBVResult holds the latest on-balance volume and its trend.
type OBVResult struct {
	Value float64
	Trend VolumeTrend
	Valid bool
}

// LevelSet holds support/resistance levels, ascending and deduplicated,
// capped to the three most recent pivots per side. Strength counts all
// qualifying pivots before capping.
type LevelSet struct {
	Support    []float64
	Resistance []float64
	Strength   int
}

// VolumeProfile approximates where volume concentrated by close price.
type VolumeProfile struct {
	POC          float64 // point of control
	TotalVolume  float64
	Distribution string // "balanced", "skewed", "unknown"
}

// TimeframeAnalysis aggregates one timeframe's full analysis. Constructed
// fresh per cycle and never mutated afterwards.
type TimeframeAnalysis struct {
	Timeframe     string
	CurrentPrice  float64
	RSI           RSIResult
	MACD          MACDResult
	Bollinger     BollingerResult
	OBV           OBVResult
	Levels        LevelSet
	VolumeProfile VolumeProfile
	Trend         Trend
	Confidence    float64 // 0 ~ 100
}

// TradeLevels is the derived entry/stop/target set for one horizon.
type TradeLevels struct {
	Horizon    string // "intraday" or "swing"
	Action     Action
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	RewardRisk float64
}

// Report is the assembled multi-timeframe analysis handed to the
// formatting and recording collaborators.
type Report struct {
	Symbol             string
	GeneratedAt        time.Time
	Anchor             Candle
	HasAnchor          bool
	Price              PriceInfo
	Context            MarketContext
	Timeframes         map[string]*TimeframeAnalysis
	Errors             map[string]string // timeframe -> failure marker
	Intraday           TradeLevels
	Swing              TradeLevels
	ShortTermSentiment float64 // 0 ~ 1
	LongTermSentiment  float64 // 0 ~ 1
}
