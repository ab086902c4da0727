package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Market struct {
		Symbols       []string `yaml:"symbols"`
		DefaultSymbol string   `yaml:"default_symbol"`
		Timeframes    []string `yaml:"timeframes"`
		CandleLimit   int      `yaml:"candle_limit"`
	} `yaml:"market"`
	Exchange struct {
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"exchange"`
	Indicators struct {
		Backend string `yaml:"backend"` // "talib" or "formula"
	} `yaml:"indicators"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from an optional .env file and a YAML file, then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	// .env is a convenience for local runs; missing is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		cfg.Exchange.SecretKey = v
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		cfg.Market.DefaultSymbol = v
	}
	if v := os.Getenv("INDICATOR_BACKEND"); v != "" {
		cfg.Indicators.Backend = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Market.Symbols) == 0 {
		cfg.Market.Symbols = []string{"ETH/USDT", "BTC/USDT", "SOL/USDT"}
	}
	if cfg.Market.DefaultSymbol == "" {
		cfg.Market.DefaultSymbol = "ETH/USDT"
	}
	if len(cfg.Market.Timeframes) == 0 {
		cfg.Market.Timeframes = []string{"15m", "1h", "4h", "1d"}
	}
	if cfg.Market.CandleLimit == 0 {
		cfg.Market.CandleLimit = 200
	}
	if cfg.Indicators.Backend == "" {
		cfg.Indicators.Backend = "talib"
	}
	if cfg.Schedule.AnalysisCron == "" {
		cfg.Schedule.AnalysisCron = "0 0 * * * *" // hourly
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/crypto_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. Telegram credentials
// are optional; without them the bot runs in analysis-only mode.
func (c *Config) Validate() error {
	if c.Market.DefaultSymbol == "" {
		return fmt.Errorf("market.default_symbol is required")
	}
	if len(c.Market.Timeframes) == 0 {
		return fmt.Errorf("market.timeframes must not be empty")
	}
	if c.Market.CandleLimit <= 0 {
		return fmt.Errorf("market.candle_limit must be positive")
	}
	switch c.Indicators.Backend {
	case "talib", "formula":
	default:
		return fmt.Errorf("indicators.backend must be \"talib\" or \"formula\", got %q", c.Indicators.Backend)
	}
	return nil
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
