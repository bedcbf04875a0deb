package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"trading-assistant/internal/indicator"
	"trading-assistant/internal/news"
	"trading-assistant/internal/predictor"
	"trading-assistant/internal/risk"
	"trading-assistant/internal/types"
)

type Config struct {
	Mode         string `yaml:"mode" validate:"oneof=DRY_RUN LIVE"`
	DataSource   string `yaml:"data_source" validate:"oneof=STATIC YAHOO KITE"`
	Exchange     string `yaml:"exchange" validate:"required"`
	SymbolSuffix string `yaml:"symbol_suffix"`
	// HistoryDays is the calendar lookback for price history.
	HistoryDays int `yaml:"history_days" validate:"gte=30"`

	Indicators struct {
		RSIPeriod  int `yaml:"rsi_period" validate:"gte=2"`
		MACDFast   int `yaml:"macd_fast" validate:"gte=1"`
		MACDSlow   int `yaml:"macd_slow" validate:"gtfield=MACDFast"`
		MACDSignal int `yaml:"macd_signal" validate:"gte=1"`
		SMAFast    int `yaml:"sma_fast" validate:"gte=1"`
		SMASlow    int `yaml:"sma_slow" validate:"gtfield=SMAFast"`
		ATRPeriod  int `yaml:"atr_period" validate:"gte=1"`
	} `yaml:"indicators"`

	Sentiment struct {
		// LexiconPath replaces the built-in lexicon when set.
		LexiconPath  string `yaml:"lexicon_path"`
		MaxHeadlines int    `yaml:"max_headlines" validate:"gte=1"`
	} `yaml:"sentiment"`

	News struct {
		Enabled        bool     `yaml:"enabled"`
		Providers      []string `yaml:"providers" validate:"dive,oneof=FINNHUB SCRAPER"`
		WindowDays     int      `yaml:"window_days" validate:"gte=1"`
		CacheMinutes   int      `yaml:"cache_minutes" validate:"gte=0"`
		TimeoutSeconds int      `yaml:"timeout_seconds" validate:"gte=1"`
	} `yaml:"news"`

	Risk struct {
		Capital        float64 `yaml:"capital" validate:"gt=0"`
		RiskPct        float64 `yaml:"risk_pct" validate:"gt=0,lte=1"`
		TargetMultiple float64 `yaml:"target_multiple" validate:"gt=0"`
	} `yaml:"risk"`

	Model struct {
		Path         string  `yaml:"path" validate:"required"`
		Epochs       int     `yaml:"epochs" validate:"gte=1"`
		LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
		L2           float64 `yaml:"l2" validate:"gte=0"`
		TestFraction float64 `yaml:"test_fraction" validate:"gt=0,lt=1"`
		Seed         int64   `yaml:"seed"`
		// TrainOnFirstUse fits and saves a model when none exists yet.
		TrainOnFirstUse bool `yaml:"train_on_first_use"`
	} `yaml:"model"`

	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days" validate:"gte=0"`
		SQLitePath    string `yaml:"sqlite_path"`
	} `yaml:"journal"`

	Schedule struct {
		WatchCron string   `yaml:"watch_cron"`
		EODCron   string   `yaml:"eod_cron"`
		Symbols   []string `yaml:"symbols"`
	} `yaml:"schedule"`

	OrderTag string `yaml:"order_tag" validate:"max=20"`

	// Secrets come from the environment only.
	FinnhubAPIKey   string `yaml:"-"`
	KiteAPIKey      string `yaml:"-"`
	KiteAccessToken string `yaml:"-"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	c := &Config{
		Mode:        "DRY_RUN",
		DataSource:  "STATIC",
		Exchange:    "NSE",
		HistoryDays: 365,
		OrderTag:    "assistant",
	}

	p := indicator.DefaultParams()
	c.Indicators.RSIPeriod = p.RSIPeriod
	c.Indicators.MACDFast = p.MACDFast
	c.Indicators.MACDSlow = p.MACDSlow
	c.Indicators.MACDSignal = p.MACDSignal
	c.Indicators.SMAFast = p.SMAFast
	c.Indicators.SMASlow = p.SMASlow
	c.Indicators.ATRPeriod = 14

	c.Sentiment.MaxHeadlines = 10

	c.News.Enabled = true
	c.News.Providers = []string{"FINNHUB", "SCRAPER"}
	c.News.WindowDays = 30
	c.News.CacheMinutes = 60
	c.News.TimeoutSeconds = 30

	r := risk.DefaultParams()
	c.Risk.Capital = r.Capital
	c.Risk.RiskPct = r.RiskPct
	c.Risk.TargetMultiple = r.TargetMultiple

	c.Model.Path = "data/model.json"
	c.Model.Epochs = 500
	c.Model.LearningRate = 0.1
	c.Model.TestFraction = 0.2
	c.Model.Seed = 42
	c.Model.TrainOnFirstUse = true

	c.Journal.Dir = "logs"
	c.Journal.RetentionDays = 7

	c.Schedule.WatchCron = "0 16 * * 1-5"
	c.Schedule.EODCron = "45 15 * * 1-5"
	return c
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), types.ErrInvalidInput)
		}
		return err
	}
	if c.Mode == "LIVE" && (c.KiteAPIKey == "" || c.KiteAccessToken == "") {
		return fmt.Errorf("LIVE mode needs KITE_API_KEY and KITE_ACCESS_TOKEN: %w", types.ErrInvalidInput)
	}
	if c.DataSource == "KITE" && (c.KiteAPIKey == "" || c.KiteAccessToken == "") {
		return fmt.Errorf("KITE data source needs KITE_API_KEY and KITE_ACCESS_TOKEN: %w", types.ErrInvalidInput)
	}
	// SMA(slow) must be reachable within the history window.
	if c.HistoryDays < c.Indicators.SMASlow {
		return fmt.Errorf("history_days %d shorter than sma_slow %d: %w", c.HistoryDays, c.Indicators.SMASlow, types.ErrInvalidInput)
	}
	return nil
}

// LoadConfig reads path over the defaults, applies environment overrides and
// validates. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TRADING_MODE"); v != "" {
		c.Mode = strings.ToUpper(v)
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.DataSource = strings.ToUpper(v)
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Journal.SQLitePath = v
	}
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		c.Journal.Dir = v
	}
	if v := os.Getenv("TOTAL_CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Risk.Capital = f
		}
	}
	c.FinnhubAPIKey = os.Getenv("FINNHUB_API_KEY")
	c.KiteAPIKey = os.Getenv("KITE_API_KEY")
	c.KiteAccessToken = os.Getenv("KITE_ACCESS_TOKEN")
}

func (c *Config) IndicatorParams() indicator.Params {
	return indicator.Params{
		RSIPeriod:  c.Indicators.RSIPeriod,
		MACDFast:   c.Indicators.MACDFast,
		MACDSlow:   c.Indicators.MACDSlow,
		MACDSignal: c.Indicators.MACDSignal,
		SMAFast:    c.Indicators.SMAFast,
		SMASlow:    c.Indicators.SMASlow,
	}
}

func (c *Config) RiskParams() risk.Params {
	return risk.Params{
		Capital:        c.Risk.Capital,
		RiskPct:        c.Risk.RiskPct,
		TargetMultiple: c.Risk.TargetMultiple,
	}
}

func (c *Config) TrainOptions() predictor.TrainOptions {
	return predictor.TrainOptions{
		Epochs:       c.Model.Epochs,
		LearningRate: c.Model.LearningRate,
		L2:           c.Model.L2,
		TestFraction: c.Model.TestFraction,
		Seed:         c.Model.Seed,
	}
}

func (c *Config) NewsConfig() *news.ServiceConfig {
	return &news.ServiceConfig{
		MaxArticles:   c.Sentiment.MaxHeadlines,
		CacheDuration: time.Duration(c.News.CacheMinutes) * time.Minute,
		WindowDays:    c.News.WindowDays,
		Enabled:       c.News.Enabled,
	}
}

func (c *Config) NewsTimeout() time.Duration {
	return time.Duration(c.News.TimeoutSeconds) * time.Second
}
