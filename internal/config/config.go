package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pauljones0/steam-deal-digest/internal/util"
)

type Config struct {
	Port              string
	DefaultCurrency   string
	DefaultGamesCount int
	DealCurrencies    []string
	CouponPercent     float64
	MaxDrafts         int
	DiscordWebhookURL string
	NotifyMaxRetries  int
	SteamMappingPath  string
	LogLevel          string
	LogFormat         string
}

// MaxNotifyRetries is the largest accepted NOTIFY_MAX_RETRIES.
const MaxNotifyRetries = 10

func Load() (*Config, error) {
	// A missing .env file is fine; the environment is used as is.
	_ = godotenv.Load()

	discordWebhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if discordWebhookURL == "" {
		slog.Debug("DISCORD_WEBHOOK_URL not set, Discord notifications will be skipped")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	defaultCurrency := strings.ToUpper(strings.TrimSpace(os.Getenv("DEFAULT_CURRENCY")))
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}

	dealCurrencies := util.SplitList(os.Getenv("DEAL_CURRENCIES"))
	if len(dealCurrencies) == 0 {
		dealCurrencies = []string{"USD", "EUR", "CAD", "GBP"}
	}

	defaultGamesCount, err := intEnv("DEFAULT_GAMES_COUNT", 4)
	if err != nil {
		return nil, err
	}
	if defaultGamesCount < 1 {
		return nil, fmt.Errorf("invalid DEFAULT_GAMES_COUNT %d: must be at least 1", defaultGamesCount)
	}

	maxDrafts, err := intEnv("MAX_DRAFTS", 5)
	if err != nil {
		return nil, err
	}

	notifyMaxRetries, err := intEnv("NOTIFY_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	notifyMaxRetries = min(max(notifyMaxRetries, 0), MaxNotifyRetries)

	couponPercent := 10.0
	if v := os.Getenv("COUPON_PERCENT"); v != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid COUPON_PERCENT %q: %w", v, err)
		}
		couponPercent = ClampCoupon(parsed)
	}

	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "" {
		logFormat = "text"
	}

	return &Config{
		Port:              port,
		DefaultCurrency:   defaultCurrency,
		DefaultGamesCount: defaultGamesCount,
		DealCurrencies:    dealCurrencies,
		CouponPercent:     couponPercent,
		MaxDrafts:         maxDrafts,
		DiscordWebhookURL: discordWebhookURL,
		NotifyMaxRetries:  notifyMaxRetries,
		SteamMappingPath:  os.Getenv("STEAM_MAPPING_PATH"),
		LogLevel:          logLevel,
		LogFormat:         logFormat,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

// ClampCoupon limits a coupon percentage to 0..50.
func ClampCoupon(p float64) float64 {
	return max(0, min(50, p))
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
// Unknown levels fall back to info and unknown formats to text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
