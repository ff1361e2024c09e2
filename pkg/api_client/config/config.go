package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// ProductionCacheTTL is how long a rendered course list is served from cache
	ProductionCacheTTL = 15 * time.Minute
	// DebugCacheTTL is used while the integration is being debugged
	DebugCacheTTL = 10 * time.Second
)

// Config holds every runtime setting of the service
type Config struct {
	Addr           string
	APIVersion     string
	CacheTTL       time.Duration
	Debug          bool
	FetchTimeout   time.Duration
	SessionTTL     time.Duration
	BlockStore     string
	BlockStorePath string
	RenderRate     float64
	RenderBurst    int
	PurgeSchedule  string
	LogLevel       logrus.Level
}

// Load reads an optional .env file and then the environment
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           getenv("PORT", ":1338"),
		APIVersion:     getenv("API_VERSION", "1.0.0"),
		BlockStore:     strings.ToLower(getenv("BLOCK_STORE", "yaml")),
		BlockStorePath: os.Getenv("BLOCK_STORE_PATH"),
		PurgeSchedule:  getenv("PURGE_SCHEDULE", "@every 1m"),
	}
	if !strings.Contains(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}

	var err error
	if cfg.Debug, err = getBool("CURSOS_DEBUG", false); err != nil {
		return cfg, err
	}
	defaultTTL := ProductionCacheTTL
	if cfg.Debug {
		defaultTTL = DebugCacheTTL
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", defaultTTL); err != nil {
		return cfg, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.RenderRate, err = getFloat("RENDER_RATE_LIMIT", 0); err != nil {
		return cfg, err
	}
	if cfg.RenderBurst, err = getInt("RENDER_RATE_BURST", 20); err != nil {
		return cfg, err
	}

	defaultPath := DefaultBlockStorePath(cfg.BlockStore)
	if defaultPath == "" {
		return cfg, fmt.Errorf("BLOCK_STORE %q: expected yaml or sqlite", cfg.BlockStore)
	}
	if cfg.BlockStorePath == "" {
		cfg.BlockStorePath = defaultPath
	}

	cfg.LogLevel = logrus.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(lvl); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	} else if cfg.Debug {
		cfg.LogLevel = logrus.DebugLevel
	}
	return cfg, nil
}

// DefaultBlockStorePath is the file used by a block store kind when no path is set
func DefaultBlockStorePath(kind string) string {
	switch kind {
	case "yaml":
		return "blocks.yaml"
	case "sqlite":
		return "blocks.db"
	}
	return ""
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func getBool(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func getInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getFloat(k string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}
