package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Roster store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Editor   EditorConfig
	Exports  ExportsConfig
	CORS     CORSConfig
	Log      LogConfig
}

// StoreConfig selects the roster snapshot backend and the key it writes under.
type StoreConfig struct {
	Backend string
	Key     string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CatalogConfig tunes the simulated remote course endpoints.
type CatalogConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	LookupDelay time.Duration
	CheckDelay  time.Duration
	FailureRate float64
	Seed        int64
}

// EditorConfig governs form-session behaviour.
type EditorConfig struct {
	DebounceInterval time.Duration
	MaxImageBytes    int64
}

// ExportsConfig toggles roster export endpoints.
type ExportsConfig struct {
	Enabled bool
	Title   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Backend: strings.ToLower(v.GetString("STORE_BACKEND")),
		Key:     v.GetString("STORE_KEY"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Catalog = CatalogConfig{
		MinDelay:    parseDuration(v.GetString("CATALOG_MIN_DELAY"), 500*time.Millisecond),
		MaxDelay:    parseDuration(v.GetString("CATALOG_MAX_DELAY"), 1500*time.Millisecond),
		LookupDelay: parseDuration(v.GetString("CATALOG_LOOKUP_DELAY"), 300*time.Millisecond),
		CheckDelay:  parseDuration(v.GetString("CATALOG_CHECK_DELAY"), 300*time.Millisecond),
		FailureRate: parseRate(v.GetString("CATALOG_FAILURE_RATE"), 0.1),
		Seed:        v.GetInt64("CATALOG_SEED"),
	}

	cfg.Editor = EditorConfig{
		DebounceInterval: parseDuration(v.GetString("EDITOR_DEBOUNCE_INTERVAL"), 500*time.Millisecond),
		MaxImageBytes:    v.GetInt64("EDITOR_MAX_IMAGE_BYTES"),
	}
	if cfg.Editor.MaxImageBytes <= 0 {
		cfg.Editor.MaxImageBytes = 5 * 1024 * 1024
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
		Title:   v.GetString("EXPORTS_TITLE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("STORE_KEY", "roster:students")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rosterhub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CATALOG_MIN_DELAY", "500ms")
	v.SetDefault("CATALOG_MAX_DELAY", "1500ms")
	v.SetDefault("CATALOG_LOOKUP_DELAY", "300ms")
	v.SetDefault("CATALOG_CHECK_DELAY", "300ms")
	v.SetDefault("CATALOG_FAILURE_RATE", "0.1")
	v.SetDefault("CATALOG_SEED", 0)

	v.SetDefault("EDITOR_DEBOUNCE_INTERVAL", "500ms")
	v.SetDefault("EDITOR_MAX_IMAGE_BYTES", 5*1024*1024)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_TITLE", "Student Roster")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseRate(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}

	return f
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
