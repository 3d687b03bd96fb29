package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Bot   BotConfig
	Mongo MongoConfig
	Redis RedisConfig
	Cache CacheConfig
	Ops   OpsConfig
	Log   LogConfig
}

// BotConfig carries the Telegram credentials and the single owner identity.
type BotConfig struct {
	Token       string
	OwnerID     int64
	PollTimeout time.Duration
}

type MongoConfig struct {
	URI               string
	Database          string
	FilesCollection   string
	StagingCollection string
	OpTimeout         time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes the resolve-by-code read-through cache.
type CacheConfig struct {
	Enabled    bool
	ResolveTTL time.Duration
}

// OpsConfig configures the health/metrics HTTP listener.
type OpsConfig struct {
	Port int
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Bot = BotConfig{
		Token:       v.GetString("BOT_TOKEN"),
		OwnerID:     v.GetInt64("OWNER_ID"),
		PollTimeout: parseDuration(v.GetString("BOT_POLL_TIMEOUT"), 60*time.Second),
	}

	cfg.Mongo = MongoConfig{
		URI:               v.GetString("MONGO_URI"),
		Database:          v.GetString("MONGO_DATABASE"),
		FilesCollection:   v.GetString("MONGO_FILES_COLLECTION"),
		StagingCollection: v.GetString("MONGO_STAGING_COLLECTION"),
		OpTimeout:         parseDuration(v.GetString("MONGO_OP_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_RESOLVE_CACHE"),
		ResolveTTL: parseDuration(v.GetString("RESOLVE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Ops = OpsConfig{Port: v.GetInt("OPS_PORT")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Bot.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID is required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("OWNER_ID", 0)
	v.SetDefault("BOT_POLL_TIMEOUT", "60s")

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "telegram_bot")
	v.SetDefault("MONGO_FILES_COLLECTION", "files")
	v.SetDefault("MONGO_STAGING_COLLECTION", "temp_files")
	v.SetDefault("MONGO_OP_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_RESOLVE_CACHE", false)
	v.SetDefault("RESOLVE_CACHE_TTL", "10m")

	v.SetDefault("OPS_PORT", 8080)

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
