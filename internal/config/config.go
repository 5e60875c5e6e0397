package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"smart_channels/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. SMART_CHANNELS_DB_PATH.
const EnvPrefix = "SMART_CHANNELS"

// Rate limit counter backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	Port         string             `mapstructure:"port"`
	DB           DBConfig           `mapstructure:"db"`
	Log          LogConfig          `mapstructure:"log"`
	Auth         AuthConfig         `mapstructure:"auth"`
	AuthThrottle AuthThrottleConfig `mapstructure:"auth_throttle"`
	Admin        AdminConfig        `mapstructure:"admin"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Channels     ChannelsConfig     `mapstructure:"channels"`
	UserLimits   UserLimitsConfig   `mapstructure:"user_limits"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type AuthThrottleConfig struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type RateLimitConfig struct {
	Default string `mapstructure:"default"` // "limit/seconds"
	Store   string `mapstructure:"store"`   // memory | sqlite | redis
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ChannelsConfig struct {
	MaxOpeningClosingTimeS int  `mapstructure:"max_opening_closing_time_s"`
	SeedOnSignUp           bool `mapstructure:"seed_on_sign_up"`
}

// UserLimitsConfig holds the object limits given to new users.
type UserLimitsConfig struct {
	AccessID        int `mapstructure:"access_id"`
	ChannelGroup    int `mapstructure:"channel_group"`
	ChannelPerGroup int `mapstructure:"channel_per_group"`
	DirectLink      int `mapstructure:"direct_link"`
	Location        int `mapstructure:"location"`
	OAuthClient     int `mapstructure:"oauth_client"`
	Schedule        int `mapstructure:"schedule"`
}

func (u UserLimitsConfig) Limits() models.Limits {
	return models.Limits{
		AccessID:        u.AccessID,
		ChannelGroup:    u.ChannelGroup,
		ChannelPerGroup: u.ChannelPerGroup,
		DirectLink:      u.DirectLink,
		Location:        u.Location,
		OAuthClient:     u.OAuthClient,
		Schedule:        u.Schedule,
	}
}

var defaults = map[string]any{
	"port":                                "8080",
	"db.path":                             "app.db",
	"log.level":                           "info",
	"log.format":                          "console",
	"auth.signing_key":                    "change-me",
	"auth.token_ttl":                      "1h",
	"auth_throttle.rate":                  1.0,
	"auth_throttle.burst":                 5,
	"admin.token":                         "",
	"rate_limit.default":                  "1000/3600",
	"rate_limit.store":                    StoreSQLite,
	"redis.addr":                          "localhost:6379",
	"redis.password":                      "",
	"redis.db":                            0,
	"channels.max_opening_closing_time_s": 300,
	"channels.seed_on_sign_up":            true,
	"user_limits.access_id":               10,
	"user_limits.channel_group":           20,
	"user_limits.channel_per_group":       10,
	"user_limits.direct_link":             50,
	"user_limits.location":                10,
	"user_limits.oauth_client":            20,
	"user_limits.schedule":                20,
}

// Load reads <dir>/config.yml, then .env, then SMART_CHANNELS_* variables.
// A missing config file or .env is not an error; every key has a default.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.RateLimit.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("rate_limit.store: unknown backend %q", c.RateLimit.Store)
	}
	if c.Channels.MaxOpeningClosingTimeS <= 0 {
		return fmt.Errorf("channels.max_opening_closing_time_s must be positive, got %d", c.Channels.MaxOpeningClosingTimeS)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	return nil
}
