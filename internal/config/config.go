package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration knobs for the console.
type Config struct {
	HTTP struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"http"`
	API struct {
		BaseURL        string        `mapstructure:"base_url"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"api"`
	Storage struct {
		Path   string `mapstructure:"path"`
		Secret string `mapstructure:"secret"`
	} `mapstructure:"storage"`
	Session struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TTL       time.Duration `mapstructure:"ttl"`
	} `mapstructure:"session"`
	Dashboard struct {
		PageSize       int           `mapstructure:"page_size"`
		SearchDebounce time.Duration `mapstructure:"search_debounce"`
		WindowWidth    int           `mapstructure:"window_width"`
	} `mapstructure:"dashboard"`
	Frontend struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"frontend"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads the configuration from disk/environment using Viper.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("hireloop_console")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// missing config file is fine; env-only configuration is supported
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")

	v.SetDefault("api.base_url", "https://api-dev.smoothire.com/api/v1")
	v.SetDefault("api.request_timeout", "15s")

	v.SetDefault("storage.path", "./data/console.db")
	v.SetDefault("storage.secret", "change-me-storage-secret")

	v.SetDefault("session.jwt_secret", "change-me-secret")
	v.SetDefault("session.ttl", "12h")

	v.SetDefault("dashboard.page_size", 10)
	v.SetDefault("dashboard.search_debounce", "1s")
	v.SetDefault("dashboard.window_width", 5)

	v.SetDefault("frontend.dir", "./web")

	v.SetDefault("log.level", "info")
}
