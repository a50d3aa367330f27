package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration, loaded from a yaml file with
// environment overrides (prefix CHIBRE, e.g. CHIBRE_DATABASE_DSN).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address"`
	StaticDir string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	// Driver is "sqlite3" or "pgx".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type GameConfig struct {
	TargetScore int           `mapstructure:"target_score"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// Load reads the configuration file at path. A missing file is not an error;
// defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.static_dir", "web/static")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./chibre.db")
	v.SetDefault("game.target_score", 1000)
	v.SetDefault("game.settle_delay", time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("CHIBRE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A file that exists but cannot be parsed is a hard error.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
