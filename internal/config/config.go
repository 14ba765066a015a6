package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/auth"
	"github.com/spf13/viper"
)

// Config is the full kitreg configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

type AuthConfig struct {
	Tokens []auth.TokenEntry `mapstructure:"tokens"`
	// JWTSecret enables HS256 bearer tokens alongside the static table.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ClientConfig configures the CLI when it talks to a remote registry.
type ClientConfig struct {
	RegistryURL   string `mapstructure:"registry_url"`
	Token         string `mapstructure:"token"`
	InstalledFile string `mapstructure:"installed_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration through viper: defaults, then the kitreg.yml
// search path, then KITREG_* environment variables.
func Load() (*Config, error) {
	viper.SetDefault("server.port", 8472)
	viper.SetDefault("server.data_dir", defaultDataDir())
	viper.SetDefault("client.registry_url", "http://localhost:8472")
	viper.SetDefault("client.installed_file", filepath.Join(defaultDataDir(), "installed.yml"))
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("KITREG")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Server.DataDir == "" {
		cfg.Server.DataDir = defaultDataDir()
		log.Debug("Config had empty data_dir, using default", "data_dir", cfg.Server.DataDir)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	return &cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".kitreg")
	}
	return "./kitreg-data"
}
