package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML overlay. Unset keys leave the
// environment-derived value untouched.
type FileConfig struct {
	Server  ServerFile  `toml:"server"`
	Store   StoreFile   `toml:"store"`
	OpenAI  OpenAIFile  `toml:"openai"`
	Ranking RankingFile `toml:"ranking"`
}

type ServerFile struct {
	Port           *string  `toml:"port"`
	LogLevel       *string  `toml:"log-level"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

type StoreFile struct {
	Driver     *string `toml:"driver"`
	SQLitePath *string `toml:"sqlite-path"`
}

type OpenAIFile struct {
	Model      *string `toml:"model"`
	BaseURL    *string `toml:"base-url"`
	Timeout    *string `toml:"timeout"`
	MaxRetries *int    `toml:"max-retries"`
}

type RankingFile struct {
	Locale *string `toml:"locale"`
}

// LoadFile reads a TOML overlay from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.Server.Port != nil {
		cfg.Port = *fc.Server.Port
	}
	if fc.Server.LogLevel != nil {
		cfg.LogLevel = *fc.Server.LogLevel
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.HTTP.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Store.Driver != nil {
		cfg.Store.Driver = *fc.Store.Driver
	}
	if fc.Store.SQLitePath != nil {
		cfg.Store.SQLitePath = *fc.Store.SQLitePath
	}
	if fc.OpenAI.Model != nil {
		cfg.OpenAI.Model = *fc.OpenAI.Model
	}
	if fc.OpenAI.BaseURL != nil {
		cfg.OpenAI.BaseURL = *fc.OpenAI.BaseURL
	}
	if fc.OpenAI.Timeout != nil {
		if d, err := time.ParseDuration(*fc.OpenAI.Timeout); err == nil {
			cfg.OpenAI.Timeout = d
		}
	}
	if fc.OpenAI.MaxRetries != nil {
		cfg.OpenAI.MaxRetries = *fc.OpenAI.MaxRetries
	}
	if fc.Ranking.Locale != nil {
		cfg.Ranking.Locale = *fc.Ranking.Locale
	}
}
