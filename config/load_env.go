package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads config/envs/.env.<env> into the process environment.
// Variables already set in the environment win.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

// AppEnv returns APP_ENV, defaulting to dev.
func AppEnv() string {
	env := getEnv("APP_ENV", "")
	if env == "" {
		return "dev"
	}
	return env
}
