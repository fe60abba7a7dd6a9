// internal/config/env.go
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Переменные окружения, перекрывающие файл.
const (
	EnvToken          = "token"
	EnvServerName     = "server_name"
	EnvSetBannerImage = "set_banner_image"
)

// LoadDotEnv подгружает .env, если он есть. Уже заданные переменные не трогает.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(files...)
}

// ApplyEnv накладывает переменные окружения поверх cfg.
// lookup — обычно os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil {
		return
	}
	if v, ok := lookup(EnvToken); ok {
		cfg.Token = v
	}
	if v, ok := lookup(EnvServerName); ok {
		cfg.ServerName = v
	}
	if v, ok := lookup(EnvSetBannerImage); ok {
		cfg.SetBannerImage = parseBool(v)
	}
}

// "false" и "f" выключают, всё остальное включает.
func parseBool(v string) bool {
	switch v {
	case "true", "t":
		return true
	case "false", "f":
		return false
	default:
		return true
	}
}
