// internal/config/config.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	// ---- tracked server ----
	Token          string `yaml:"token"`
	ServerName     string `yaml:"server_name"`
	SetBannerImage bool   `yaml:"set_banner_image"`

	// ---- polling ----
	PollInterval time.Duration `yaml:"poll_interval"`
	DirectoryURL string        `yaml:"directory_url"`

	// ---- liveness ----
	LivenessAddr      string `yaml:"liveness_addr"`
	StaleAfterMinutes int64  `yaml:"stale_after_minutes"`

	// ---- rendering ----
	MapURLTemplate     string            `yaml:"map_url_template"`
	BaseImagePath      string            `yaml:"base_image_path"`
	CompositeImagePath string            `yaml:"composite_image_path"`
	Brightness         *int              `yaml:"brightness"`
	Gamemodes          map[string]string `yaml:"gamemodes"`

	// ---- discord ----
	ProfileEditInterval time.Duration `yaml:"profile_edit_interval"`

	LogLevel string `yaml:"log_level"`
}

// Default — конфиг по умолчанию: баннер включён, остальное заполнит Normalize.
func Default() Config {
	return Config{SetBannerImage: true}
}

// Load читает YAML. Отсутствующие поля остаются как в Default().
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadOrDefault — как Load, но отсутствующий файл не ошибка.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save записывает конфиг обратно на диск.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	// в файле лежит токен
	return os.WriteFile(path, b, 0600)
}
