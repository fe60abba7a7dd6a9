// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
	"github.com/EgorLis/bbstatusbot/internal/health"
	"github.com/EgorLis/bbstatusbot/internal/render"
)

// Значения по умолчанию, как у исходного бота.
const (
	DefaultPollInterval       = 60 * time.Second
	DefaultDirectoryURL       = bbapi.DefaultURL
	DefaultLivenessAddr       = health.DefaultAddr
	DefaultStaleAfterMinutes  = health.DefaultStaleAfter
	DefaultMapURLTemplate     = render.DefaultMapURL
	DefaultBaseImagePath      = render.DefaultBasePath
	DefaultCompositeImagePath = render.DefaultCompositePath
	DefaultBrightness         = render.DefaultBrightness
	DefaultLogLevel           = "info"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("config: token is empty (set it in the file or the token env variable)")
	}
	if cfg.ServerName == "" {
		return errors.New("config: server_name is empty")
	}
	if cfg.PollInterval < 0 {
		return fmt.Errorf("config: poll_interval must be >= 0, got %v", cfg.PollInterval)
	}
	if cfg.StaleAfterMinutes < 0 {
		return fmt.Errorf("config: stale_after_minutes must be >= 0, got %d", cfg.StaleAfterMinutes)
	}
	if cfg.MapURLTemplate != "" && strings.Count(cfg.MapURLTemplate, "%s") != 1 {
		return fmt.Errorf("config: map_url_template must contain exactly one %%s: %q", cfg.MapURLTemplate)
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("config: log_level: %w", err)
		}
	}
	return nil
}

// Normalize fills defaults for everything left empty.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.DirectoryURL == "" {
		cfg.DirectoryURL = DefaultDirectoryURL
	}
	if cfg.LivenessAddr == "" {
		cfg.LivenessAddr = DefaultLivenessAddr
	}
	if cfg.StaleAfterMinutes == 0 {
		cfg.StaleAfterMinutes = DefaultStaleAfterMinutes
	}
	if cfg.MapURLTemplate == "" {
		cfg.MapURLTemplate = DefaultMapURLTemplate
	}
	if cfg.BaseImagePath == "" {
		cfg.BaseImagePath = DefaultBaseImagePath
	}
	if cfg.CompositeImagePath == "" {
		cfg.CompositeImagePath = DefaultCompositeImagePath
	}
	if cfg.Brightness == nil {
		b := DefaultBrightness
		cfg.Brightness = &b
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
