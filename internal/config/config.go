// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML-based configuration; environment variables override both files

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	// ProbeTimeoutMS bounds each terminal capability query in
	// milliseconds. Zero blocks until the terminal answers.
	ProbeTimeoutMS int `yaml:"probe_timeout_ms,omitempty"`

	// ImageProtocol forces the image protocol ("kitty", "iterm2",
	// "halfblock") instead of detecting it. Empty means detect.
	ImageProtocol string `yaml:"image_protocol,omitempty"`

	// CacheSize bounds each per-control render cache.
	CacheSize int `yaml:"cache_size,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFile receives log output while the screen is in raw mode.
	LogFile string `yaml:"log_file,omitempty"`

	// NoGraphics disables image output entirely, falling back to
	// half-block rendering regardless of terminal support.
	NoGraphics bool `yaml:"no_graphics,omitempty"`
}

// ProbeTimeout returns the probe timeout as a duration.
func (s *Settings) ProbeTimeout() time.Duration {
	return time.Duration(s.ProbeTimeoutMS) * time.Millisecond
}

// Load reads and merges global and project-local settings, then applies
// environment overrides. Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	applyEnv(merged)
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings. Non-zero project
// values win.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global
	if project.ProbeTimeoutMS != 0 {
		result.ProbeTimeoutMS = project.ProbeTimeoutMS
	}
	if project.ImageProtocol != "" {
		result.ImageProtocol = project.ImageProtocol
	}
	if project.CacheSize != 0 {
		result.CacheSize = project.CacheSize
	}
	if project.LogLevel != "" {
		result.LogLevel = project.LogLevel
	}
	if project.LogFile != "" {
		result.LogFile = project.LogFile
	}
	if project.NoGraphics {
		result.NoGraphics = true
	}
	return &result
}

// applyEnv lets NBTERM_* environment variables override file settings.
func applyEnv(s *Settings) {
	if v := os.Getenv("NBTERM_PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			s.ProbeTimeoutMS = ms
		}
	}
	if v := os.Getenv("NBTERM_IMAGE_PROTOCOL"); v != "" {
		s.ImageProtocol = v
	}
	if v := os.Getenv("NBTERM_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("NBTERM_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	if os.Getenv("NBTERM_NO_GRAPHICS") != "" {
		s.NoGraphics = true
	}
}

func (s *Settings) validate() error {
	switch s.ImageProtocol {
	case "", "kitty", "iterm2", "halfblock":
	default:
		return fmt.Errorf("unknown image_protocol %q", s.ImageProtocol)
	}
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	if s.ProbeTimeoutMS < 0 {
		return fmt.Errorf("probe_timeout_ms must be >= 0, got %d", s.ProbeTimeoutMS)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0, got %d", s.CacheSize)
	}
	return nil
}
