// ABOUTME: Tests for YAML settings loading, merge precedence, and env overrides

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, projectDirName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	// Isolate from any real ~/.nbterm/config.yaml.
	t.Setenv("HOME", t.TempDir())
	for _, v := range []string{
		"NBTERM_PROBE_TIMEOUT_MS", "NBTERM_IMAGE_PROTOCOL",
		"NBTERM_LOG_LEVEL", "NBTERM_LOG_FILE", "NBTERM_NO_GRAPHICS",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ProbeTimeoutMS != 0 || s.ImageProtocol != "" || s.NoGraphics {
		t.Errorf("empty config produced non-zero settings: %+v", s)
	}
	if s.ProbeTimeout() != 0 {
		t.Errorf("ProbeTimeout() = %v, want 0", s.ProbeTimeout())
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	writeConfig(t, dir, "probe_timeout_ms: 250\nimage_protocol: kitty\ncache_size: 40\n")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ProbeTimeout() != 250*time.Millisecond {
		t.Errorf("ProbeTimeout() = %v", s.ProbeTimeout())
	}
	if s.ImageProtocol != "kitty" || s.CacheSize != 40 {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	writeConfig(t, dir, "image_protocol: kitty\nprobe_timeout_ms: 100\n")
	t.Setenv("NBTERM_IMAGE_PROTOCOL", "halfblock")
	t.Setenv("NBTERM_PROBE_TIMEOUT_MS", "500")
	t.Setenv("NBTERM_NO_GRAPHICS", "1")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ImageProtocol != "halfblock" {
		t.Errorf("ImageProtocol = %q, env must win", s.ImageProtocol)
	}
	if s.ProbeTimeoutMS != 500 {
		t.Errorf("ProbeTimeoutMS = %d, env must win", s.ProbeTimeoutMS)
	}
	if !s.NoGraphics {
		t.Error("NoGraphics env override ignored")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"bad protocol", "image_protocol: sixel-deluxe\n"},
		{"bad level", "log_level: loud\n"},
		{"negative timeout", "probe_timeout_ms: -5\n"},
		{"not yaml", "{{{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			if _, err := Load(dir); err == nil {
				t.Errorf("Load() accepted %q", tt.content)
			}
		})
	}
}

func TestMerge_ProjectWins(t *testing.T) {
	t.Parallel()

	global := &Settings{ProbeTimeoutMS: 100, LogLevel: "info", CacheSize: 20}
	project := &Settings{ProbeTimeoutMS: 250, LogFile: "/tmp/x.log"}

	got := merge(global, project)
	if got.ProbeTimeoutMS != 250 {
		t.Errorf("ProbeTimeoutMS = %d, project must win", got.ProbeTimeoutMS)
	}
	if got.LogLevel != "info" || got.CacheSize != 20 {
		t.Errorf("unset project fields must keep global values: %+v", got)
	}
	if got.LogFile != "/tmp/x.log" {
		t.Errorf("LogFile = %q", got.LogFile)
	}
}
