// ABOUTME: CLI entry point for nbterm with terminal crash recovery
// ABOUTME: Parses flags, loads config, probes capabilities, dispatches to report or viewer

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	// termfix must be imported before any package that imports bubbletea.
	// It sets lipgloss.SetHasDarkBackground(true) in its init(), preventing
	// BubbleTea's tea_init.go from sending OSC 10/11 terminal queries whose
	// async responses would corrupt the probe engine's reads.
	_ "github.com/mauromedda/nbterm-go/internal/termfix"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/nbterm-go/internal/config"
	nblog "github.com/mauromedda/nbterm-go/internal/log"
	"github.com/mauromedda/nbterm-go/pkg/tui/probe"
	"github.com/mauromedda/nbterm-go/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Intercept the view subcommand before flag parsing so flags may
	// appear after it: nbterm view --timeout 200 notes.md
	viewMode := false
	if len(os.Args) > 1 && os.Args[1] == "view" {
		viewMode = true
		os.Args = append(os.Args[:1], os.Args[2:]...)
	}

	args := parseFlags()
	if args.version {
		fmt.Printf("nbterm %s (%s, %s)\n", version, commit, date)
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg, viewMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	term, err := terminal.NewProcessTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: not a terminal: %v\n", err)
		os.Exit(1)
	}
	defer term.Close()
	defer terminal.RestoreOnPanic(term)

	engine := probe.NewEngine(term)
	engine.Timeout = cfg.ProbeTimeout()
	if engine.Timeout == 0 {
		// Interactive use should never hang on a mute terminal.
		engine.Timeout = time.Second
	}
	caps := probe.NewCapabilities(term, engine)

	// Align lipgloss with the probed background before any styled output.
	if bg := caps.BackgroundColor(); bg != "" {
		lipgloss.SetHasDarkBackground(isDarkHex(bg))
	}

	if viewMode {
		files := args.remaining()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "usage: nbterm view FILE...")
			os.Exit(2)
		}
		if err := runViewer(term, caps, cfg, files); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(capabilityReport(caps))
}

// loadConfig merges the config file with command line overrides.
func loadConfig(args cliArgs) (*config.Settings, error) {
	cwd, _ := os.Getwd()
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if args.timeoutMS != 0 {
		cfg.ProbeTimeoutMS = args.timeoutMS
	}
	if args.protocol != "" {
		cfg.ImageProtocol = args.protocol
	}
	if args.logLevel != "" {
		cfg.LogLevel = args.logLevel
	}
	if args.logFile != "" {
		cfg.LogFile = args.logFile
	}
	return cfg, nil
}

// setupLogging applies the configured level and sink. The viewer always
// logs to a file: stderr shares the tty with the raw-mode screen.
func setupLogging(cfg *config.Settings, viewMode bool) error {
	switch cfg.LogLevel {
	case "debug":
		nblog.SetLevel(slog.LevelDebug)
	case "warn":
		nblog.SetLevel(slog.LevelWarn)
	case "error":
		nblog.SetLevel(slog.LevelError)
	case "", "info":
		nblog.SetLevel(slog.LevelInfo)
	}

	path := cfg.LogFile
	if path == "" && viewMode {
		path = config.DefaultLogFile()
		if err := os.MkdirAll(config.GlobalDir(), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	if path != "" {
		if _, err := nblog.SetFile(path); err != nil {
			return err
		}
	}
	return nil
}
