// Package main is the entry point for the scenepanel inspector.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scenepanel/internal/app"
	"github.com/dshills/scenepanel/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	scenePath  string
	selectName string
	scriptPath string
	listen     string
	logLevel   string
	headless   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logOut, closeLog, err := logOutput(cfg, opts.headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening log: %v\n", err)
		return 1
	}
	defer closeLog()
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Output: logOut,
		Prefix: "scenepanel",
	})

	var screen tcell.Screen
	if !opts.headless {
		screen, err = tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
	}

	application, err := app.New(app.Options{Config: cfg, Screen: screen, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.selectName != "" {
		if err := application.SelectName(opts.selectName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.scriptPath != "" {
		if err := application.RunScript(ctx, opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	// A headless run without a remote front end has nothing to wait for.
	if opts.headless && cfg.Remote.Listen == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(application.Hub().State()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.scenePath, "scene", "", "Scene document to inspect (YAML)")
	flag.StringVar(&opts.selectName, "select", "", "Name of the node to select at startup")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua script to run at startup")
	flag.StringVar(&opts.listen, "listen", "", "Address for the remote inspector (e.g. 127.0.0.1:7700)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.headless, "headless", false, "Run without the terminal front end")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scenepanel - property inspector for scene documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scenepanel [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scenepanel -scene level.yaml                     Inspect a scene\n")
		fmt.Fprintf(os.Stderr, "  scenepanel -scene level.yaml -listen :7700       Also serve remote clients\n")
		fmt.Fprintf(os.Stderr, "  scenepanel -scene level.yaml -headless -script fix.lua\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("scenepanel %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return opts
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.scenePath != "" {
		cfg.Scene.Path = opts.scenePath
	}
	if opts.listen != "" {
		cfg.Remote.Listen = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
}

// logOutput picks where logs go. The terminal front end owns the screen,
// so it logs to the configured file or nowhere.
func logOutput(cfg config.Config, headless bool) (io.Writer, func(), error) {
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	if headless {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}
