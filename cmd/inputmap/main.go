// Package main is the entry point for the inputmap demo binary.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dvaldron/inputmap/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, dump := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if dump {
		application.DumpBindings(os.Stdout)
		return 0
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// stringList collects repeatable flag values.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var bindings stringList
	var dump bool
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.Var(&bindings, "bindings", "Bindings document to load (repeatable)")
	flag.StringVar(&opts.ReplayPath, "replay", "", "Play back a capture file instead of the terminal")
	flag.StringVar(&opts.CapturePath, "capture", "", "Record every event to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload bindings documents when they change")
	flag.BoolVar(&dump, "dump", false, "Print the binding table and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inputmap - rebindable input mapping demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inputmap [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inputmap                          Echo loop with built-in bindings\n")
		fmt.Fprintf(os.Stderr, "  inputmap -c settings.toml -watch  Config-driven with live reload\n")
		fmt.Fprintf(os.Stderr, "  inputmap -capture run.jsonl       Record the session\n")
		fmt.Fprintf(os.Stderr, "  inputmap -replay run.jsonl        Play it back\n")
		fmt.Fprintf(os.Stderr, "  inputmap -dump                    Print the binding table\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("inputmap %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	opts.Bindings = bindings
	return opts, dump
}
