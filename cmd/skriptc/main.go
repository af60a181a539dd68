// Command skriptc parses script files: check them for diagnostics, load
// them against the event bus, or load and watch them and reload on change.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chaossafti/skript-parser/base"
	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/parsing"
)

const (
	exitSuccess    = 0
	exitUsageError = 1
	exitIOError    = 2
	exitParseError = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		debug      bool
		noColor    bool
	)

	engine := parsing.NewEngine()
	if err := base.Register(engine.NewRegistration(base.DefaultAddon)); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering default syntax: %v\n", err)
		return exitUsageError
	}

	root := &cobra.Command{
		Use:           "skriptc",
		Short:         "Parse and load skript source files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "skriptc.toml", "config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "keep debug entries in the log")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("debug") && cfg.Debug {
			debug = true
		}
		if !cmd.Flags().Changed("no-color") && cfg.NoColor {
			noColor = true
		}
		return nil
	}

	exitCode := exitSuccess

	loadOne := func(path string, dry bool) *parsing.ScriptLoadResult {
		opts := []parsing.ParseOption{}
		if debug {
			opts = append(opts, parsing.WithDebug())
		}
		if dry {
			opts = append(opts, parsing.WithDry())
		}
		return engine.Loader.GetOrLoadScript(path, opts...)
	}

	check := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files and print diagnostics without registering triggers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			for _, path := range args {
				result := loadOne(path, true)
				printLog(os.Stdout, result.Log(), useColor)
				if !result.Successful() {
					exitCode = exitIOError
				} else if len(result.Errors()) > 0 {
					exitCode = exitParseError
				}
			}
			return nil
		},
	}

	load := &cobra.Command{
		Use:   "load <file>...",
		Short: "Load files and fire the script-load event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			for _, path := range args {
				result := loadOne(path, false)
				printLog(os.Stdout, result.Log(), useColor)
				if !result.Successful() {
					exitCode = exitIOError
					continue
				}
				if len(result.Errors()) > 0 {
					exitCode = exitParseError
				}
				engine.Events.CallEvent(base.ScriptLoadEventName,
					lang.ScriptLoadContext{Script: result.Script().Name()})
			}
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Load files, then reload them whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			watcher, err := engine.Loader.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			watcher.OnReload = func(result *parsing.ScriptLoadResult) {
				printLog(os.Stdout, result.Log(), useColor)
			}

			for _, path := range args {
				result := loadOne(path, false)
				printLog(os.Stdout, result.Log(), useColor)
				if result.Successful() {
					if err := watcher.Watch(path); err != nil {
						return err
					}
				}
			}
			for _, dir := range cfg.ScriptDirs {
				if err := watcher.Watch(dir); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	root.AddCommand(check, load, watch)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsageError
	}
	return exitCode
}
