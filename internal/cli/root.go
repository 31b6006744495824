// Package cli wires the sheet, storage, HTTP API and terminal UI into the
// calcsheet command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"calcsheet/internal/sheet"
	"calcsheet/internal/storage"
)

const (
	envFile = "CALCSHEET_FILE"
	envAddr = "CALCSHEET_ADDR"
)

type globalFlags struct {
	debug     bool
	logFormat string
}

// NewRootCommand builds the command tree. Output and logs go to the
// command's writers so tests can capture them.
func NewRootCommand() *cobra.Command {
	var (
		flags  globalFlags
		splash bool
	)

	rootCmd := &cobra.Command{
		Use:           "calcsheet [file]",
		Short:         "Terminal spreadsheet with an arithmetic formula engine",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := os.Getenv(envFile)
			if len(args) == 1 {
				file = args[0]
			}
			// the screen owns the terminal, so the TUI logs nowhere
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			return runTUI(file, splash, logger)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.Flags().BoolVar(&splash, "splash", false, "Show the title screen on start")

	rootCmd.AddCommand(
		newEvalCommand(&flags),
		newRecalcCommand(&flags),
		newServeCommand(&flags),
		newReplCommand(&flags),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (f *globalFlags) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
	switch f.logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", f.logFormat)
}

// loadSheet builds a sheet and fills it from file when one is given. Cells
// with bad labels are logged and skipped.
func loadSheet(file string, logger *slog.Logger) (*sheet.Sheet, error) {
	s := sheet.New(sheet.WithLogger(logger))
	if file == "" {
		return s, nil
	}
	cells, err := storage.Load(file)
	if err != nil {
		return nil, err
	}
	if err := s.Load(cells); err != nil {
		logger.Warn("skipped cells", "file", file, "error", err)
	}
	logger.Debug("sheet loaded", "file", file, "cells", len(cells))
	return s, nil
}
