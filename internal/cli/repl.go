package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"calcsheet/internal/grid"
	"calcsheet/internal/sheet"
)

const historyFile = ".calcsheet_history"

func newReplCommand(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt: set cells and evaluate formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if file == "" {
				file = os.Getenv(envFile)
			}
			s, err := loadSheet(file, logger)
			if err != nil {
				return err
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "A1 = text sets a cell, :cells lists cells, :q quits.")
			for {
				line, err := ln.Prompt("calc> ")
				if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
					fmt.Fprintln(w)
					return nil
				}
				if err != nil {
					return err
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				ln.AppendHistory(line)
				if quit := replLine(w, s, line); quit {
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sheet to preload (.csv or .db)")
	return cmd
}

// replLine handles one input line and reports whether the session should end.
func replLine(w io.Writer, s *sheet.Sheet, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case ":q", ":quit":
		return true
	case ":cells":
		for _, c := range s.Cells() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label(), c.Text(), c.Display())
		}
		return false
	}

	if label, text, ok := assignment(line); ok {
		if err := s.Set(label, text); err != nil {
			fmt.Fprintln(w, err)
			return false
		}
		c, err := s.Get(label)
		if err != nil {
			fmt.Fprintf(w, "%s cleared\n", label)
			return false
		}
		fmt.Fprintf(w, "%s = %s\n", label, c.Display())
		return false
	}

	out := s.Evaluate(line)
	if msg := out.Message(); msg != "" {
		fmt.Fprintf(w, "%v  [%s]\n", out.Result, msg)
		return false
	}
	fmt.Fprintln(w, sheet.FormatValue(out.Result))
	return false
}

// assignment splits "A1 = text" into label and text. A line starting with
// "=" is a formula, not an assignment.
func assignment(line string) (label, text string, ok bool) {
	label, text, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	label = strings.TrimSpace(label)
	if !grid.IsValidCellLabel(label) {
		return "", "", false
	}
	return label, strings.TrimSpace(text), true
}
