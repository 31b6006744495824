package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"calcsheet/internal/tokenize"
)

func newEvalCommand(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate one formula, optionally against a saved sheet",
		Args:  cobra.MinimumNArgs(1),
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

			text := strings.Join(args, " ")
			logger.Debug("tokens", "formula", tokenize.Tokenize(text).String())
			out := s.Evaluate(text)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "result\t%v\n", out.Result)
			fmt.Fprintf(w, "error\t%s\n", out.Message())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sheet to resolve cell references against (.csv or .db)")
	return cmd
}
