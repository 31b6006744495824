package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecalcCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc <file>",
		Short: "Load a sheet, recalculate it and print every cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s, err := loadSheet(args[0], logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, c := range s.Cells() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label(), c.Text(), c.Display())
			}
			return nil
		},
	}
}
