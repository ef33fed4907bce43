package cli

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.setup(cmd)
			if err != nil {
				return errors.Trace(err)
			}
			defer e.close()

			if err := e.migrate(cmd.Context()); err != nil {
				return errors.Trace(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}
