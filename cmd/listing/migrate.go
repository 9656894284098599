package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type migrationStatusOutput struct {
	CurrentVersion string   `json:"current_version"`
	Applied        []string `json:"applied"`
	Pending        []string `json:"pending"`
}

func (c *cli) migrateCommand() *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := c.openDatabase()
			if err != nil {
				return err
			}
			defer c.closeStorage(storage)

			if !statusOnly {
				applied, err := storage.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "applied %d migration(s)\n", applied)
				return nil
			}

			status, err := storage.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := migrationStatusOutput{
				CurrentVersion: status.CurrentVersion,
				Applied:        make([]string, 0, len(status.Applied)),
				Pending:        make([]string, 0, len(status.Pending)),
			}
			for _, m := range status.Applied {
				out.Applied = append(out.Applied, m.Version)
			}
			for _, m := range status.Pending {
				out.Pending = append(out.Pending, m.Version+" "+m.Description)
			}
			return writeJSON(c.stdout, out)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "report applied and pending migrations without applying them")
	return cmd
}
