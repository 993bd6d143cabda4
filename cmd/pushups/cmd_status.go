package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database path, schema version and number of logged sets",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			schema, err := a.store.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			events, err := a.store.Count(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.opts.jsonOut {
				return printJSON(out, map[string]any{
					"db": a.dbPath, "schema_version": schema, "events": events,
				})
			}
			fmt.Fprintf(out, "db:      %s\n", a.dbPath)
			fmt.Fprintf(out, "schema:  v%d\n", schema)
			fmt.Fprintf(out, "events:  %d\n", events)
			return nil
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pushups", version)
			return nil
		},
	}
}
