package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) addCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "add <reps>",
		Short: "Record a set of pushups stamped with the current local time",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reps, err := parseReps(args[0])
			if err != nil {
				return err
			}

			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := a.tally.Record(cmd.Context(), reps, notes)
			if err != nil {
				return err
			}

			if c.opts.jsonOut {
				// Echo the row as stored, offset included.
				stored, err := a.store.Get(cmd.Context(), ev.ID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stored)
			}
			printAdded(cmd.OutOrStdout(), ev)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "free-form note stored with the set")
	return cmd
}

// parseReps accepts a base-10 count that fits in 32 bits. Zero is allowed.
func parseReps(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0, usageErrorf("invalid reps %q: must not be negative", s)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, usageErrorf("invalid reps %q: want a whole number up to 4294967295", s)
	}
	return uint32(n), nil
}
