package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/daviddao/pushups/pkg/model"
)

func (c *cli) summaryCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show today's, this week's and this month's totals as of one instant",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := c.now(at)
			if err != nil {
				return err
			}

			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			totals, err := a.tally.SummaryAt(cmd.Context(), now)
			if err != nil {
				return err
			}

			if c.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), struct {
					AsOf   time.Time     `json:"as_of"`
					Totals []model.Total `json:"totals"`
				}{now, totals})
			}
			for _, t := range totals {
				printTotal(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	atFlag(cmd.Flags(), &at)
	return cmd
}
