package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/daviddao/pushups/pkg/clock"
	"github.com/daviddao/pushups/pkg/model"
)

// totalDef pairs a window kind with its subcommand name.
type totalDef struct {
	name string
	kind model.Kind
}

var totalKinds = []totalDef{
	{"today", model.Day},
	{"week", model.Week},
	{"month", model.Month},
}

func (c *cli) totalCommand(k totalDef) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   k.name,
		Short: "Show reps done " + k.kind.Phrase(),
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showTotal(cmd, k.kind, at)
		},
	}

	atFlag(cmd.Flags(), &at)
	return cmd
}

// kindCommand is the generic form: total day|week|month.
func (c *cli) kindCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "total <day|week|month>",
		Short: "Show reps done in the named window",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: "total", Err: err}
			}
			return c.showTotal(cmd, kind, at)
		},
	}

	atFlag(cmd.Flags(), &at)
	return cmd
}

func (c *cli) showTotal(cmd *cobra.Command, kind model.Kind, at string) error {
	now, err := c.now(at)
	if err != nil {
		return err
	}

	a, err := c.open(cmd.Context())
	if err != nil {
		return err
	}
	total, err := a.tally.AggregateAt(cmd.Context(), kind, now)
	if err != nil {
		return err
	}

	if c.opts.jsonOut {
		return printJSON(cmd.OutOrStdout(), total)
	}
	printTotal(cmd.OutOrStdout(), total)
	return nil
}

// atLayouts are tried in order. Layouts without an offset are read in the
// clock's zone.
var atLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// now returns the clock reading, or the --at value moved into the clock's
// zone when one was given.
func (c *cli) now(at string) (time.Time, error) {
	if at == "" {
		return c.clock.Now(), nil
	}
	loc := clock.Location(c.clock)
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, at, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, usageErrorf("invalid --at %q: want RFC3339 such as 2024-03-11T23:00:00-04:00", at)
}
