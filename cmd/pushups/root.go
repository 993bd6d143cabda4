package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootOptions holds global flags for all commands. Empty strings mean
// "not given", so config and environment values stand.
type rootOptions struct {
	dbPath   string
	jsonOut  bool
	logLevel string
}

// rootCommand builds the command tree for one invocation.
func (c *cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pushups",
		Short: "Log pushups and see today's, this week's and this month's totals",
		Long: `pushups keeps an append-only log of sets in a local SQLite file and sums
them over calendar windows in the local time zone. Weeks start on Monday.

Environment:
  PUSHUPS_DB         SQLite database path (default: ./pushups.db)
  PUSHUPS_LOG_LEVEL  debug, info, warn or error (default: warn)
  PUSHUPS_CONFIG     optional YAML file with db and log_level keys

Exit codes:
  0  success
  1  storage or runtime error
  2  usage error`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&c.opts.dbPath, "db", "", "SQLite database path (overrides PUSHUPS_DB)")
	pf.BoolVar(&c.opts.jsonOut, "json", false, "JSON output")
	pf.StringVar(&c.opts.logLevel, "log-level", "", "diagnostic log level (overrides PUSHUPS_LOG_LEVEL)")

	cmd.AddCommand(c.addCommand())
	for _, k := range totalKinds {
		cmd.AddCommand(c.totalCommand(k))
	}
	cmd.AddCommand(c.kindCommand())
	cmd.AddCommand(c.summaryCommand())
	cmd.AddCommand(c.statusCommand())
	cmd.AddCommand(c.versionCommand())

	return cmd
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageErrorf("%s: %v", cmd.Name(), err)
		}
		return nil
	}
}

// atFlag registers --at on fs.
func atFlag(fs *pflag.FlagSet, dst *string) {
	fs.StringVar(dst, "at", "", "answer as of this instant (RFC3339, or local 2006-01-02T15:04:05 / 2006-01-02)")
}
