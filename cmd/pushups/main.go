// Command pushups logs sets of pushups and reports how many were done
// today, this week and this month.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/daviddao/pushups/pkg/clock"
)

const version = "1.0.0"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, clock.System{}))
}

// run executes one invocation and returns its exit code. Errors are
// printed to stderr with a "pushups:" prefix.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, clk clock.Clock) int {
	c := &cli{clock: clk, stdout: stdout, stderr: stderr}
	defer c.close()

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "pushups: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}
