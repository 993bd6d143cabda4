package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/daviddao/pushups/pkg/model"
)

// Exit codes.
const (
	ExitSuccess = 0 // Successful execution
	ExitFailure = 1 // Storage, config or other runtime failure
	ExitUsage   = 2 // Bad arguments or flags
)

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageErrorf builds an ExitUsage error.
func usageErrorf(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// exitCode maps an error returned by Execute to a process exit code.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// cobra reports these as plain errors.
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") {
		return ExitUsage
	}
	return ExitFailure
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAdded(w io.Writer, ev model.Event) {
	fmt.Fprintf(w, "Added %s pushups\n", humanize.Comma(int64(ev.Reps)))
}

func printTotal(w io.Writer, t model.Total) {
	fmt.Fprintf(w, "We've done %s pushups %s\n", humanize.Comma(int64(t.Reps)), t.Kind.Phrase())
}
