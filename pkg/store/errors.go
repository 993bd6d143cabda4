package store

import "fmt"

// StorageError wraps any I/O failure opening, writing or reading the log.
// It is fatal for the invocation and is never retried.
type StorageError struct {
	Op  string // "open", "init", "record", "sum", ...
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
