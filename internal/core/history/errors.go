package history

import "fmt"

// StorageError represents a failure reading or writing the history document
type StorageError struct {
	Op   string // "read", "parse", "write", "rename"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
