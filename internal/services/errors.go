package services

import "fmt"

// StoreError reports a persistence failure: connectivity, timeout or a
// constraint violation. No partial write accompanies it.
type StoreError struct {
	Op  string // "create" or "list"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
