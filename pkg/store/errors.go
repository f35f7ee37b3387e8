package store

import (
	"fmt"

	"versioned-state/pkg/common_errors"
)

// StoreError attaches a classification (ErrStoreUnavailable or
// ErrWriteRejected) to the error returned by a backend while keeping the
// backend error reachable through errors.Is / errors.As.
type StoreError struct {
	Store string
	Op    string
	Kind  error
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Store, e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func unavailable(store, op string, err error) error {
	return &StoreError{Store: store, Op: op, Kind: common_errors.ErrStoreUnavailable, Err: err}
}

func rejected(store, op string, err error) error {
	return &StoreError{Store: store, Op: op, Kind: common_errors.ErrWriteRejected, Err: err}
}
