package common_errors

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	ErrDecode                  = xerrors.New("malformed stored record")
	ErrStaleBatch              = xerrors.New("batch txid is older than the stored txid")
	ErrInconsistentReplay      = xerrors.New("replayed value matches neither stored generation")
	ErrStoreUnavailable        = xerrors.New("value store unavailable")
	ErrWriteRejected           = xerrors.New("value store rejected the write")
	ErrBatchSizeMismatch       = xerrors.New("number of keys and values differ")
	ErrUnrecognizedSerdeFormat = xerrors.New("Unrecognized serde format")
	ErrUnknownStateType        = xerrors.New("unknown state type")
	ErrUnknownBackend          = xerrors.New("unknown state backend")
)

func IsStaleBatchError(err error) bool {
	return errors.Is(err, ErrStaleBatch)
}

func IsInconsistentReplayError(err error) bool {
	return errors.Is(err, ErrInconsistentReplay)
}

// IsRetriable reports whether retrying the whole batch may succeed.
// Only store-origin failures qualify; protocol violations never do.
func IsRetriable(err error) bool {
	if IsStaleBatchError(err) || IsInconsistentReplayError(err) || errors.Is(err, ErrDecode) {
		return false
	}
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrWriteRejected)
}
