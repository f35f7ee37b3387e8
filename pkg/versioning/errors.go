package versioning

import (
	"fmt"

	"versioned-state/pkg/common_errors"
)

// StaleBatchError is returned when a batch carries a txid older than the one
// already committed for the key. It points at batch reordering in the engine
// and is never resolved here.
type StaleBatchError struct {
	StoredTxID uint64
	TxID       uint64
}

func (e *StaleBatchError) Error() string {
	return fmt.Sprintf("stale batch: txid %d is older than stored txid %d", e.TxID, e.StoredTxID)
}

func (e *StaleBatchError) Is(target error) bool {
	return target == common_errors.ErrStaleBatch
}

// InconsistentReplayError is returned in opaque mode when a replay of the
// committed txid carries a value derived from neither stored generation.
type InconsistentReplayError struct {
	TxID uint64
}

func (e *InconsistentReplayError) Error() string {
	return fmt.Sprintf("inconsistent replay of txid %d: incoming value matches neither the committed nor the prior payload", e.TxID)
}

func (e *InconsistentReplayError) Is(target error) bool {
	return target == common_errors.ErrInconsistentReplay
}
