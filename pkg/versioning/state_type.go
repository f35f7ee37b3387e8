package versioning

import (
	"versioned-state/pkg/common_errors"

	"golang.org/x/xerrors"
)

// StateType selects the versioning protocol of a map state. It is fixed
// when the state is built and decides both the record layout and the merge.
type StateType uint8

const (
	NonTransactional StateType = iota
	Transactional
	Opaque
)

func (t StateType) String() string {
	switch t {
	case NonTransactional:
		return "non-transactional"
	case Transactional:
		return "transactional"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Versioned reports whether records of this type carry a txid.
func (t StateType) Versioned() bool {
	return t == Transactional || t == Opaque
}

func ParseStateType(s string) (StateType, error) {
	switch s {
	case "non-transactional", "nontransactional", "non_transactional":
		return NonTransactional, nil
	case "transactional":
		return Transactional, nil
	case "opaque":
		return Opaque, nil
	default:
		return 0, xerrors.Errorf("%q: %w", s, common_errors.ErrUnknownStateType)
	}
}
