// Package calculator splits expense amounts across eligible participants.
// It is pure and stateless: the same inputs always produce the same shares.
package calculator

import "errors"

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNoTargets         = errors.New("must have at least one target")
)

// Target identifies one eligible participant and the personal account the
// share will be debited from. Callers pass targets in stable sort order
// (last name, first name); the remainder policy depends on it.
type Target struct {
	ParticipantID string
	AccountID     string
}

// Share is one participant's computed portion of an expense.
type Share struct {
	ParticipantID string
	AccountID     string
	Amount        int64 // minor units
}

// Distribute splits amount (in minor units) equally across the targets.
// Integer division leaves a remainder of at most len(targets)-1 units; it is
// assigned to the first target so that the shares always sum back to amount
// exactly.
func Distribute(amount int64, targets []Target) ([]Share, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	n := int64(len(targets))
	base := amount / n
	remainder := amount % n

	shares := make([]Share, len(targets))
	for i, t := range targets {
		shares[i] = Share{
			ParticipantID: t.ParticipantID,
			AccountID:     t.AccountID,
			Amount:        base,
		}
	}
	shares[0].Amount += remainder

	return shares, nil
}
