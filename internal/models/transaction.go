package models

import (
	"errors"
	"strings"
)

// Transaction types.
const (
	TypeContribution = "contribution"
	TypeExpense      = "expense"
)

// StatusCancelled is the only non-NULL status value. An active transaction
// keeps a NULL status column, matching the balance aggregation queries which
// treat "status IS NULL" as active.
const StatusCancelled = "cancelled"

var ErrInvalidDescription = errors.New("description must be 3-500 characters")

// Transaction is one financial event in the log. The core fields are
// immutable once written; only Status toggles (and Description/Amount may be
// rewritten while the transaction is cancelled).
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Type is TypeContribution or TypeExpense.
	Type string `json:"type"`

	Amount      Money  `json:"amount"`
	Description string `json:"description"`

	// ParticipantID and AccountID reference the contributor and their
	// personal account for contributions. Expenses reference the group
	// account instead and carry no participant.
	ParticipantID string `json:"participant_id,omitempty"`
	AccountID     string `json:"account_id,omitempty"`

	// CreatedBy identifies who recorded the transaction.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64 `json:"created_at"`

	// Status is empty while the transaction is active, StatusCancelled after
	// a cancel. Cancelled transactions do not count toward any balance.
	Status string `json:"status,omitempty"`

	// Denormalized read-side fields for the feeds.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ChildName string `json:"child_name,omitempty"`

	// ShareAmount is this participant's share of an expense in the
	// per-participant feed. Zero for contributions.
	ShareAmount Money `json:"share_amount,omitzero"`

	Files []TransactionFile `json:"files"`
}

// Active reports whether the transaction currently affects balances.
func (t *Transaction) Active() bool {
	return t.Status != StatusCancelled
}

// ValidateDescription enforces the 3-500 character rule shared by
// contributions, expenses and edits.
func ValidateDescription(s string) error {
	n := len(strings.TrimSpace(s))
	if n < 3 || n > 500 {
		return ErrInvalidDescription
	}
	return nil
}

// ExpenseDistribution is one participant's share of an expense transaction.
// Rows are created when the expense is applied and replaced wholesale on
// reapply, because eligibility may have changed in between.
type ExpenseDistribution struct {
	TransactionID string `json:"transaction_id"`
	ParticipantID string `json:"participant_id"`

	// AccountID is the personal account the share was debited from.
	AccountID string `json:"account_id"`

	Amount Money `json:"amount"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ChildName string `json:"child_name,omitempty"`
}

// TransactionFile is attachment metadata. The bytes live on disk; the row is
// removed together with its transaction.
type TransactionFile struct {
	// ID is the unique identifier for the file (UUID format).
	ID string `json:"id"`

	TransactionID string `json:"transaction_id"`
	FileName      string `json:"file_name"`
	FilePath      string `json:"-"`
	MimeType      string `json:"mime_type"`
	Size          int64  `json:"size"`
	CreatedAt     int64  `json:"created_at"`
}

// Statistics is the aggregate view of the fund, computed over active
// transactions only.
type Statistics struct {
	GroupBalance       Money `json:"group_balance"`
	TotalParticipants  int   `json:"total_participants"`
	TotalContributions int   `json:"total_contributions"`
	TotalExpenses      int   `json:"total_expenses"`
	TotalContributed   Money `json:"total_contributed"`
	TotalSpent         Money `json:"total_spent"`
}
