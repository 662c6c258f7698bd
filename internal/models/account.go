package models

// GroupAccountID is the fixed identifier of the singleton group account.
// The group account lives in the same accounts table as personal accounts and
// is addressed through the same store operations; only its ID is special.
const GroupAccountID = "group"

// Account holds a single balance: either one participant's personal account
// (ParticipantID set) or the shared group account.
type Account struct {
	// ID is the unique identifier for the account (UUID format, or
	// GroupAccountID for the group account).
	ID string `json:"id"`

	// ParticipantID links a personal account to its owner. Empty for the
	// group account.
	ParticipantID string `json:"participant_id,omitempty"`

	Balance Money `json:"balance"`
}
