package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyFirstName = errors.New("first name must be 2-100 characters")
	ErrEmptyLastName  = errors.New("last name must be 2-100 characters")
	ErrEmptyChildName = errors.New("child name must be 2-100 characters")
)

// Participant is a parent contributing to the group fund.
// Each participant owns exactly one personal account, created together with
// the participant and removed with them.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`

	// ChildName identifies the child the participant pays for. Together with
	// the phone number it doubles as the parent login credential.
	ChildName string `json:"child_name"`

	// IsExcluded marks the participant ineligible for future expense
	// distribution. Already-applied expenses are unaffected until reapplied.
	IsExcluded bool `json:"is_excluded"`

	// Balance is the personal account balance, joined in on reads.
	Balance Money `json:"balance"`

	// CreatedAt is the Unix timestamp when the participant was created.
	CreatedAt int64 `json:"created_at"`
}

func validName(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 2 && n <= 100
}

// Validate checks the identity fields.
func (p *Participant) Validate() error {
	if !validName(p.FirstName) {
		return ErrEmptyFirstName
	}
	if !validName(p.LastName) {
		return ErrEmptyLastName
	}
	if !validName(p.ChildName) {
		return ErrEmptyChildName
	}
	return nil
}
