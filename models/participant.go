package models

import "time"

type ParticipantStatus string

const (
	ParticipantPending      ParticipantStatus = "pending"
	ParticipantConfirmed    ParticipantStatus = "confirmed"
	ParticipantCheckedIn    ParticipantStatus = "checked_in"
	ParticipantDisqualified ParticipantStatus = "disqualified"
	ParticipantRemoved      ParticipantStatus = "removed"
)

// Eligible reports whether the participant may occupy a bracket slot.
func (s ParticipantStatus) Eligible() bool {
	return s == ParticipantConfirmed || s == ParticipantCheckedIn
}

type Participant struct {
	ID           int               `json:"id" db:"id"`
	TournamentID int               `json:"tournament_id" db:"tournament_id"`
	UserID       *int              `json:"user_id,omitempty" db:"user_id"`
	DisplayName  string            `json:"display_name" db:"display_name"`
	SeedOrder    *int              `json:"seed_order,omitempty" db:"seed_order"`
	Status       ParticipantStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
