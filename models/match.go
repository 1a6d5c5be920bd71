package models

import "time"

type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
)

// BracketSegment names the sub-graph a match belongs to. Single
// elimination, round robin, swiss and gauntlet use SegmentNone; double
// elimination splits into winners, losers and the grand final.
type BracketSegment string

const (
	SegmentNone       BracketSegment = "none"
	SegmentWinners    BracketSegment = "winners"
	SegmentLosers     BracketSegment = "losers"
	SegmentGrandFinal BracketSegment = "grand_final"
)

// SlotState tracks how a match slot may still change. An open slot waits
// for a participant from an upstream match; filled holds a concrete
// participant; closed can never be occupied (its feeder does not exist or
// was a bye), which is what lets byes cascade through the graph.
type SlotState string

const (
	SlotOpen   SlotState = "open"
	SlotFilled SlotState = "filled"
	SlotClosed SlotState = "closed"
)

// Match is one node of the bracket graph. Edges are not stored: the
// winner/loser targets are recomputed from (Segment, Round, Sequence), so
// regeneration never has to rewrite pointers.
type Match struct {
	ID       int            `json:"id" db:"id"`
	PhaseID  int            `json:"phase_id" db:"phase_id"`
	Round    int            `json:"round" db:"round"`
	Sequence int            `json:"sequence" db:"sequence"`
	Segment  BracketSegment `json:"segment" db:"segment"`

	Slot1ParticipantID *int      `json:"slot1_participant_id,omitempty" db:"slot1_participant_id"`
	Slot2ParticipantID *int      `json:"slot2_participant_id,omitempty" db:"slot2_participant_id"`
	Slot1State         SlotState `json:"slot1_state" db:"slot1_state"`
	Slot2State         SlotState `json:"slot2_state" db:"slot2_state"`

	Status       MatchStatus `json:"status" db:"status"`
	ScoreSlot1   *int        `json:"score_slot1,omitempty" db:"score_slot1"`
	ScoreSlot2   *int        `json:"score_slot2,omitempty" db:"score_slot2"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_participant_id"`
	LoserID      *int        `json:"loser_id,omitempty" db:"loser_participant_id"`
	IsDraw       bool        `json:"is_draw" db:"is_draw"`
	IsBye        bool        `json:"is_bye" db:"is_bye"`
	IsResetMatch bool        `json:"is_reset_match" db:"is_reset_match"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Slot returns the participant and state of slot 1 or 2.
func (m *Match) Slot(slot int) (*int, SlotState) {
	if slot == 1 {
		return m.Slot1ParticipantID, m.Slot1State
	}
	return m.Slot2ParticipantID, m.Slot2State
}

// SetSlot writes a concrete participant into slot 1 or 2 and marks it
// filled. It does not guard against overwrites; that is the progression
// engine's job.
func (m *Match) SetSlot(slot int, participantID int) {
	pid := participantID
	if slot == 1 {
		m.Slot1ParticipantID = &pid
		m.Slot1State = SlotFilled
	} else {
		m.Slot2ParticipantID = &pid
		m.Slot2State = SlotFilled
	}
}

// ClearSlot empties slot 1 or 2 back to the open state.
func (m *Match) ClearSlot(slot int) {
	if slot == 1 {
		m.Slot1ParticipantID = nil
		m.Slot1State = SlotOpen
	} else {
		m.Slot2ParticipantID = nil
		m.Slot2State = SlotOpen
	}
}

// HasParticipant reports whether the given participant occupies either slot.
func (m *Match) HasParticipant(participantID int) bool {
	if m.Slot1ParticipantID != nil && *m.Slot1ParticipantID == participantID {
		return true
	}
	return m.Slot2ParticipantID != nil && *m.Slot2ParticipantID == participantID
}
