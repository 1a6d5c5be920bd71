package brackets

import (
	"sort"

	"github.com/bracketforge/tournament-system/models"
)

// CanRegenerate reports whether the phase's bracket may be rebuilt.
// The lock latches on the first reported result and never releases:
// partial regeneration cannot reconcile reported results with a new
// topology, so once anything has been played the bracket is immutable
// (resetting that match back to pending does not unlock it).
func CanRegenerate(phase *models.Phase) bool {
	return !phase.BracketLocked
}

// RosterDrift is the advisory report comparing the current roster against
// the generated bracket. It is surfaced for an operator decision and
// never auto-applied.
type RosterDrift struct {
	// MissingFromBracket lists eligible (confirmed or checked-in)
	// participants who occupy no slot.
	MissingFromBracket []int `json:"missing_from_bracket"`
	// IneligibleInBracket lists slot occupants who are no longer
	// eligible (disqualified, removed, or never confirmed).
	IneligibleInBracket []int `json:"ineligible_in_bracket"`
}

func (d RosterDrift) Empty() bool {
	return len(d.MissingFromBracket) == 0 && len(d.IneligibleInBracket) == 0
}

// ComputeRosterDrift diffs the roster against the slot assignments of the
// existing match set.
func ComputeRosterDrift(participants []*models.Participant, matches []*models.Match) RosterDrift {
	inBracket := make(map[int]bool)
	for _, m := range matches {
		if m.Slot1ParticipantID != nil {
			inBracket[*m.Slot1ParticipantID] = true
		}
		if m.Slot2ParticipantID != nil {
			inBracket[*m.Slot2ParticipantID] = true
		}
	}

	eligible := make(map[int]bool, len(participants))
	var drift RosterDrift
	for _, p := range participants {
		if p.Status.Eligible() {
			eligible[p.ID] = true
			if !inBracket[p.ID] {
				drift.MissingFromBracket = append(drift.MissingFromBracket, p.ID)
			}
		}
	}
	for id := range inBracket {
		if !eligible[id] {
			drift.IneligibleInBracket = append(drift.IneligibleInBracket, id)
		}
	}
	sort.Ints(drift.MissingFromBracket)
	sort.Ints(drift.IneligibleInBracket)
	return drift
}
