package brackets

import (
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

// SlotClear records a slot emptied while retracting a result.
type SlotClear struct {
	Match *models.Match
	Slot  int
}

// Retraction lists everything a retracted result touched so the caller
// can persist the rollback.
type Retraction struct {
	Match *models.Match
	// ClearedSlots are downstream slots the retracted participants were
	// withdrawn from.
	ClearedSlots []SlotClear
	// Reopened lists matches put back to pending: cascaded byes that held
	// a withdrawn participant, and a disarmed or auto-resolved reset row.
	Reopened []*models.Match
}

// RetractResult undoes a completed match result: scores and winner are
// cleared, the match returns to pending, and the advanced winner and
// dropped loser are withdrawn from their downstream slots. Retraction is
// refused when any downstream consumer has already played
// (ErrResultLocked); cascaded byes are unwound recursively since they
// were never played. Byes themselves carry no retractable result.
//
// Retracting does not release the phase's regeneration lock.
func RetractResult(g *Graph, format models.Format, m *models.Match) (*Retraction, error) {
	if m.Status != models.MatchCompleted {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotCompleted, m.ID)
	}
	if m.IsBye {
		return nil, fmt.Errorf("%w: match %d is a bye", ErrResultLocked, m.ID)
	}

	ret := &Retraction{Match: m}

	// Round robin and swiss results never propagate; later swiss rounds
	// may already pair the same participants by hand, so nothing
	// downstream is touched.
	if m.IsDraw || format == models.FormatRoundRobin || format == models.FormatSwiss {
		reopenMatch(m)
		ret.Reopened = append(ret.Reopened, m)
		return ret, nil
	}

	winnerID, loserID := *m.WinnerID, *m.LoserID

	if m.Segment == models.SegmentGrandFinal {
		if err := retractGrandFinal(g, m, ret); err != nil {
			return nil, err
		}
		reopenMatch(m)
		ret.Reopened = append(ret.Reopened, m)
		return ret, nil
	}

	if err := withdraw(g, m, winnerID, ret); err != nil {
		return nil, err
	}
	if m.Segment == models.SegmentWinners {
		if err := withdraw(g, m, loserID, ret); err != nil {
			return nil, err
		}
	}

	reopenMatch(m)
	ret.Reopened = append(ret.Reopened, m)
	return ret, nil
}

// withdraw removes a participant this match had propagated from whatever
// downstream match now holds them. A downstream bye that the participant
// had cascaded through is unwound recursively.
func withdraw(g *Graph, from *models.Match, participantID int, ret *Retraction) error {
	target, slot := findDownstreamSlot(g, from, participantID)
	if target == nil {
		return nil
	}

	switch target.Status {
	case models.MatchCompleted:
		if !target.IsBye {
			return fmt.Errorf("%w: %s round %d match %d already completed",
				ErrResultLocked, target.Segment, target.Round, target.Sequence)
		}
		// The participant advanced through this bye without playing;
		// unwind the cascade first.
		if err := withdraw(g, target, participantID, ret); err != nil {
			return err
		}
		target.WinnerID = nil
		target.IsBye = false
		target.Status = models.MatchPending
		ret.Reopened = append(ret.Reopened, target)
	case models.MatchInProgress:
		return fmt.Errorf("%w: %s round %d match %d is in progress",
			ErrResultLocked, target.Segment, target.Round, target.Sequence)
	}

	target.ClearSlot(slot)
	ret.ClearedSlots = append(ret.ClearedSlots, SlotClear{Match: target, Slot: slot})
	return nil
}

// findDownstreamSlot locates the match and slot currently holding a
// participant propagated out of `from`. Downstream candidates are the
// next round of the same segment, the losers-bracket drop round, and the
// grand final.
func findDownstreamSlot(g *Graph, from *models.Match, participantID int) (*models.Match, int) {
	var candidates []*models.Match

	switch from.Segment {
	case models.SegmentNone, models.SegmentWinners:
		candidates = append(candidates, g.Round(from.Segment, from.Round+1)...)
		if from.Segment == models.SegmentWinners {
			dropRound := 1
			if from.Round > 1 {
				dropRound = 2 * (from.Round - 1)
			}
			candidates = append(candidates, g.Round(models.SegmentLosers, dropRound)...)
			if gf := g.GrandFinal(); gf != nil {
				candidates = append(candidates, gf)
			}
		}
	case models.SegmentLosers:
		candidates = append(candidates, g.Round(models.SegmentLosers, from.Round+1)...)
		if gf := g.GrandFinal(); gf != nil {
			candidates = append(candidates, gf)
		}
	}

	for _, c := range candidates {
		if c == from {
			continue
		}
		if c.Slot1ParticipantID != nil && *c.Slot1ParticipantID == participantID && c.Slot1State == models.SlotFilled {
			return c, 1
		}
		if c.Slot2ParticipantID != nil && *c.Slot2ParticipantID == participantID && c.Slot2State == models.SlotFilled {
			return c, 2
		}
	}
	return nil, 0
}

// retractGrandFinal unwinds the reset row: disarmed if this result had
// armed it, reopened to inert if this result had auto-resolved it. A
// played reset match blocks retraction of the first grand final.
func retractGrandFinal(g *Graph, m *models.Match, ret *Retraction) error {
	if m.IsResetMatch {
		return nil
	}
	reset := g.ResetMatch()
	if reset == nil {
		return nil
	}
	if reset.Status == models.MatchCompleted && reset.WinnerID != nil {
		return fmt.Errorf("%w: reset match already completed", ErrResultLocked)
	}

	reset.Slot1ParticipantID = nil
	reset.Slot2ParticipantID = nil
	reset.Slot1State = models.SlotClosed
	reset.Slot2State = models.SlotClosed
	reset.ScoreSlot1 = nil
	reset.ScoreSlot2 = nil
	reset.Status = models.MatchPending
	ret.Reopened = append(ret.Reopened, reset)
	return nil
}

func reopenMatch(m *models.Match) {
	m.ScoreSlot1 = nil
	m.ScoreSlot2 = nil
	m.WinnerID = nil
	m.LoserID = nil
	m.IsDraw = false
	m.Status = models.MatchPending
}
