package brackets

import (
	"context"
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket pairs consecutive entries of the placement order into
// round 1 and pre-creates the later rounds empty, ceil(matches/2) per
// round. An unpaired trailing entry becomes a bye: slot 2 is closed and
// the match resolves immediately, its winner propagated downstream.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: single elimination needs at least 2, got %d", ErrNotEnoughParticipants, n)
	}

	matches := buildEliminationSegment(models.SegmentNone, params.Participants)

	graph := NewGraph(matches)
	if err := settleGenerated(graph, params.Phase.Format); err != nil {
		return nil, err
	}
	return matches, nil
}

// buildEliminationSegment creates the full single-elimination skeleton for
// one segment: (ceil(n/2), ceil/2, ...) rounds down to a final. Slots
// whose feeder index does not exist are closed so byes can cascade.
func buildEliminationSegment(segment models.BracketSegment, participants []*models.Participant) []*models.Match {
	n := len(participants)
	sizes := eliminationRoundSizes((n + 1) / 2)

	var matches []*models.Match
	for round, size := range sizes {
		r := round + 1
		for seq := 1; seq <= size; seq++ {
			m := newSkeletonMatch(segment, r, seq)
			if r == 1 {
				placeRoundOnePair(m, participants, seq)
			} else {
				prevSize := sizes[round-1]
				if (seq-1)*2+1 > prevSize {
					m.Slot1State = models.SlotClosed
				}
				if (seq-1)*2+2 > prevSize {
					m.Slot2State = models.SlotClosed
				}
			}
			matches = append(matches, m)
		}
	}
	return matches
}

// eliminationRoundSizes returns the per-round match counts for a segment
// whose first round holds the given number of matches.
func eliminationRoundSizes(firstRound int) []int {
	if firstRound < 1 {
		return nil
	}
	sizes := []int{firstRound}
	for last := firstRound; last > 1; {
		last = (last + 1) / 2
		sizes = append(sizes, last)
	}
	return sizes
}

func newSkeletonMatch(segment models.BracketSegment, round, seq int) *models.Match {
	return &models.Match{
		Round:      round,
		Sequence:   seq,
		Segment:    segment,
		Slot1State: models.SlotOpen,
		Slot2State: models.SlotOpen,
		Status:     models.MatchPending,
	}
}

// placeRoundOnePair seats participants 2i-1 and 2i of the placement order
// into round-1 match i. A missing second entry closes the slot (bye).
func placeRoundOnePair(m *models.Match, participants []*models.Participant, seq int) {
	i1 := (seq - 1) * 2
	i2 := i1 + 1
	if i1 < len(participants) {
		m.SetSlot(1, participants[i1].ID)
	} else {
		m.Slot1State = models.SlotClosed
	}
	if i2 < len(participants) {
		m.SetSlot(2, participants[i2].ID)
	} else {
		m.Slot2State = models.SlotClosed
	}
}
