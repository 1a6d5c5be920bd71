package brackets

import (
	"context"
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds the winners bracket exactly like single
// elimination, then a losers ladder of 2*(winnersRounds-1) rounds
// alternating between intake rounds (which receive fresh winners-bracket
// drops) and internal rounds (which halve the survivors), and finally the
// grand-final row(s). Losers-bracket slots that can never receive an
// entrant, because winners-bracket byes produce no loser, are closed at
// generation so the bye cascade covers both segments.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: double elimination needs at least 2, got %d", ErrNotEnoughParticipants, n)
	}

	winners := buildEliminationSegment(models.SegmentWinners, params.Participants)

	wbSizes := eliminationRoundSizes((n + 1) / 2)
	drops := winnersDropCounts(winners, len(wbSizes))

	losers := buildLosersLadder(wbSizes, drops)

	matches := append(winners, losers...)
	matches = append(matches, grandFinalRows(params.Config)...)

	graph := NewGraph(matches)
	if err := settleGenerated(graph, params.Phase.Format); err != nil {
		return nil, err
	}
	return matches, nil
}

// winnersDropCounts reports, per winners round, how many matches will
// produce a loser. A match with a closed slot is a bye and drops nobody;
// that is knowable at generation because closure never changes.
func winnersDropCounts(winners []*models.Match, rounds int) []int {
	drops := make([]int, rounds+1)
	for _, m := range winners {
		if m.Slot1State != models.SlotClosed && m.Slot2State != models.SlotClosed {
			drops[m.Round]++
		}
	}
	return drops
}

// buildLosersLadder sizes the losers rounds from the winners bracket:
// round 1 holds ceil(WB1/2) matches (two round-1 losers share a match),
// intake round 2*(k-1) mirrors winners round k, and each internal round
// halves its predecessor. Slots beyond the expected entrant count for a
// round are closed, trailing slots first in fill order.
func buildLosersLadder(wbSizes, drops []int) []*models.Match {
	winnersRounds := len(wbSizes)
	if winnersRounds < 2 {
		return nil
	}

	rounds := 2 * (winnersRounds - 1)
	sizes := make([]int, rounds+1)
	sizes[1] = (wbSizes[0] + 1) / 2
	for r := 2; r <= rounds; r++ {
		if r%2 == 0 {
			sizes[r] = wbSizes[r/2]
		} else {
			sizes[r] = (sizes[r-1] + 1) / 2
		}
	}

	var matches []*models.Match
	carry := 0
	for r := 1; r <= rounds; r++ {
		incoming := 0
		if r == 1 {
			incoming = drops[1]
		} else if r%2 == 0 {
			incoming = drops[r/2+1]
		}
		entrants := carry + incoming

		row := make([]*models.Match, sizes[r])
		for seq := 1; seq <= sizes[r]; seq++ {
			row[seq-1] = newSkeletonMatch(models.SegmentLosers, r, seq)
		}
		closeTrailingSlots(row, entrants)
		matches = append(matches, row...)

		carry = (entrants + 1) / 2
	}
	return matches
}

// closeTrailingSlots keeps the first `entrants` slots of the round open
// (fill order: ascending sequence, slot 1 before slot 2) and closes the
// rest.
func closeTrailingSlots(row []*models.Match, entrants int) {
	open := 0
	for _, m := range row {
		for slot := 1; slot <= 2; slot++ {
			if open < entrants {
				open++
				continue
			}
			if slot == 1 {
				m.Slot1State = models.SlotClosed
			} else {
				m.Slot2State = models.SlotClosed
			}
		}
	}
}

// grandFinalRows materializes the grand final per config: none, a single
// match, or a match plus the inert reset row. The reset row starts with
// both slots closed and is only armed by the progression engine.
func grandFinalRows(cfg models.PhaseConfig) []*models.Match {
	switch cfg.GrandFinalOrDefault() {
	case models.GrandFinalNone:
		return nil
	case models.GrandFinalDouble:
		gf := newSkeletonMatch(models.SegmentGrandFinal, 1, 1)
		reset := newSkeletonMatch(models.SegmentGrandFinal, 1, 2)
		reset.IsResetMatch = true
		reset.Slot1State = models.SlotClosed
		reset.Slot2State = models.SlotClosed
		return []*models.Match{gf, reset}
	default:
		return []*models.Match{newSkeletonMatch(models.SegmentGrandFinal, 1, 1)}
	}
}
