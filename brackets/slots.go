package brackets

import "github.com/bracketforge/tournament-system/models"

// Outcome selects which side of a completed match feeds a downstream slot.
type Outcome string

const (
	OutcomeWinner Outcome = "winner"
	OutcomeLoser  Outcome = "loser"
)

type SlotSourceKind int

const (
	// SlotSourceEmpty marks a slot that can never be occupied.
	SlotSourceEmpty SlotSourceKind = iota
	// SlotSourceConcrete is a participant placed during generation or by
	// the progression engine.
	SlotSourceConcrete
	// SlotSourceDeferred is a slot waiting for the winner or loser of an
	// upstream match. FromSequence is 0 when the feeder is a pool rather
	// than a single match (losers-bracket intake fills first-open-slot,
	// so only the feeding round is determined ahead of time).
	SlotSourceDeferred
)

// SlotSource is the recomputed provenance of a match slot. It is derived
// on demand from the graph topology and never persisted.
type SlotSource struct {
	Kind          SlotSourceKind
	ParticipantID int
	FromSegment   models.BracketSegment
	FromRound     int
	FromSequence  int
	Outcome       Outcome
}

// SlotOrigin reports where the occupant of the given slot comes from.
func SlotOrigin(g *Graph, format models.Format, m *models.Match, slot int) SlotSource {
	pid, state := m.Slot(slot)
	if state == models.SlotFilled && pid != nil {
		return SlotSource{Kind: SlotSourceConcrete, ParticipantID: *pid}
	}
	if state == models.SlotClosed {
		return SlotSource{Kind: SlotSourceEmpty}
	}

	switch m.Segment {
	case models.SegmentNone:
		// Round robin and swiss slots have no feeders; swiss rounds >= 2
		// are paired manually.
		if format == models.FormatRoundRobin || format == models.FormatSwiss {
			return SlotSource{Kind: SlotSourceEmpty}
		}
		return feederByArithmetic(g, m, slot)
	case models.SegmentWinners:
		return feederByArithmetic(g, m, slot)
	case models.SegmentLosers:
		// Pool slot: either the previous losers round or a fresh
		// winners-bracket drop; the exact feeder match is decided by fill
		// order, so only the feeding round is reported.
		return SlotSource{Kind: SlotSourceDeferred, FromSegment: models.SegmentLosers, FromRound: m.Round - 1, Outcome: OutcomeWinner}
	case models.SegmentGrandFinal:
		if slot == 1 {
			return SlotSource{
				Kind:         SlotSourceDeferred,
				FromSegment:  models.SegmentWinners,
				FromRound:    g.LastRound(models.SegmentWinners),
				FromSequence: 1,
				Outcome:      OutcomeWinner,
			}
		}
		return SlotSource{
			Kind:         SlotSourceDeferred,
			FromSegment:  models.SegmentLosers,
			FromRound:    g.LastRound(models.SegmentLosers),
			FromSequence: 1,
			Outcome:      OutcomeWinner,
		}
	}
	return SlotSource{Kind: SlotSourceEmpty}
}

// feederByArithmetic resolves the upstream match for segments where the
// edge is pure arithmetic: winner of (r, s) goes to (r+1, ceil(s/2)),
// slot 1 when s is odd.
func feederByArithmetic(g *Graph, m *models.Match, slot int) SlotSource {
	feederSeq := (m.Sequence-1)*2 + slot
	feeder := g.Find(m.Segment, m.Round-1, feederSeq)
	if feeder == nil {
		return SlotSource{Kind: SlotSourceEmpty}
	}
	return SlotSource{
		Kind:         SlotSourceDeferred,
		FromSegment:  feeder.Segment,
		FromRound:    feeder.Round,
		FromSequence: feeder.Sequence,
		Outcome:      OutcomeWinner,
	}
}

// isIntakeRound reports whether a losers round receives fresh
// winners-bracket drops. Intake rounds are round 1 and every even round:
// the loser of winners round r >= 2 drops into losers round 2*(r-1).
func isIntakeRound(round int) bool {
	return round == 1 || round%2 == 0
}
