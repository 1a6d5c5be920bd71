package brackets

import (
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

// SlotWrite records one slot mutation produced by the progression engine.
// The engine mutates the in-memory graph and returns these so the caller
// can persist exactly what changed.
type SlotWrite struct {
	Match         *models.Match
	Slot          int
	ParticipantID int
}

// Result is the outcome of advancing one completed match through the
// bracket graph.
type Result struct {
	WinnerID int
	LoserID  int
	IsDraw   bool

	// SlotWrites lists every downstream slot filled, including fills
	// performed while cascading byes.
	SlotWrites []SlotWrite
	// AutoCompleted lists matches resolved without play as a consequence
	// of this result (bye cascades and the inert reset row).
	AutoCompleted []*models.Match
	// ResetArmed is set when the losers-bracket finalist won the first
	// grand final and the reset match was re-armed.
	ResetArmed *models.Match

	ChampionID    *int
	PhaseComplete bool
}

// AdvanceResult applies a score submission to a match and propagates the
// outcome through the graph: winner advancement, loser drops,
// grand-final and reset-match handling, and bye cascades. The graph is
// mutated in place; the returned Result lists every mutation for
// persistence.
//
// Callers must serialize invocations per phase: the engine decides
// "first open slot" from the current graph state.
func AdvanceResult(g *Graph, format models.Format, cfg models.PhaseConfig, m *models.Match, score1, score2 int) (*Result, error) {
	if m.Status == models.MatchCompleted {
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyCompleted, m.ID)
	}
	if m.Slot1State != models.SlotFilled || m.Slot2State != models.SlotFilled {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotReady, m.ID)
	}
	if score1 < 0 || score2 < 0 {
		return nil, fmt.Errorf("%w: negative score for match %d", ErrInvalidScore, m.ID)
	}

	if score1 == score2 {
		if format != models.FormatRoundRobin {
			return nil, fmt.Errorf("%w: match %d", ErrDrawNotAllowed, m.ID)
		}
		completeDraw(m, score1, score2)
		return &Result{IsDraw: true, PhaseComplete: !g.Incomplete()}, nil
	}

	winnerID, loserID := *m.Slot1ParticipantID, *m.Slot2ParticipantID
	if score2 > score1 {
		winnerID, loserID = loserID, winnerID
	}
	completeMatch(m, score1, score2, winnerID, loserID)

	res := &Result{WinnerID: winnerID, LoserID: loserID}

	if m.Segment == models.SegmentGrandFinal {
		if err := advanceGrandFinal(g, cfg, m, winnerID, res); err != nil {
			return nil, err
		}
		res.PhaseComplete = !g.Incomplete()
		return res, nil
	}

	if err := routeWinner(g, format, m, winnerID, res); err != nil {
		return nil, err
	}
	if m.Segment == models.SegmentWinners {
		if err := routeLoser(g, m, loserID, res); err != nil {
			return nil, err
		}
	}

	res.PhaseComplete = !g.Incomplete()
	return res, nil
}

func completeMatch(m *models.Match, score1, score2, winnerID, loserID int) {
	m.ScoreSlot1 = intPtr(score1)
	m.ScoreSlot2 = intPtr(score2)
	m.WinnerID = intPtr(winnerID)
	m.LoserID = intPtr(loserID)
	m.IsDraw = false
	m.Status = models.MatchCompleted
}

func completeDraw(m *models.Match, score1, score2 int) {
	m.ScoreSlot1 = intPtr(score1)
	m.ScoreSlot2 = intPtr(score2)
	m.WinnerID = nil
	m.LoserID = nil
	m.IsDraw = true
	m.Status = models.MatchCompleted
}

// routeWinner advances a winner to its downstream slot. Terminal matches
// (round robin, swiss, and the championship match of a format without a
// grand final) set the champion where one is defined.
func routeWinner(g *Graph, format models.Format, m *models.Match, winnerID int, res *Result) error {
	switch format {
	case models.FormatRoundRobin, models.FormatSwiss:
		return nil
	}

	switch m.Segment {
	case models.SegmentNone:
		next := g.Find(models.SegmentNone, m.Round+1, (m.Sequence+1)/2)
		if next == nil {
			res.ChampionID = intPtr(winnerID)
			return nil
		}
		return fillSlot(g, format, next, 2-m.Sequence%2, winnerID, res)

	case models.SegmentWinners:
		next := g.Find(models.SegmentWinners, m.Round+1, (m.Sequence+1)/2)
		if next != nil {
			return fillSlot(g, format, next, 2-m.Sequence%2, winnerID, res)
		}
		gf := g.GrandFinal()
		if gf == nil {
			// No grand final configured: the winners-bracket champion
			// takes the title while the losers bracket plays out.
			res.ChampionID = intPtr(winnerID)
			return nil
		}
		return fillSlot(g, format, gf, 1, winnerID, res)

	case models.SegmentLosers:
		if m.Round < g.LastRound(models.SegmentLosers) {
			return fillFirstOpen(g, format, models.SegmentLosers, m.Round+1, winnerID, res)
		}
		gf := g.GrandFinal()
		if gf == nil {
			return nil
		}
		return fillSlot(g, format, gf, 2, winnerID, res)
	}
	return nil
}

// routeLoser drops a winners-bracket loser into the losers bracket.
// Round-1 losers pair up in losers round 1; the loser of winners round
// r >= 2 enters intake round 2*(r-1). With only one winners round there
// is no losers bracket and the loser goes straight to grand-final slot 2.
func routeLoser(g *Graph, m *models.Match, loserID int, res *Result) error {
	if g.LastRound(models.SegmentLosers) == 0 {
		gf := g.GrandFinal()
		if gf == nil {
			return nil
		}
		return fillSlot(g, models.FormatDoubleElimination, gf, 2, loserID, res)
	}

	dropRound := 1
	if m.Round > 1 {
		dropRound = 2 * (m.Round - 1)
	}
	return fillFirstOpen(g, models.FormatDoubleElimination, models.SegmentLosers, dropRound, loserID, res)
}

// fillFirstOpen writes the participant into the first open slot of the
// given round, in ascending match-number order, slot 1 before slot 2.
// This is the single tie-break rule used everywhere a round has more than
// one candidate destination.
func fillFirstOpen(g *Graph, format models.Format, segment models.BracketSegment, round, participantID int, res *Result) error {
	for _, m := range g.Round(segment, round) {
		for slot := 1; slot <= 2; slot++ {
			if _, state := m.Slot(slot); state == models.SlotOpen {
				return fillSlot(g, format, m, slot, participantID, res)
			}
		}
	}
	return fmt.Errorf("%w: no open slot in %s round %d", ErrSlotAlreadyFilled, segment, round)
}

// fillSlot writes a concrete participant into a specific slot, then
// cascades: a match left with one occupant and a closed opposite slot
// resolves immediately as a bye and its winner advances in turn.
func fillSlot(g *Graph, format models.Format, m *models.Match, slot, participantID int, res *Result) error {
	_, state := m.Slot(slot)
	switch state {
	case models.SlotFilled:
		return fmt.Errorf("%w: %s round %d match %d slot %d", ErrSlotAlreadyFilled, m.Segment, m.Round, m.Sequence, slot)
	case models.SlotClosed:
		return fmt.Errorf("%w: %s round %d match %d slot %d is closed", ErrSlotAlreadyFilled, m.Segment, m.Round, m.Sequence, slot)
	}

	m.SetSlot(slot, participantID)
	res.SlotWrites = append(res.SlotWrites, SlotWrite{Match: m, Slot: slot, ParticipantID: participantID})

	other := 3 - slot
	if _, otherState := m.Slot(other); otherState == models.SlotClosed && m.Status == models.MatchPending {
		completeBye(m, participantID)
		res.AutoCompleted = append(res.AutoCompleted, m)
		return routeWinner(g, format, m, participantID, res)
	}
	return nil
}

// completeBye resolves a match without play: single occupant, closed
// opposite slot, no score recorded.
func completeBye(m *models.Match, winnerID int) {
	m.WinnerID = intPtr(winnerID)
	m.IsBye = true
	m.Status = models.MatchCompleted
}

// advanceGrandFinal implements the grand-final state machine. The
// winners-bracket entrant sits in slot 1: if it wins the first grand
// final, the phase is over and the inert reset row (if any) is resolved.
// If the losers-bracket entrant wins and the config calls for a double
// grand final, the reset match is re-armed with the same two participants.
func advanceGrandFinal(g *Graph, cfg models.PhaseConfig, m *models.Match, winnerID int, res *Result) error {
	reset := g.ResetMatch()

	if m.IsResetMatch {
		res.ChampionID = intPtr(winnerID)
		return nil
	}

	wbEntrant := *m.Slot1ParticipantID
	if winnerID == wbEntrant {
		res.ChampionID = intPtr(winnerID)
		if reset != nil && reset.Status == models.MatchPending {
			reset.Status = models.MatchCompleted
			res.AutoCompleted = append(res.AutoCompleted, reset)
		}
		return nil
	}

	if cfg.GrandFinalOrDefault() == models.GrandFinalDouble && reset != nil {
		reset.SetSlot(1, wbEntrant)
		reset.SetSlot(2, winnerID)
		res.SlotWrites = append(res.SlotWrites,
			SlotWrite{Match: reset, Slot: 1, ParticipantID: wbEntrant},
			SlotWrite{Match: reset, Slot: 2, ParticipantID: winnerID},
		)
		res.ResetArmed = reset
		return nil
	}

	res.ChampionID = intPtr(winnerID)
	return nil
}

// settleGenerated resolves generation-time byes: any pending match with a
// single occupant and a closed opposite slot completes immediately and
// its winner propagates; a match with both slots closed is inert and
// completes with no winner. Runs to a fixpoint. The reset row is exempt:
// it stays inert until the engine arms it.
func settleGenerated(g *Graph, format models.Format) error {
	for changed := true; changed; {
		changed = false
		for _, m := range g.Matches() {
			if m.IsResetMatch || m.Status != models.MatchPending {
				continue
			}
			p1, s1 := m.Slot(1)
			p2, s2 := m.Slot(2)
			switch {
			case s1 == models.SlotFilled && s2 == models.SlotClosed:
				completeBye(m, *p1)
				res := &Result{}
				if err := routeWinner(g, format, m, *p1, res); err != nil {
					return err
				}
				changed = true
			case s2 == models.SlotFilled && s1 == models.SlotClosed:
				completeBye(m, *p2)
				res := &Result{}
				if err := routeWinner(g, format, m, *p2, res); err != nil {
					return err
				}
				changed = true
			case s1 == models.SlotClosed && s2 == models.SlotClosed:
				m.IsBye = true
				m.Status = models.MatchCompleted
				changed = true
			}
		}
	}
	return nil
}
