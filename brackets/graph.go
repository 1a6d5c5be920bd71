package brackets

import (
	"sort"

	"github.com/bracketforge/tournament-system/models"
)

type coord struct {
	segment models.BracketSegment
	round   int
	seq     int
}

// Graph is the in-memory view of one phase's matches. Winner and loser
// edges are never stored on the matches; they are recomputed from
// (segment, round, sequence), so a regenerated bracket needs no pointer
// rewriting.
type Graph struct {
	matches []*models.Match
	byCoord map[coord]*models.Match
	rounds  map[models.BracketSegment]map[int]int // segment -> round -> match count
}

// NewGraph indexes the given matches. The reset match shares the grand
// final's coordinates, so it is indexed separately.
func NewGraph(matches []*models.Match) *Graph {
	g := &Graph{
		matches: matches,
		byCoord: make(map[coord]*models.Match, len(matches)),
		rounds:  make(map[models.BracketSegment]map[int]int),
	}
	for _, m := range matches {
		if m.IsResetMatch {
			continue
		}
		g.byCoord[coord{m.Segment, m.Round, m.Sequence}] = m
		if g.rounds[m.Segment] == nil {
			g.rounds[m.Segment] = make(map[int]int)
		}
		if m.Sequence > g.rounds[m.Segment][m.Round] {
			g.rounds[m.Segment][m.Round] = m.Sequence
		}
	}
	return g
}

func (g *Graph) Matches() []*models.Match { return g.matches }

// Find returns the match at the given coordinates, or nil.
func (g *Graph) Find(segment models.BracketSegment, round, seq int) *models.Match {
	return g.byCoord[coord{segment, round, seq}]
}

// RoundSize returns how many matches the given round holds.
func (g *Graph) RoundSize(segment models.BracketSegment, round int) int {
	return g.rounds[segment][round]
}

// LastRound returns the highest round number in the segment, 0 when the
// segment has no matches.
func (g *Graph) LastRound(segment models.BracketSegment) int {
	last := 0
	for r := range g.rounds[segment] {
		if r > last {
			last = r
		}
	}
	return last
}

// Round returns the matches of one round ordered by sequence.
func (g *Graph) Round(segment models.BracketSegment, round int) []*models.Match {
	out := make([]*models.Match, 0, g.RoundSize(segment, round))
	for _, m := range g.matches {
		if !m.IsResetMatch && m.Segment == segment && m.Round == round {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// GrandFinal returns the first grand-final match (nil if the phase has none).
func (g *Graph) GrandFinal() *models.Match {
	return g.Find(models.SegmentGrandFinal, 1, 1)
}

// ResetMatch returns the optional second grand-final match.
func (g *Graph) ResetMatch() *models.Match {
	for _, m := range g.matches {
		if m.IsResetMatch {
			return m
		}
	}
	return nil
}

// Incomplete reports whether any match other than the reset row still
// awaits a result. The inert reset row is resolved by the progression
// engine when the first grand final completes.
func (g *Graph) Incomplete() bool {
	for _, m := range g.matches {
		if m.Status != models.MatchCompleted {
			return true
		}
	}
	return false
}
