package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

// testParticipants returns n confirmed participants with IDs 101..100+n,
// seeded 1..n in registration order.
func testParticipants(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		out[i] = &models.Participant{
			ID:          101 + i,
			DisplayName: fmt.Sprintf("player-%d", i+1),
			SeedOrder:   &seed,
			Status:      models.ParticipantConfirmed,
		}
	}
	return out
}

func generateBracket(t *testing.T, format models.Format, cfg models.PhaseConfig, n int) []*models.Match {
	t.Helper()
	gen, err := GeneratorFor(format)
	require.NoError(t, err)
	matches, err := gen.GenerateBracket(context.Background(), GenerateParams{
		Phase:        &models.Phase{ID: 1, Format: format},
		Config:       cfg,
		Participants: testParticipants(n),
	})
	require.NoError(t, err)
	return matches
}

// nextPlayable returns the first pending match with both slots filled, in
// generation order, or nil when nothing is left to play.
func nextPlayable(g *Graph) *models.Match {
	for _, m := range g.Matches() {
		if m.Status == models.MatchPending && m.Slot1State == models.SlotFilled && m.Slot2State == models.SlotFilled {
			return m
		}
	}
	return nil
}

// playOut reports every remaining match with slot 1 winning and returns
// the final Result.
func playOut(t *testing.T, g *Graph, format models.Format, cfg models.PhaseConfig) *Result {
	t.Helper()
	var last *Result
	for {
		m := nextPlayable(g)
		if m == nil {
			break
		}
		res, err := AdvanceResult(g, format, cfg, m, 2, 1)
		require.NoError(t, err)
		last = res
	}
	return last
}

func findMatch(t *testing.T, g *Graph, segment models.BracketSegment, round, seq int) *models.Match {
	t.Helper()
	m := g.Find(segment, round, seq)
	require.NotNil(t, m, "no match at %s round %d seq %d", segment, round, seq)
	return m
}
