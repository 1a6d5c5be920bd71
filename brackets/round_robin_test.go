package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func pairKey(m *models.Match) string {
	a, b := *m.Slot1ParticipantID, *m.Slot2ParticipantID
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func TestRoundRobinEveryPairOnce(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 4)
	require.Len(t, matches, 6)

	seen := make(map[string]bool)
	perRound := make(map[int]int)
	for _, m := range matches {
		require.Equal(t, models.SlotFilled, m.Slot1State)
		require.Equal(t, models.SlotFilled, m.Slot2State)
		key := pairKey(m)
		assert.False(t, seen[key], "pair %s scheduled twice", key)
		seen[key] = true
		perRound[m.Round]++
	}
	assert.Len(t, perRound, 3)
	for round, count := range perRound {
		assert.Equal(t, 2, count, "round %d", round)
	}
}

func TestRoundRobinOddFieldSitsOneOut(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 5)
	require.Len(t, matches, 10)

	perRound := make(map[int]map[int]bool)
	for _, m := range matches {
		if perRound[m.Round] == nil {
			perRound[m.Round] = make(map[int]bool)
		}
		perRound[m.Round][*m.Slot1ParticipantID] = true
		perRound[m.Round][*m.Slot2ParticipantID] = true
	}
	require.Len(t, perRound, 5)
	for round, active := range perRound {
		assert.Len(t, active, 4, "round %d should rest exactly one participant", round)
	}
}

func TestRoundRobinGroups(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{GroupCount: 2}, 6)
	require.Len(t, matches, 6)

	// First three placements form group one, the rest group two; no match
	// crosses the boundary.
	groupOf := func(id int) int {
		if id <= 103 {
			return 1
		}
		return 2
	}
	for _, m := range matches {
		assert.Equal(t, groupOf(*m.Slot1ParticipantID), groupOf(*m.Slot2ParticipantID))
	}
}

func TestRoundRobinResultsAreTerminal(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	res, err := AdvanceResult(g, models.FormatRoundRobin, models.PhaseConfig{}, matches[0], 3, 1)
	require.NoError(t, err)
	assert.Empty(t, res.SlotWrites)
	assert.Nil(t, res.ChampionID)
	assert.False(t, res.PhaseComplete)
}

func TestRoundRobinAllowsDraws(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	res, err := AdvanceResult(g, models.FormatRoundRobin, models.PhaseConfig{}, matches[0], 2, 2)
	require.NoError(t, err)
	assert.True(t, res.IsDraw)
	assert.Nil(t, matches[0].WinnerID)
	assert.True(t, matches[0].IsDraw)
	assert.Equal(t, models.MatchCompleted, matches[0].Status)
}

func TestRoundRobinPhaseCompletesWhenAllPlayed(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	last := playOut(t, g, models.FormatRoundRobin, models.PhaseConfig{})
	require.NotNil(t, last)
	assert.True(t, last.PhaseComplete)
	assert.Nil(t, last.ChampionID, "standings decide round robin, not the bracket")
}
