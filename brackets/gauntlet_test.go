package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestGauntletStructure(t *testing.T) {
	matches := generateBracket(t, models.FormatGauntlet, models.PhaseConfig{}, 4)
	require.Len(t, matches, 3)

	// The two lowest seeds open the chain; each later match holds the
	// next seed up, so the top seed enters last.
	first := matches[0]
	assert.Equal(t, 103, *first.Slot1ParticipantID)
	assert.Equal(t, 104, *first.Slot2ParticipantID)

	second := matches[1]
	assert.Equal(t, models.SlotOpen, second.Slot1State)
	assert.Equal(t, 102, *second.Slot2ParticipantID)

	last := matches[2]
	assert.Equal(t, models.SlotOpen, last.Slot1State)
	assert.Equal(t, 101, *last.Slot2ParticipantID)
}

func TestGauntletPlayout(t *testing.T) {
	matches := generateBracket(t, models.FormatGauntlet, models.PhaseConfig{}, 5)
	require.Len(t, matches, 4)
	g := NewGraph(matches)

	// The opener's winner climbs the whole ladder.
	last := playOut(t, g, models.FormatGauntlet, models.PhaseConfig{})

	require.NotNil(t, last)
	require.NotNil(t, last.ChampionID)
	assert.Equal(t, 104, *last.ChampionID)
	assert.True(t, last.PhaseComplete)
}

func TestGauntletTopSeedWinsFinalOnly(t *testing.T) {
	matches := generateBracket(t, models.FormatGauntlet, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	// Challenger wins every match until the top seed stops the run.
	for {
		m := nextPlayable(g)
		if m == nil {
			break
		}
		score1, score2 := 2, 1
		if m.HasParticipant(101) {
			score1, score2 = 0, 2
		}
		_, err := AdvanceResult(g, models.FormatGauntlet, models.PhaseConfig{}, m, score1, score2)
		require.NoError(t, err)
	}

	final := matches[len(matches)-1]
	require.NotNil(t, final.WinnerID)
	assert.Equal(t, 101, *final.WinnerID)
	assert.False(t, g.Incomplete())
}
