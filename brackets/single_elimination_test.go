package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestSingleEliminationPowerOfTwo(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 8)
	require.Len(t, matches, 7)

	g := NewGraph(matches)
	assert.Len(t, g.Round(models.SegmentNone, 1), 4)
	assert.Len(t, g.Round(models.SegmentNone, 2), 2)
	assert.Len(t, g.Round(models.SegmentNone, 3), 1)

	// Round 1 pairs consecutive placement entries.
	for seq := 1; seq <= 4; seq++ {
		m := findMatch(t, g, models.SegmentNone, 1, seq)
		require.NotNil(t, m.Slot1ParticipantID)
		require.NotNil(t, m.Slot2ParticipantID)
		assert.Equal(t, 101+(seq-1)*2, *m.Slot1ParticipantID)
		assert.Equal(t, 102+(seq-1)*2, *m.Slot2ParticipantID)
	}

	// Later rounds start empty with every slot waiting on a feeder.
	for _, m := range append(g.Round(models.SegmentNone, 2), g.Round(models.SegmentNone, 3)...) {
		assert.Equal(t, models.SlotOpen, m.Slot1State)
		assert.Equal(t, models.SlotOpen, m.Slot2State)
		assert.Equal(t, models.MatchPending, m.Status)
	}
}

func TestSingleEliminationOddField(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 5)
	require.Len(t, matches, 6)

	g := NewGraph(matches)
	require.Len(t, g.Round(models.SegmentNone, 1), 3)

	// The unpaired fifth entry gets a round-1 bye and cascades through the
	// short side of round 2 straight into the final.
	bye := findMatch(t, g, models.SegmentNone, 1, 3)
	assert.True(t, bye.IsBye)
	assert.Equal(t, models.MatchCompleted, bye.Status)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, 105, *bye.WinnerID)

	short := findMatch(t, g, models.SegmentNone, 2, 2)
	assert.True(t, short.IsBye)
	assert.Equal(t, models.MatchCompleted, short.Status)

	final := findMatch(t, g, models.SegmentNone, 3, 1)
	require.NotNil(t, final.Slot2ParticipantID)
	assert.Equal(t, 105, *final.Slot2ParticipantID)
	assert.Equal(t, models.SlotOpen, final.Slot1State)
}

func TestSingleEliminationPlayout(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 8)
	g := NewGraph(matches)

	last := playOut(t, g, models.FormatSingleElimination, models.PhaseConfig{})

	require.NotNil(t, last)
	require.NotNil(t, last.ChampionID)
	assert.Equal(t, 101, *last.ChampionID)
	assert.True(t, last.PhaseComplete)
	assert.False(t, g.Incomplete())
}

func TestSingleEliminationOddFieldPlayout(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 5)
	g := NewGraph(matches)

	last := playOut(t, g, models.FormatSingleElimination, models.PhaseConfig{})

	require.NotNil(t, last)
	require.NotNil(t, last.ChampionID)
	assert.True(t, last.PhaseComplete)

	played := 0
	for _, m := range g.Matches() {
		require.Equal(t, models.MatchCompleted, m.Status)
		if !m.IsBye {
			played++
		}
	}
	assert.Equal(t, 4, played, "five participants need four real matches")
}

func TestSingleEliminationTooFewParticipants(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	_, err := gen.GenerateBracket(context.Background(), GenerateParams{
		Phase:        &models.Phase{Format: models.FormatSingleElimination},
		Participants: testParticipants(1),
	})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}
