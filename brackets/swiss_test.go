package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestSwissStructure(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 8)
	require.Len(t, matches, 12)

	g := NewGraph(matches)
	for r := 1; r <= 3; r++ {
		require.Len(t, g.Round(models.SegmentNone, r), 4, "round %d", r)
	}

	// Round 1 pairs the placement order; later rounds wait for manual
	// pairing once standings exist.
	for seq := 1; seq <= 4; seq++ {
		m := findMatch(t, g, models.SegmentNone, 1, seq)
		assert.Equal(t, 101+(seq-1)*2, *m.Slot1ParticipantID)
		assert.Equal(t, 102+(seq-1)*2, *m.Slot2ParticipantID)
	}
	for r := 2; r <= 3; r++ {
		for _, m := range g.Round(models.SegmentNone, r) {
			assert.Equal(t, models.SlotOpen, m.Slot1State)
			assert.Equal(t, models.SlotOpen, m.Slot2State)
		}
	}
}

func TestSwissSkipFirstRound(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{SkipFirstRound: true}, 8)
	for _, m := range matches {
		assert.Equal(t, models.SlotOpen, m.Slot1State)
		assert.Equal(t, models.SlotOpen, m.Slot2State)
	}
}

func TestSwissOddField(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 5)
	require.Len(t, matches, 6)

	g := NewGraph(matches)
	round1 := g.Round(models.SegmentNone, 1)
	require.Len(t, round1, 2)

	// The fifth participant sits round 1 out; no bye row is created.
	for _, m := range round1 {
		assert.False(t, m.HasParticipant(105))
	}
}

func TestSwissRejectsDraws(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	_, err := AdvanceResult(g, models.FormatSwiss, models.PhaseConfig{}, matches[0], 1, 1)
	assert.ErrorIs(t, err, ErrDrawNotAllowed)
}

func TestSwissResultsAreTerminal(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	res, err := AdvanceResult(g, models.FormatSwiss, models.PhaseConfig{}, matches[0], 2, 0)
	require.NoError(t, err)
	assert.Empty(t, res.SlotWrites)
	assert.Nil(t, res.ChampionID)

	// Round 2 stays untouched until an operator pairs it.
	for _, m := range g.Round(models.SegmentNone, 2) {
		assert.Equal(t, models.SlotOpen, m.Slot1State)
		assert.Equal(t, models.SlotOpen, m.Slot2State)
	}
}
