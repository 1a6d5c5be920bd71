package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestSlotOriginEliminationFeeders(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 8)
	g := NewGraph(matches)

	opener := findMatch(t, g, models.SegmentNone, 1, 1)
	src := SlotOrigin(g, models.FormatSingleElimination, opener, 1)
	assert.Equal(t, SlotSourceConcrete, src.Kind)
	assert.Equal(t, 101, src.ParticipantID)

	semi := findMatch(t, g, models.SegmentNone, 2, 2)
	src = SlotOrigin(g, models.FormatSingleElimination, semi, 1)
	require.Equal(t, SlotSourceDeferred, src.Kind)
	assert.Equal(t, models.SegmentNone, src.FromSegment)
	assert.Equal(t, 1, src.FromRound)
	assert.Equal(t, 3, src.FromSequence)
	assert.Equal(t, OutcomeWinner, src.Outcome)
}

func TestSlotOriginClosedSlot(t *testing.T) {
	matches := generateBracket(t, models.FormatDoubleElimination, models.PhaseConfig{}, 6)
	g := NewGraph(matches)

	lb12 := findMatch(t, g, models.SegmentLosers, 1, 2)
	src := SlotOrigin(g, models.FormatDoubleElimination, lb12, 2)
	assert.Equal(t, SlotSourceEmpty, src.Kind)
}

func TestSlotOriginGrandFinal(t *testing.T) {
	matches := generateBracket(t, models.FormatDoubleElimination, models.PhaseConfig{GrandFinal: models.GrandFinalDouble}, 8)
	g := NewGraph(matches)
	gf := g.GrandFinal()

	src := SlotOrigin(g, models.FormatDoubleElimination, gf, 1)
	require.Equal(t, SlotSourceDeferred, src.Kind)
	assert.Equal(t, models.SegmentWinners, src.FromSegment)
	assert.Equal(t, 3, src.FromRound)

	src = SlotOrigin(g, models.FormatDoubleElimination, gf, 2)
	require.Equal(t, SlotSourceDeferred, src.Kind)
	assert.Equal(t, models.SegmentLosers, src.FromSegment)
	assert.Equal(t, 4, src.FromRound)
}

func TestSlotOriginManualFormats(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	round2 := findMatch(t, g, models.SegmentNone, 2, 1)
	src := SlotOrigin(g, models.FormatSwiss, round2, 1)
	assert.Equal(t, SlotSourceEmpty, src.Kind)
}
