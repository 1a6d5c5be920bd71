package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestAdvanceResultRejectsSecondSubmission(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	m := findMatch(t, g, models.SegmentNone, 1, 1)

	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 2, 0)
	require.NoError(t, err)

	_, err = AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 0, 2)
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
}

func TestAdvanceResultRequiresBothSlots(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	final := findMatch(t, g, models.SegmentNone, 2, 1)

	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, final, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestAdvanceResultRejectsNegativeScores(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	m := findMatch(t, g, models.SegmentNone, 1, 1)

	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, -1, 2)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestAdvanceResultRejectsEliminationDraw(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	m := findMatch(t, g, models.SegmentNone, 1, 1)

	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 1, 1)
	assert.ErrorIs(t, err, ErrDrawNotAllowed)
	assert.Equal(t, models.MatchPending, m.Status)
}

func TestAdvanceResultRefusesOccupiedSlot(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	// Corrupt the downstream slot to simulate a conflicting write: the
	// engine must refuse rather than overwrite.
	final := findMatch(t, g, models.SegmentNone, 2, 1)
	final.SetSlot(1, 999)

	m := findMatch(t, g, models.SegmentNone, 1, 1)
	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 2, 0)
	assert.ErrorIs(t, err, ErrSlotAlreadyFilled)
}

func TestAdvanceResultReportsSlotWrites(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	m := findMatch(t, g, models.SegmentNone, 1, 2)

	res, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, 104, res.WinnerID)
	assert.Equal(t, 103, res.LoserID)
	require.Len(t, res.SlotWrites, 1)
	write := res.SlotWrites[0]
	assert.Equal(t, findMatch(t, g, models.SegmentNone, 2, 1), write.Match)
	assert.Equal(t, 2, write.Slot)
	assert.Equal(t, 104, write.ParticipantID)
}

func TestGenerationByeCascadesIntoFinal(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 3)
	g := NewGraph(matches)

	// The third entry's bye already sits in the final; one real result
	// finishes the phase.
	final := findMatch(t, g, models.SegmentNone, 2, 1)
	require.NotNil(t, final.Slot2ParticipantID)
	assert.Equal(t, 103, *final.Slot2ParticipantID)

	opener := findMatch(t, g, models.SegmentNone, 1, 1)
	res, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, opener, 2, 1)
	require.NoError(t, err)
	assert.False(t, res.PhaseComplete)

	res, err = AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, final, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, res.ChampionID)
	assert.Equal(t, 101, *res.ChampionID)
	assert.True(t, res.PhaseComplete)
}

func TestWinnersLoserDropsIntoByeAndCascades(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 3)
	g := NewGraph(matches)

	opener := findMatch(t, g, models.SegmentWinners, 1, 1)
	res, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, opener, 2, 0)
	require.NoError(t, err)

	// The loser's losers-bracket opener has no possible opponent, so it
	// resolves immediately and the loser moves on within the same call.
	lbOpener := findMatch(t, g, models.SegmentLosers, 1, 1)
	assert.True(t, lbOpener.IsBye)
	assert.Equal(t, models.MatchCompleted, lbOpener.Status)
	assert.Contains(t, res.AutoCompleted, lbOpener)

	lbFinal := findMatch(t, g, models.SegmentLosers, 2, 1)
	require.NotNil(t, lbFinal.Slot1ParticipantID)
	assert.Equal(t, 102, *lbFinal.Slot1ParticipantID)
}
