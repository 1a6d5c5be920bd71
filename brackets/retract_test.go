package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestRetractResultReopensMatch(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	m := findMatch(t, g, models.SegmentNone, 1, 1)

	_, err := AdvanceResult(g, models.FormatSingleElimination, models.PhaseConfig{}, m, 2, 0)
	require.NoError(t, err)

	ret, err := RetractResult(g, models.FormatSingleElimination, m)
	require.NoError(t, err)

	assert.Equal(t, models.MatchPending, m.Status)
	assert.Nil(t, m.WinnerID)
	assert.Nil(t, m.ScoreSlot1)
	assert.Nil(t, m.ScoreSlot2)
	// Both occupants stay seated; only the advancement is undone.
	assert.Equal(t, models.SlotFilled, m.Slot1State)
	assert.Equal(t, models.SlotFilled, m.Slot2State)

	final := findMatch(t, g, models.SegmentNone, 2, 1)
	assert.Equal(t, models.SlotOpen, final.Slot1State)
	assert.Nil(t, final.Slot1ParticipantID)
	require.Len(t, ret.ClearedSlots, 1)
	assert.Equal(t, final, ret.ClearedSlots[0].Match)
}

func TestRetractResultRequiresCompletedMatch(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	_, err := RetractResult(g, models.FormatSingleElimination, matches[0])
	assert.ErrorIs(t, err, ErrMatchNotCompleted)
}

func TestRetractResultBlockedByDownstreamResult(t *testing.T) {
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	playOut(t, g, models.FormatSingleElimination, models.PhaseConfig{})

	m := findMatch(t, g, models.SegmentNone, 1, 1)
	_, err := RetractResult(g, models.FormatSingleElimination, m)
	assert.ErrorIs(t, err, ErrResultLocked)
}

func TestRetractResultUnwindsByeCascade(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 3)
	g := NewGraph(matches)

	opener := findMatch(t, g, models.SegmentWinners, 1, 1)
	_, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, opener, 2, 0)
	require.NoError(t, err)

	// The loser had cascaded through its empty losers-bracket opener into
	// the losers final; retraction rolls the whole chain back.
	ret, err := RetractResult(g, models.FormatDoubleElimination, opener)
	require.NoError(t, err)

	lbOpener := findMatch(t, g, models.SegmentLosers, 1, 1)
	assert.Equal(t, models.MatchPending, lbOpener.Status)
	assert.False(t, lbOpener.IsBye)
	assert.Nil(t, lbOpener.WinnerID)
	assert.Equal(t, models.SlotOpen, lbOpener.Slot1State)

	lbFinal := findMatch(t, g, models.SegmentLosers, 2, 1)
	assert.Equal(t, models.SlotOpen, lbFinal.Slot1State)

	assert.Contains(t, ret.Reopened, lbOpener)
	assert.Contains(t, ret.Reopened, opener)
}

func TestRetractGrandFinalDisarmsReset(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 2)
	g := NewGraph(matches)

	wb := findMatch(t, g, models.SegmentWinners, 1, 1)
	_, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, wb, 2, 0)
	require.NoError(t, err)

	gf := g.GrandFinal()
	res, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, gf, 0, 2)
	require.NoError(t, err)
	require.NotNil(t, res.ResetArmed)

	ret, err := RetractResult(g, models.FormatDoubleElimination, gf)
	require.NoError(t, err)

	assert.Equal(t, models.MatchPending, gf.Status)
	reset := g.ResetMatch()
	assert.Equal(t, models.SlotClosed, reset.Slot1State)
	assert.Equal(t, models.SlotClosed, reset.Slot2State)
	assert.Nil(t, reset.Slot1ParticipantID)
	assert.Contains(t, ret.Reopened, reset)
}

func TestRetractGrandFinalBlockedAfterReset(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 2)
	g := NewGraph(matches)

	wb := findMatch(t, g, models.SegmentWinners, 1, 1)
	_, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, wb, 2, 0)
	require.NoError(t, err)

	gf := g.GrandFinal()
	_, err = AdvanceResult(g, models.FormatDoubleElimination, cfg, gf, 0, 2)
	require.NoError(t, err)

	reset := g.ResetMatch()
	_, err = AdvanceResult(g, models.FormatDoubleElimination, cfg, reset, 3, 1)
	require.NoError(t, err)

	_, err = RetractResult(g, models.FormatDoubleElimination, gf)
	assert.ErrorIs(t, err, ErrResultLocked)
}

func TestRetractSwissLeavesManualPairingsAlone(t *testing.T) {
	matches := generateBracket(t, models.FormatSwiss, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	opener := findMatch(t, g, models.SegmentNone, 1, 1)
	_, err := AdvanceResult(g, models.FormatSwiss, models.PhaseConfig{}, opener, 2, 0)
	require.NoError(t, err)

	// An operator already paired round 2 with the same winner.
	round2 := findMatch(t, g, models.SegmentNone, 2, 1)
	round2.SetSlot(1, 101)
	round2.SetSlot(2, 103)

	ret, err := RetractResult(g, models.FormatSwiss, opener)
	require.NoError(t, err)
	assert.Empty(t, ret.ClearedSlots)
	assert.Equal(t, models.SlotFilled, round2.Slot1State)
}

func TestRetractDrawReopensRoundRobinMatch(t *testing.T) {
	matches := generateBracket(t, models.FormatRoundRobin, models.PhaseConfig{}, 4)
	g := NewGraph(matches)

	_, err := AdvanceResult(g, models.FormatRoundRobin, models.PhaseConfig{}, matches[0], 1, 1)
	require.NoError(t, err)

	_, err = RetractResult(g, models.FormatRoundRobin, matches[0])
	require.NoError(t, err)
	assert.Equal(t, models.MatchPending, matches[0].Status)
	assert.False(t, matches[0].IsDraw)
}
