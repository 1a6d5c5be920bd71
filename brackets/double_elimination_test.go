package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestDoubleEliminationStructureEight(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 8)
	require.Len(t, matches, 15)

	g := NewGraph(matches)
	assert.Len(t, g.Round(models.SegmentWinners, 1), 4)
	assert.Len(t, g.Round(models.SegmentWinners, 2), 2)
	assert.Len(t, g.Round(models.SegmentWinners, 3), 1)
	assert.Len(t, g.Round(models.SegmentLosers, 1), 2)
	assert.Len(t, g.Round(models.SegmentLosers, 2), 2)
	assert.Len(t, g.Round(models.SegmentLosers, 3), 1)
	assert.Len(t, g.Round(models.SegmentLosers, 4), 1)

	require.NotNil(t, g.GrandFinal())
	reset := g.ResetMatch()
	require.NotNil(t, reset)
	assert.True(t, reset.IsResetMatch)
	assert.Equal(t, models.SlotClosed, reset.Slot1State)
	assert.Equal(t, models.SlotClosed, reset.Slot2State)

	// A full power-of-two field leaves no slot closed outside the reset row.
	for _, m := range matches {
		if m.IsResetMatch {
			continue
		}
		assert.NotEqual(t, models.SlotClosed, m.Slot1State)
		assert.NotEqual(t, models.SlotClosed, m.Slot2State)
	}
}

func TestDoubleEliminationStructureSix(t *testing.T) {
	matches := generateBracket(t, models.FormatDoubleElimination, models.PhaseConfig{}, 6)
	g := NewGraph(matches)

	assert.Len(t, g.Round(models.SegmentWinners, 1), 3)
	assert.Len(t, g.Round(models.SegmentWinners, 2), 2)
	assert.Len(t, g.Round(models.SegmentWinners, 3), 1)

	// Winners round 2 match 2 has no second feeder.
	assert.Equal(t, models.SlotClosed, findMatch(t, g, models.SegmentWinners, 2, 2).Slot2State)

	// Three round-1 losers fill three of the four losers round-1 slots.
	assert.Len(t, g.Round(models.SegmentLosers, 1), 2)
	lb12 := findMatch(t, g, models.SegmentLosers, 1, 2)
	assert.Equal(t, models.SlotOpen, lb12.Slot1State)
	assert.Equal(t, models.SlotClosed, lb12.Slot2State)

	// Intake round 2 expects two survivors plus one fresh drop.
	assert.Len(t, g.Round(models.SegmentLosers, 2), 2)
	lb22 := findMatch(t, g, models.SegmentLosers, 2, 2)
	assert.Equal(t, models.SlotOpen, lb22.Slot1State)
	assert.Equal(t, models.SlotClosed, lb22.Slot2State)
}

func TestDoubleEliminationPlayoutEight(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 8)
	g := NewGraph(matches)

	last := playOut(t, g, models.FormatDoubleElimination, cfg)

	require.NotNil(t, last)
	require.NotNil(t, last.ChampionID)
	assert.Equal(t, 101, *last.ChampionID)
	assert.True(t, last.PhaseComplete)
	assert.False(t, g.Incomplete())

	// The undefeated champion never needed the reset match: it resolves
	// with no winner the moment the first grand final goes to the
	// winners-bracket entrant.
	reset := g.ResetMatch()
	assert.Equal(t, models.MatchCompleted, reset.Status)
	assert.Nil(t, reset.WinnerID)
	assert.Contains(t, last.AutoCompleted, reset)
}

func TestDoubleEliminationPlayoutOddFields(t *testing.T) {
	for _, n := range []int{3, 5, 6, 7} {
		cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
		matches := generateBracket(t, models.FormatDoubleElimination, cfg, n)
		g := NewGraph(matches)

		last := playOut(t, g, models.FormatDoubleElimination, cfg)

		require.NotNil(t, last, "n=%d", n)
		require.NotNil(t, last.ChampionID, "n=%d", n)
		assert.True(t, last.PhaseComplete, "n=%d", n)

		played := 0
		for _, m := range g.Matches() {
			require.Equal(t, models.MatchCompleted, m.Status, "n=%d", n)
			if !m.IsBye && m.WinnerID != nil {
				played++
			}
		}
		// Everyone except the champion loses at least once, the runner-up
		// exactly once more in the grand final.
		assert.Equal(t, 2*(n-1), played, "n=%d", n)
	}
}

func TestDoubleEliminationResetMatch(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalDouble}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 2)
	g := NewGraph(matches)

	wb := findMatch(t, g, models.SegmentWinners, 1, 1)
	res, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, wb, 2, 0)
	require.NoError(t, err)
	require.Nil(t, res.ChampionID)

	gf := g.GrandFinal()
	require.NotNil(t, gf.Slot1ParticipantID)
	require.NotNil(t, gf.Slot2ParticipantID)
	assert.Equal(t, 101, *gf.Slot1ParticipantID)
	assert.Equal(t, 102, *gf.Slot2ParticipantID)

	// The losers-side entrant takes the first grand final: no champion
	// yet, the reset match is armed with the same pair.
	res, err = AdvanceResult(g, models.FormatDoubleElimination, cfg, gf, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, res.ChampionID)
	assert.False(t, res.PhaseComplete)
	reset := g.ResetMatch()
	require.Equal(t, reset, res.ResetArmed)
	require.NotNil(t, reset.Slot1ParticipantID)
	assert.Equal(t, 101, *reset.Slot1ParticipantID)
	assert.Equal(t, 102, *reset.Slot2ParticipantID)

	res, err = AdvanceResult(g, models.FormatDoubleElimination, cfg, reset, 4, 2)
	require.NoError(t, err)
	require.NotNil(t, res.ChampionID)
	assert.Equal(t, 101, *res.ChampionID)
	assert.True(t, res.PhaseComplete)
}

func TestDoubleEliminationSingleGrandFinalNoReset(t *testing.T) {
	matches := generateBracket(t, models.FormatDoubleElimination, models.PhaseConfig{}, 4)
	g := NewGraph(matches)
	require.Nil(t, g.ResetMatch())

	// Fast-forward to the grand final and hand it to the losers-side
	// entrant: with a single grand final that settles the title.
	var last *Result
	for {
		m := nextPlayable(g)
		if m == nil {
			break
		}
		score1, score2 := 2, 1
		if m.Segment == models.SegmentGrandFinal {
			score1, score2 = 1, 2
		}
		res, err := AdvanceResult(g, models.FormatDoubleElimination, models.PhaseConfig{}, m, score1, score2)
		require.NoError(t, err)
		last = res
	}

	require.NotNil(t, last)
	require.NotNil(t, last.ChampionID)
	gf := g.GrandFinal()
	assert.Equal(t, *gf.Slot2ParticipantID, *last.ChampionID)
	assert.True(t, last.PhaseComplete)
}

func TestDoubleEliminationNoGrandFinal(t *testing.T) {
	cfg := models.PhaseConfig{GrandFinal: models.GrandFinalNone}
	matches := generateBracket(t, models.FormatDoubleElimination, cfg, 4)
	g := NewGraph(matches)

	require.Nil(t, g.GrandFinal())
	require.Len(t, matches, 5)

	var champion *int
	for {
		m := nextPlayable(g)
		if m == nil {
			break
		}
		res, err := AdvanceResult(g, models.FormatDoubleElimination, cfg, m, 2, 1)
		require.NoError(t, err)
		if res.ChampionID != nil {
			champion = res.ChampionID
		}
	}

	// The winners-bracket champion takes the title; the losers bracket
	// still plays out for placement.
	require.NotNil(t, champion)
	assert.Equal(t, 101, *champion)
	assert.False(t, g.Incomplete())
}
