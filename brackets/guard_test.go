package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bracketforge/tournament-system/models"
)

func TestCanRegenerate(t *testing.T) {
	phase := &models.Phase{Format: models.FormatSingleElimination}
	assert.True(t, CanRegenerate(phase))

	phase.BracketLocked = true
	assert.False(t, CanRegenerate(phase))
}

func TestComputeRosterDrift(t *testing.T) {
	participants := []*models.Participant{
		{ID: 1, Status: models.ParticipantConfirmed},
		{ID: 2, Status: models.ParticipantCheckedIn},
		{ID: 3, Status: models.ParticipantDisqualified},
		{ID: 4, Status: models.ParticipantConfirmed},
	}
	m := newSkeletonMatch(models.SegmentNone, 1, 1)
	m.SetSlot(1, 1)
	m.SetSlot(2, 3)

	drift := ComputeRosterDrift(participants, []*models.Match{m})

	assert.Equal(t, []int{2, 4}, drift.MissingFromBracket)
	assert.Equal(t, []int{3}, drift.IneligibleInBracket)
	assert.False(t, drift.Empty())
}

func TestComputeRosterDriftEmpty(t *testing.T) {
	participants := []*models.Participant{
		{ID: 101, Status: models.ParticipantConfirmed},
		{ID: 102, Status: models.ParticipantCheckedIn},
	}
	matches := generateBracket(t, models.FormatSingleElimination, models.PhaseConfig{}, 2)

	drift := ComputeRosterDrift(participants, matches)
	assert.True(t, drift.Empty())
}
