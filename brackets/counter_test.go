package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bracketforge/tournament-system/models"
)

func TestCalculateMatchCountSingleElimination(t *testing.T) {
	cfg := models.PhaseConfig{}
	assert.Equal(t, 1, CalculateMatchCount(models.FormatSingleElimination, 2, cfg))
	assert.Equal(t, 4, CalculateMatchCount(models.FormatSingleElimination, 5, cfg))
	assert.Equal(t, 7, CalculateMatchCount(models.FormatSingleElimination, 8, cfg))
	assert.Equal(t, 0, CalculateMatchCount(models.FormatSingleElimination, 1, cfg))
	assert.Equal(t, 0, CalculateMatchCount(models.FormatSingleElimination, 0, cfg))
}

func TestCalculateMatchCountDoubleElimination(t *testing.T) {
	assert.Equal(t, 15, CalculateMatchCount(models.FormatDoubleElimination, 8, models.PhaseConfig{}))
	assert.Equal(t, 15, CalculateMatchCount(models.FormatDoubleElimination, 8, models.PhaseConfig{GrandFinal: models.GrandFinalSingle}))
	assert.Equal(t, 16, CalculateMatchCount(models.FormatDoubleElimination, 8, models.PhaseConfig{GrandFinal: models.GrandFinalDouble}))
	assert.Equal(t, 14, CalculateMatchCount(models.FormatDoubleElimination, 8, models.PhaseConfig{GrandFinal: models.GrandFinalNone}))
	assert.Equal(t, 4, CalculateMatchCount(models.FormatDoubleElimination, 2, models.PhaseConfig{GrandFinal: models.GrandFinalDouble}))
	assert.Equal(t, 0, CalculateMatchCount(models.FormatDoubleElimination, 1, models.PhaseConfig{}))
}

func TestCalculateMatchCountRoundRobin(t *testing.T) {
	assert.Equal(t, 6, CalculateMatchCount(models.FormatRoundRobin, 4, models.PhaseConfig{}))
	assert.Equal(t, 10, CalculateMatchCount(models.FormatRoundRobin, 5, models.PhaseConfig{}))

	// Two groups of four play six matches each.
	assert.Equal(t, 12, CalculateMatchCount(models.FormatRoundRobin, 8, models.PhaseConfig{GroupCount: 2}))
	// Uneven split: groups of four and three.
	assert.Equal(t, 9, CalculateMatchCount(models.FormatRoundRobin, 7, models.PhaseConfig{GroupCount: 2}))
}

func TestCalculateMatchCountSwiss(t *testing.T) {
	cfg := models.PhaseConfig{}
	assert.Equal(t, 12, CalculateMatchCount(models.FormatSwiss, 8, cfg))
	assert.Equal(t, 6, CalculateMatchCount(models.FormatSwiss, 5, cfg))
	assert.Equal(t, 9, CalculateMatchCount(models.FormatSwiss, 6, cfg))
	assert.Equal(t, 1, CalculateMatchCount(models.FormatSwiss, 2, cfg))
}

func TestCalculateMatchCountGauntlet(t *testing.T) {
	assert.Equal(t, 4, CalculateMatchCount(models.FormatGauntlet, 5, models.PhaseConfig{}))
	assert.Equal(t, 0, CalculateMatchCount(models.FormatGauntlet, 1, models.PhaseConfig{}))
}

func TestCalculateMatchCountEdges(t *testing.T) {
	assert.Equal(t, 0, CalculateMatchCount(models.Format("crokinole"), 8, models.PhaseConfig{}))
	assert.Equal(t, 0, CalculateMatchCount(models.FormatSingleElimination, -3, models.PhaseConfig{}))
}
