package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func TestGeneratorForCoversEveryFormat(t *testing.T) {
	names := map[models.Format]string{
		models.FormatSingleElimination: "SingleElimination",
		models.FormatDoubleElimination: "DoubleElimination",
		models.FormatRoundRobin:        "RoundRobin",
		models.FormatSwiss:             "Swiss",
		models.FormatGauntlet:          "Gauntlet",
	}
	for format, name := range names {
		require.True(t, format.Valid())
		gen, err := GeneratorFor(format)
		require.NoError(t, err, format)
		assert.Equal(t, name, gen.GetName())
	}
}

func TestGeneratorForUnknownFormat(t *testing.T) {
	_, err := GeneratorFor(models.Format("ladder"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
