package brackets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/tournament-system/models"
)

func seeded(id, seed int) *models.Participant {
	return &models.Participant{ID: id, SeedOrder: &seed, Status: models.ParticipantConfirmed}
}

func unseeded(id int) *models.Participant {
	return &models.Participant{ID: id, Status: models.ParticipantConfirmed}
}

func ids(participants []*models.Participant) []int {
	out := make([]int, len(participants))
	for i, p := range participants {
		out[i] = p.ID
	}
	return out
}

func TestOrderParticipantsBySeed(t *testing.T) {
	in := []*models.Participant{seeded(1, 3), seeded(2, 1), seeded(3, 4), seeded(4, 2)}

	out := OrderParticipants(in, rand.New(rand.NewSource(1)))

	assert.Equal(t, []int{2, 4, 1, 3}, ids(out))
	// Input order is untouched.
	assert.Equal(t, []int{1, 2, 3, 4}, ids(in))
}

func TestOrderParticipantsUnseededGoLast(t *testing.T) {
	in := []*models.Participant{unseeded(1), seeded(2, 2), unseeded(3), seeded(4, 1)}

	out := OrderParticipants(in, rand.New(rand.NewSource(1)))

	// Seeded ascending, then unseeded in registration order.
	assert.Equal(t, []int{4, 2, 1, 3}, ids(out))
}

func TestOrderParticipantsShuffleWithoutSeeds(t *testing.T) {
	in := []*models.Participant{unseeded(1), unseeded(2), unseeded(3), unseeded(4), unseeded(5)}

	first := OrderParticipants(in, rand.New(rand.NewSource(42)))
	second := OrderParticipants(in, rand.New(rand.NewSource(42)))

	require.Equal(t, ids(first), ids(second), "same source must reproduce the permutation")
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, ids(first))
}
