package brackets

import (
	"math/rand"
	"sort"

	"github.com/bracketforge/tournament-system/models"
)

// OrderParticipants returns the participants in bracket placement order.
//
// When at least one participant carries an explicit seed, the list is
// sorted ascending by seed with unseeded entries last; ties and the
// unseeded tail keep registration order (stable sort), so fully seeded
// rosters order deterministically. Without any seeds the order is a
// uniform random permutation.
func OrderParticipants(participants []*models.Participant, rng *rand.Rand) []*models.Participant {
	out := make([]*models.Participant, len(participants))
	copy(out, participants)

	seeded := false
	for _, p := range out {
		if p.SeedOrder != nil {
			seeded = true
			break
		}
	}

	if !seeded {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].SeedOrder, out[j].SeedOrder
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si < *sj
		}
	})
	return out
}
