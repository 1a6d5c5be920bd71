package brackets

import (
	"context"
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

type GauntletGenerator struct{}

func NewGauntletGenerator() BracketGenerator {
	return &GauntletGenerator{}
}

func (g *GauntletGenerator) GetName() string {
	return "Gauntlet"
}

// GenerateBracket builds a chain of n-1 matches climbing the seed list:
// the two lowest seeds open the gauntlet, and each subsequent match pits
// the previous winner against the next seed in line, so the top seed
// only enters at the last match.
func (g *GauntletGenerator) GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: gauntlet needs at least 2, got %d", ErrNotEnoughParticipants, n)
	}

	matches := make([]*models.Match, 0, n-1)
	for r := 1; r <= n-1; r++ {
		m := newSkeletonMatch(models.SegmentNone, r, 1)
		if r == 1 {
			m.SetSlot(1, params.Participants[n-2].ID)
			m.SetSlot(2, params.Participants[n-1].ID)
		} else {
			// Slot 1 waits for the previous match's winner.
			m.SetSlot(2, params.Participants[n-1-r].ID)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
