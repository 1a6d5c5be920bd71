package brackets

import (
	"context"
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

type SwissGenerator struct{}

func NewSwissGenerator() BracketGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GenerateBracket creates ceil(log2(n)) rounds of floor(n/2) matches.
// Round 1 pairs by placement order like elimination round 1; later
// rounds are created with both slots open and are paired manually by an
// operator once standings are known. Score-based auto-pairing is an
// external policy, not part of generation. With skip_first_round set,
// round 1 is left unpaired as well. An odd field sits one participant
// out per round; no bye row is created.
func (g *SwissGenerator) GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: swiss needs at least 2, got %d", ErrNotEnoughParticipants, n)
	}

	rounds := swissRoundCount(n)
	perRound := n / 2

	var matches []*models.Match
	for r := 1; r <= rounds; r++ {
		for seq := 1; seq <= perRound; seq++ {
			m := newSkeletonMatch(models.SegmentNone, r, seq)
			if r == 1 && !params.Config.SkipFirstRound {
				m.SetSlot(1, params.Participants[(seq-1)*2].ID)
				m.SetSlot(2, params.Participants[(seq-1)*2+1].ID)
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}
