package brackets

import (
	"context"
	"fmt"

	"github.com/bracketforge/tournament-system/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one match per unordered pair of participants,
// per group when the config splits the field. Rounds are assigned with
// the circle method purely for scheduling display; every round-robin
// match is independent and terminal, so no slots are deferred and no
// progression edges exist.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: round robin needs at least 2, got %d", ErrNotEnoughParticipants, n)
	}

	var matches []*models.Match
	seqByRound := make(map[int]int)

	start := 0
	for _, size := range groupSizes(n, params.Config.GroupCountOrDefault()) {
		group := params.Participants[start : start+size]
		start += size
		if size < 2 {
			continue
		}
		for _, pairing := range circleMethodRounds(group) {
			for _, pair := range pairing.pairs {
				seqByRound[pairing.round]++
				m := newSkeletonMatch(models.SegmentNone, pairing.round, seqByRound[pairing.round])
				m.SetSlot(1, pair[0])
				m.SetSlot(2, pair[1])
				matches = append(matches, m)
			}
		}
	}
	return matches, nil
}

type roundPairs struct {
	round int
	pairs [][2]int
}

// circleMethodRounds schedules all pairs of the group over size-1 rounds
// (size rounds for odd groups, with one participant sitting out each
// round): the first entry stays fixed while the rest rotate.
func circleMethodRounds(group []*models.Participant) []roundPairs {
	ids := make([]int, 0, len(group)+1)
	for _, p := range group {
		ids = append(ids, p.ID)
	}
	// Odd group: a zero placeholder marks the sit-out.
	if len(ids)%2 != 0 {
		ids = append(ids, 0)
	}

	n := len(ids)
	rounds := make([]roundPairs, 0, n-1)
	for r := 1; r < n; r++ {
		rp := roundPairs{round: r}
		for i := 0; i < n/2; i++ {
			p1, p2 := ids[i], ids[n-1-i]
			if p1 != 0 && p2 != 0 {
				rp.pairs = append(rp.pairs, [2]int{p1, p2})
			}
		}
		rounds = append(rounds, rp)
		// Rotate everything but the first entry.
		ids = append(ids[:1], append([]int{ids[n-1]}, ids[1:n-1]...)...)
	}
	return rounds
}
