package brackets

import (
	"context"

	"github.com/bracketforge/tournament-system/models"
)

// GenerateParams carries everything a generator needs: the phase being
// launched and its participants already in placement order (see
// OrderParticipants).
type GenerateParams struct {
	Phase        *models.Phase
	Config       models.PhaseConfig
	Participants []*models.Participant
}

// BracketGenerator builds the full match skeleton for one format. The
// returned matches carry round, sequence, segment and initial slot
// assignments; byes are already resolved and propagated.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateParams) ([]*models.Match, error)
	GetName() string
}

// GeneratorFor dispatches over the closed format enum. A format missing
// here is a programming error surfaced as ErrUnknownFormat; the
// exhaustiveness test in generator_test.go keeps the switch honest.
func GeneratorFor(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.FormatSwiss:
		return NewSwissGenerator(), nil
	case models.FormatGauntlet:
		return NewGauntletGenerator(), nil
	}
	return nil, ErrUnknownFormat
}

func intPtr(v int) *int { return &v }
