package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bracketforge/tournament-system/brackets"
	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/realtime"
	"github.com/bracketforge/tournament-system/repositories"
)

type PhaseService interface {
	Create(ctx context.Context, input CreatePhaseInput) (*models.Phase, error)
	GetByID(ctx context.Context, id int) (*models.Phase, error)
	GetFullData(ctx context.Context, id int) (*PhaseFullData, error)
	PreviewMatchCount(ctx context.Context, id int) (*MatchCountPreview, error)
	GenerateBracket(ctx context.Context, id, currentUserID int) ([]*models.Match, error)
	RegenerateBracket(ctx context.Context, id, currentUserID int) ([]*models.Match, error)
	DriftReport(ctx context.Context, id int) (*brackets.RosterDrift, error)
	Delete(ctx context.Context, id, currentUserID int) error
}

type CreatePhaseInput struct {
	TournamentID  int                 `json:"-"`
	CurrentUserID int                 `json:"-"`
	Name          string              `json:"name"`
	Format        models.Format       `json:"format"`
	Size          int                 `json:"size"`
	Config        *models.PhaseConfig `json:"config"`
}

// PhaseFullData is the aggregate the bracket view renders from: the
// phase, its eligible roster and every match row.
type PhaseFullData struct {
	Phase        *models.Phase        `json:"phase"`
	Participants []models.Participant `json:"participants"`
	Matches      []*models.Match      `json:"matches"`
}

type MatchCountPreview struct {
	Format       models.Format `json:"format"`
	Participants int           `json:"participants"`
	MatchCount   int           `json:"match_count"`
}

type phaseService struct {
	db              *sql.DB
	phaseRepo       repositories.PhaseRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *realtime.Hub
	locks           *PhaseLocker
	logger          *slog.Logger
}

func NewPhaseService(
	db *sql.DB,
	phaseRepo repositories.PhaseRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *realtime.Hub,
	locks *PhaseLocker,
	logger *slog.Logger,
) PhaseService {
	return &phaseService{
		db:              db,
		phaseRepo:       phaseRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		locks:           locks,
		logger:          logger,
	}
}

func (s *phaseService) Create(ctx context.Context, input CreatePhaseInput) (*models.Phase, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OrganizerID != input.CurrentUserID {
		return nil, ErrForbiddenOperation
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: phase name is required", ErrValidationFailed)
	}
	if !input.Format.Valid() {
		return nil, ErrInvalidFormat
	}
	if input.Size < 0 {
		return nil, fmt.Errorf("%w: size cannot be negative", ErrValidationFailed)
	}

	// Size is the intended field size, used for planning before the
	// roster settles; generation uses the live eligible roster.
	phase := &models.Phase{
		TournamentID: input.TournamentID,
		Name:         strings.TrimSpace(input.Name),
		Format:       input.Format,
		Size:         input.Size,
		Status:       models.PhasePending,
	}

	if input.Config != nil {
		if err := validatePhaseConfig(input.Format, *input.Config); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(input.Config)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPhaseConfig, err)
		}
		encoded := string(raw)
		phase.ConfigJSON = &encoded
		phase.Config = input.Config
	}

	if err := s.phaseRepo.Create(ctx, phase); err != nil {
		if errors.Is(err, repositories.ErrPhaseTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create phase: %w", err)
	}
	return phase, nil
}

func (s *phaseService) GetByID(ctx context.Context, id int) (*models.Phase, error) {
	phase, err := s.phaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhaseNotFound) {
			return nil, ErrPhaseNotFound
		}
		return nil, err
	}
	cfg, err := phase.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: stored config is malformed", ErrInvalidPhaseConfig)
	}
	phase.Config = &cfg
	return phase, nil
}

// GetFullData fetches the phase, its tournament roster and its matches
// concurrently.
func (s *phaseService) GetFullData(ctx context.Context, id int) (*PhaseFullData, error) {
	phase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		participants []*models.Participant
		matches      []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, phase.TournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByPhase(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load phase data: %w", err)
	}

	return &PhaseFullData{
		Phase:        phase,
		Participants: participantsToValues(participants),
		Matches:      matches,
	}, nil
}

func (s *phaseService) PreviewMatchCount(ctx context.Context, id int) (*MatchCountPreview, error) {
	phase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roster, err := s.eligibleRoster(ctx, phase.TournamentID)
	if err != nil {
		return nil, err
	}
	return &MatchCountPreview{
		Format:       phase.Format,
		Participants: len(roster),
		MatchCount:   brackets.CalculateMatchCount(phase.Format, len(roster), *phase.Config),
	}, nil
}

// GenerateBracket builds the match set for a pending phase. The phase
// moves to active, and the previous skeleton (if any) is replaced in the
// same transaction. Fails once any result has been reported.
func (s *phaseService) GenerateBracket(ctx context.Context, id, currentUserID int) ([]*models.Match, error) {
	return s.generate(ctx, id, currentUserID, false)
}

// RegenerateBracket is GenerateBracket for a phase that already has a
// bracket. Kept as a separate operation so the HTTP surface can demand
// an explicit, deliberate call rather than an idempotent re-POST.
func (s *phaseService) RegenerateBracket(ctx context.Context, id, currentUserID int) ([]*models.Match, error) {
	return s.generate(ctx, id, currentUserID, true)
}

func (s *phaseService) generate(ctx context.Context, id, currentUserID int, regenerate bool) ([]*models.Match, error) {
	// Same lock as result reporting: a rewrite must not interleave with
	// a progression pass over the old skeleton, and the lock check below
	// must see the latest latch state.
	unlock := s.locks.Lock(id)
	defer unlock()

	phase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, phase.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if !brackets.CanRegenerate(phase) {
		return nil, ErrBracketLocked
	}
	if !regenerate && phase.Status != models.PhasePending {
		return nil, ErrBracketAlreadyGenerated
	}

	roster, err := s.eligibleRoster(ctx, phase.TournamentID)
	if err != nil {
		return nil, err
	}

	generator, err := brackets.GeneratorFor(phase.Format)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ordered := brackets.OrderParticipants(roster, rng)

	matches, err := generator.GenerateBracket(ctx, brackets.GenerateParams{
		Phase:        phase,
		Config:       *phase.Config,
		Participants: ordered,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) {
			return nil, ErrNotEnoughParticipants
		}
		return nil, fmt.Errorf("bracket generation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.DeleteAllByPhase(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("failed to clear previous bracket: %w", err)
	}
	if err := s.matchRepo.CreateBatch(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to persist bracket: %w", err)
	}
	if err := s.phaseRepo.UpdateStatus(ctx, tx, id, models.PhaseActive); err != nil {
		return nil, fmt.Errorf("failed to activate phase: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bracket: %w", err)
	}

	s.hub.Publish(strconv.Itoa(phase.TournamentID), realtime.EventBracketGenerated, map[string]interface{}{
		"phase_id":    id,
		"format":      phase.Format,
		"match_count": len(matches),
	})
	s.logger.Info("bracket generated",
		"phase_id", id,
		"format", phase.Format,
		"participants", len(ordered),
		"matches", len(matches),
	)
	return matches, nil
}

// DriftReport diffs the current roster against the generated bracket.
// Advisory only: drift is surfaced to the organizer, never auto-applied.
func (s *phaseService) DriftReport(ctx context.Context, id int) (*brackets.RosterDrift, error) {
	phase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByPhase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrBracketNotGenerated
	}
	participants, err := s.participantRepo.ListByTournament(ctx, phase.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	drift := brackets.ComputeRosterDrift(participants, matches)
	return &drift, nil
}

func (s *phaseService) Delete(ctx context.Context, id, currentUserID int) error {
	phase, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, phase.TournamentID)
	if err != nil {
		return err
	}
	if tournament.OrganizerID != currentUserID {
		return ErrForbiddenOperation
	}
	if phase.BracketLocked {
		return ErrBracketLocked
	}
	if err := s.phaseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPhaseNotFound) {
			return ErrPhaseNotFound
		}
		return fmt.Errorf("failed to delete phase: %w", err)
	}
	return nil
}

func (s *phaseService) eligibleRoster(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	all, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	roster := make([]*models.Participant, 0, len(all))
	for _, p := range all {
		if p.Status.Eligible() {
			roster = append(roster, p)
		}
	}
	return roster, nil
}

func validatePhaseConfig(format models.Format, cfg models.PhaseConfig) error {
	if cfg.GrandFinal != "" {
		if format != models.FormatDoubleElimination {
			return fmt.Errorf("%w: grand_final applies to double elimination only", ErrInvalidPhaseConfig)
		}
		switch cfg.GrandFinal {
		case models.GrandFinalNone, models.GrandFinalSingle, models.GrandFinalDouble:
		default:
			return fmt.Errorf("%w: unknown grand_final mode %q", ErrInvalidPhaseConfig, cfg.GrandFinal)
		}
	}
	if cfg.SkipFirstRound && format != models.FormatSwiss {
		return fmt.Errorf("%w: skip_first_round applies to swiss only", ErrInvalidPhaseConfig)
	}
	if cfg.GroupCount != 0 {
		if format != models.FormatRoundRobin {
			return fmt.Errorf("%w: group_count applies to round robin only", ErrInvalidPhaseConfig)
		}
		if cfg.GroupCount < 1 {
			return fmt.Errorf("%w: group_count must be positive", ErrInvalidPhaseConfig)
		}
	}
	return nil
}
