package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bracketforge/tournament-system/brackets"
	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/realtime"
	"github.com/bracketforge/tournament-system/repositories"
)

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByPhase(ctx context.Context, phaseID int) ([]*models.Match, error)
	ReportResult(ctx context.Context, input ReportResultInput) (*MatchResultOutcome, error)
	ResetResult(ctx context.Context, matchID, currentUserID int) (*models.Match, error)
	SetPairing(ctx context.Context, input SetPairingInput) (*models.Match, error)
}

type ReportResultInput struct {
	MatchID       int `json:"-"`
	CurrentUserID int `json:"-"`
	ScoreSlot1    int `json:"score_slot1"`
	ScoreSlot2    int `json:"score_slot2"`
}

type SetPairingInput struct {
	MatchID       int `json:"-"`
	CurrentUserID int `json:"-"`
	Slot          int `json:"slot"`
	ParticipantID int `json:"participant_id"`
}

// MatchResultOutcome is what a reported result changed, for the HTTP
// response and the room broadcast.
type MatchResultOutcome struct {
	Match         *models.Match   `json:"match"`
	AutoCompleted []*models.Match `json:"auto_completed,omitempty"`
	ChampionID    *int            `json:"champion_id,omitempty"`
	PhaseComplete bool            `json:"phase_complete"`
}

type matchService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	phaseRepo       repositories.PhaseRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	hub             *realtime.Hub
	logger          *slog.Logger

	// Progression reads "first open slot" ordering from the live match
	// set, so result submissions for the same phase must not interleave.
	locks *PhaseLocker
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	phaseRepo repositories.PhaseRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	hub *realtime.Hub,
	locks *PhaseLocker,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		phaseRepo:       phaseRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		hub:             hub,
		logger:          logger,
		locks:           locks,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByPhase(ctx context.Context, phaseID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByPhase(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// ReportResult applies a score to a match and propagates the outcome
// through the bracket: winner advancement, loser drops, bye cascades and
// grand-final handling. Everything the engine touched is persisted in one
// transaction; the bracket's regeneration lock latches here.
func (s *matchService) ReportResult(ctx context.Context, input ReportResultInput) (*MatchResultOutcome, error) {
	phase, err := s.loadForMutation(ctx, input.MatchID, input.CurrentUserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(phase.ID)
	defer unlock()

	all, err := s.matchRepo.ListByPhase(ctx, phase.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket: %w", err)
	}
	graph := brackets.NewGraph(all)
	target := findInSet(all, input.MatchID)
	if target == nil {
		return nil, ErrMatchNotFound
	}

	res, err := brackets.AdvanceResult(graph, phase.Format, *phase.Config, target, input.ScoreSlot1, input.ScoreSlot2)
	if err != nil {
		return nil, mapBracketError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.UpdateResult(ctx, tx, target); err != nil {
		return nil, fmt.Errorf("failed to persist result: %w", err)
	}
	if err := s.persistTouched(ctx, tx, res.SlotWrites, res.AutoCompleted, res.ResetArmed); err != nil {
		return nil, err
	}
	if !phase.BracketLocked {
		if err := s.phaseRepo.SetBracketLocked(ctx, tx, phase.ID, true); err != nil {
			return nil, fmt.Errorf("failed to lock bracket: %w", err)
		}
	}
	if res.PhaseComplete {
		if err := s.phaseRepo.UpdateStatus(ctx, tx, phase.ID, models.PhaseCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete phase: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result: %w", err)
	}

	outcome := &MatchResultOutcome{
		Match:         target,
		AutoCompleted: res.AutoCompleted,
		ChampionID:    res.ChampionID,
		PhaseComplete: res.PhaseComplete,
	}

	room := strconv.Itoa(phase.TournamentID)
	s.hub.Publish(room, realtime.EventMatchUpdated, outcome)
	if res.PhaseComplete {
		s.hub.Publish(room, realtime.EventPhaseCompleted, map[string]interface{}{
			"phase_id":    phase.ID,
			"champion_id": res.ChampionID,
		})
	}
	s.logger.Info("match result reported",
		"match_id", target.ID,
		"phase_id", phase.ID,
		"winner_id", target.WinnerID,
		"phase_complete", res.PhaseComplete,
	)
	return outcome, nil
}

// ResetResult retracts a completed match result: scores are cleared, the
// match goes back to pending, and the advanced participants are withdrawn
// from downstream slots. Refused once any downstream match has been
// played. The regeneration lock stays latched.
func (s *matchService) ResetResult(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
	phase, err := s.loadForMutation(ctx, matchID, currentUserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(phase.ID)
	defer unlock()

	all, err := s.matchRepo.ListByPhase(ctx, phase.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket: %w", err)
	}
	graph := brackets.NewGraph(all)
	target := findInSet(all, matchID)
	if target == nil {
		return nil, ErrMatchNotFound
	}

	wasComplete := phase.Status == models.PhaseCompleted

	ret, err := brackets.RetractResult(graph, phase.Format, target)
	if err != nil {
		return nil, mapBracketError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.UpdateResult(ctx, tx, target); err != nil {
		return nil, fmt.Errorf("failed to persist retraction: %w", err)
	}
	for _, m := range ret.Reopened {
		if err := s.matchRepo.UpdateResult(ctx, tx, m); err != nil {
			return nil, fmt.Errorf("failed to reopen match %d: %w", m.ID, err)
		}
		if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
			return nil, fmt.Errorf("failed to update match %d slots: %w", m.ID, err)
		}
	}
	for _, sc := range ret.ClearedSlots {
		if err := s.matchRepo.UpdateSlots(ctx, tx, sc.Match); err != nil {
			return nil, fmt.Errorf("failed to clear slot of match %d: %w", sc.Match.ID, err)
		}
	}
	if wasComplete {
		if err := s.phaseRepo.UpdateStatus(ctx, tx, phase.ID, models.PhaseActive); err != nil {
			return nil, fmt.Errorf("failed to reactivate phase: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit retraction: %w", err)
	}

	s.hub.Publish(strconv.Itoa(phase.TournamentID), realtime.EventMatchRetracted, map[string]interface{}{
		"match_id": target.ID,
		"phase_id": phase.ID,
	})
	s.logger.Info("match result retracted", "match_id", target.ID, "phase_id", phase.ID)
	return target, nil
}

// SetPairing seats a participant into an open slot by hand. This is how
// swiss rounds after the first get their pairings; it also covers
// operator fixes on any match that has not started.
func (s *matchService) SetPairing(ctx context.Context, input SetPairingInput) (*models.Match, error) {
	if input.Slot != 1 && input.Slot != 2 {
		return nil, fmt.Errorf("%w: slot must be 1 or 2", ErrValidationFailed)
	}

	phase, err := s.loadForMutation(ctx, input.MatchID, input.CurrentUserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(phase.ID)
	defer unlock()

	all, err := s.matchRepo.ListByPhase(ctx, phase.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket: %w", err)
	}
	target := findInSet(all, input.MatchID)
	if target == nil {
		return nil, ErrMatchNotFound
	}
	if target.Status != models.MatchPending {
		return nil, ErrMatchAlreadyCompleted
	}
	if _, state := target.Slot(input.Slot); state != models.SlotOpen {
		return nil, ErrMatchNotPairable
	}

	participant, err := s.participantRepo.GetByID(ctx, input.ParticipantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if participant.TournamentID != phase.TournamentID || !participant.Status.Eligible() {
		return nil, ErrParticipantNotEligible
	}

	// One seat per participant per round.
	for _, m := range all {
		if m.Segment == target.Segment && m.Round == target.Round && m.HasParticipant(input.ParticipantID) {
			return nil, ErrSlotConflict
		}
	}

	target.SetSlot(input.Slot, input.ParticipantID)
	if err := s.matchRepo.UpdateSlots(ctx, nil, target); err != nil {
		target.ClearSlot(input.Slot)
		return nil, fmt.Errorf("failed to persist pairing: %w", err)
	}

	s.hub.Publish(strconv.Itoa(phase.TournamentID), realtime.EventMatchUpdated, map[string]interface{}{
		"match_id":       target.ID,
		"phase_id":       phase.ID,
		"slot":           input.Slot,
		"participant_id": input.ParticipantID,
	})
	return target, nil
}

// loadForMutation resolves the match's phase and tournament and enforces
// the organizer check common to every mutating match operation.
func (s *matchService) loadForMutation(ctx context.Context, matchID, currentUserID int) (*models.Phase, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	phase, err := s.phaseRepo.GetByID(ctx, match.PhaseID)
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

	tournament, err := s.tournamentRepo.GetByID(ctx, phase.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return phase, nil
}

// persistTouched writes every match the progression engine mutated.
// Auto-completed matches carry result fields, slot writes carry slot
// fields; a match can appear in both sets.
func (s *matchService) persistTouched(ctx context.Context, tx repositories.SQLExecutor, writes []brackets.SlotWrite, autoCompleted []*models.Match, resetArmed *models.Match) error {
	seenSlots := make(map[int]bool)
	for _, w := range writes {
		if seenSlots[w.Match.ID] {
			continue
		}
		seenSlots[w.Match.ID] = true
		if err := s.matchRepo.UpdateSlots(ctx, tx, w.Match); err != nil {
			return fmt.Errorf("failed to persist slot write for match %d: %w", w.Match.ID, err)
		}
	}
	for _, m := range autoCompleted {
		if err := s.matchRepo.UpdateResult(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to persist auto-completed match %d: %w", m.ID, err)
		}
		if !seenSlots[m.ID] {
			if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
				return fmt.Errorf("failed to persist match %d slots: %w", m.ID, err)
			}
		}
	}
	if resetArmed != nil && !seenSlots[resetArmed.ID] {
		if err := s.matchRepo.UpdateSlots(ctx, tx, resetArmed); err != nil {
			return fmt.Errorf("failed to arm reset match %d: %w", resetArmed.ID, err)
		}
	}
	return nil
}

func findInSet(matches []*models.Match, id int) *models.Match {
	for _, m := range matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func mapBracketError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchAlreadyCompleted):
		return ErrMatchAlreadyCompleted
	case errors.Is(err, brackets.ErrMatchNotReady):
		return ErrMatchNotReady
	case errors.Is(err, brackets.ErrInvalidScore):
		return ErrInvalidScoreSubmission
	case errors.Is(err, brackets.ErrDrawNotAllowed):
		return ErrDrawNotAllowed
	case errors.Is(err, brackets.ErrSlotAlreadyFilled):
		return ErrSlotConflict
	case errors.Is(err, brackets.ErrMatchNotCompleted):
		return ErrMatchHasNoResult
	case errors.Is(err, brackets.ErrResultLocked):
		return ErrMatchResultLocked
	case errors.Is(err, brackets.ErrMatchNotFound):
		return ErrMatchNotFound
	}
	return err
}
