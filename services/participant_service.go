package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/repositories"
)

type ParticipantService interface {
	Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	UpdateStatus(ctx context.Context, participantID, currentUserID int, status models.ParticipantStatus) (*models.Participant, error)
	SetSeed(ctx context.Context, participantID, currentUserID int, seedOrder *int) (*models.Participant, error)
}

type RegisterParticipantInput struct {
	TournamentID int    `json:"-"`
	UserID       *int   `json:"user_id"`
	DisplayName  string `json:"display_name"`
	SeedOrder    *int   `json:"seed_order"`
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
	}
}

func (s *participantService) Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	existing, err := s.participantRepo.ListByTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	active := 0
	for _, p := range existing {
		if p.Status != models.ParticipantRemoved && p.Status != models.ParticipantDisqualified {
			active++
		}
	}
	if tournament.MaxParticipants > 0 && active >= tournament.MaxParticipants {
		return nil, ErrTournamentFull
	}

	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrValidationFailed)
	}
	if input.SeedOrder != nil && *input.SeedOrder < 1 {
		return nil, fmt.Errorf("%w: seed order must be positive", ErrValidationFailed)
	}

	participant := &models.Participant{
		TournamentID: input.TournamentID,
		UserID:       input.UserID,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		SeedOrder:    input.SeedOrder,
		Status:       models.ParticipantPending,
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrParticipantSeedConflict):
			return nil, ErrSeedConflict
		case errors.Is(err, repositories.ErrParticipantTournamentInvalid):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}
	return participant, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participantsToValues(participants), nil
}

// UpdateStatus moves a participant through its lifecycle: confirm,
// check in, disqualify, remove. Only the tournament organizer may do it.
func (s *participantService) UpdateStatus(ctx context.Context, participantID, currentUserID int, status models.ParticipantStatus) (*models.Participant, error) {
	switch status {
	case models.ParticipantConfirmed, models.ParticipantCheckedIn,
		models.ParticipantDisqualified, models.ParticipantRemoved:
	default:
		return nil, fmt.Errorf("%w: unknown participant status %q", ErrValidationFailed, status)
	}

	participant, err := s.getWithOrganizerCheck(ctx, participantID, currentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, status); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to update participant status: %w", err)
	}
	participant.Status = status
	return participant, nil
}

func (s *participantService) SetSeed(ctx context.Context, participantID, currentUserID int, seedOrder *int) (*models.Participant, error) {
	if seedOrder != nil && *seedOrder < 1 {
		return nil, fmt.Errorf("%w: seed order must be positive", ErrValidationFailed)
	}

	participant, err := s.getWithOrganizerCheck(ctx, participantID, currentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.participantRepo.UpdateSeed(ctx, participantID, seedOrder); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNotFound):
			return nil, ErrParticipantNotFound
		case errors.Is(err, repositories.ErrParticipantSeedConflict):
			return nil, ErrSeedConflict
		}
		return nil, fmt.Errorf("failed to update participant seed: %w", err)
	}
	participant.SeedOrder = seedOrder
	return participant, nil
}

func (s *participantService) getWithOrganizerCheck(ctx context.Context, participantID, currentUserID int) (*models.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, participant.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return participant, nil
}
