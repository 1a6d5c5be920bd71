package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/repositories"
	"github.com/bracketforge/tournament-system/storage"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id, currentUserID int, status models.TournamentStatus) error
	UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.Tournament, error)
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type CreateTournamentInput struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	OrganizerID     int     `json:"-"`
	RegDate         string  `json:"reg_date"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	MaxParticipants int     `json:"max_participants"`
}

type UpdateTournamentInput struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	RegDate         *string `json:"reg_date"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	MaxParticipants *int    `json:"max_participants"`
}

type TournamentFilter struct {
	Status      *models.TournamentStatus
	OrganizerID *int
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	phaseRepo      repositories.PhaseRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	phaseRepo repositories.PhaseRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		phaseRepo:      phaseRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.MaxParticipants <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}

	reg, start, end, err := parseTournamentDates(input.RegDate, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateTournamentDates(reg, start, end); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		OrganizerID:     input.OrganizerID,
		RegDate:         reg,
		StartDate:       start,
		EndDate:         end,
		Status:          models.StatusSoon,
		MaxParticipants: input.MaxParticipants,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	phases, err := s.phaseRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament phases: %w", err)
	}
	tournament.Phases = phasesToValues(phases)

	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter.Status, filter.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	out := make([]models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		populateTournamentLogoURL(t, s.uploader)
		out = append(out, *t)
	}
	return out, nil
}

func (s *tournamentService) Update(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.getOwned(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
		}
		tournament.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants <= 0 {
			return nil, ErrTournamentInvalidCapacity
		}
		tournament.MaxParticipants = *input.MaxParticipants
	}

	reg, start, end := tournament.RegDate, tournament.StartDate, tournament.EndDate
	if input.RegDate != nil || input.StartDate != nil || input.EndDate != nil {
		reg, start, end, err = parseTournamentDatePatch(tournament, input)
		if err != nil {
			return nil, err
		}
		if err := validateTournamentDates(reg, start, end); err != nil {
			return nil, err
		}
	}
	tournament.RegDate, tournament.StartDate, tournament.EndDate = reg, start, end

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id, currentUserID int, status models.TournamentStatus) error {
	tournament, err := s.getOwned(ctx, id, currentUserID)
	if err != nil {
		return err
	}
	if !isValidStatusTransition(tournament.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, tournament.Status, status)
	}
	return s.tournamentRepo.UpdateStatus(ctx, nil, id, status)
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.getOwned(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%d/logo-%s%s", id, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store logo key: %w", err)
	}
	tournament.LogoKey = &result.Key

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous tournament logo",
				slog.Int("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

// AutoUpdateStatusesByDates advances tournaments whose dates have passed:
// soon -> registration at reg_date, registration -> active at start_date,
// active -> completed at end_date. Run periodically by the scheduler.
func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	steps := []struct {
		from models.TournamentStatus
		to   models.TournamentStatus
		col  string
	}{
		{models.StatusSoon, models.StatusRegistration, "reg_date"},
		{models.StatusRegistration, models.StatusActive, "start_date"},
		{models.StatusActive, models.StatusCompleted, "end_date"},
	}

	var firstErr error
	for _, step := range steps {
		due, err := s.tournamentRepo.ListDueForStatus(ctx, step.from, step.col)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, t := range due {
			if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, step.to); err != nil {
				s.logger.Error("failed to auto-update tournament status",
					slog.Int("tournament_id", t.ID), slog.String("to", string(step.to)), slog.Any("error", err))
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			s.logger.Info("tournament status advanced",
				slog.Int("tournament_id", t.ID),
				slog.String("from", string(step.from)),
				slog.String("to", string(step.to)))
		}
	}
	return firstErr
}

func (s *tournamentService) getOwned(ctx context.Context, id, currentUserID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}
