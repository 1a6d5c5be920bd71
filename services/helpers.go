package services

import (
	"fmt"
	"time"

	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/storage"
)

func validateTournamentDates(reg, start, end time.Time) error {
	if reg.IsZero() || start.IsZero() || end.IsZero() {
		return ErrTournamentDatesRequired
	}
	if reg.After(start) {
		return fmt.Errorf("%w: registration date (%s) is after start date (%s)",
			ErrTournamentInvalidRegDate, reg.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) is not before end date (%s)",
			ErrTournamentInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusSoon:         {models.StatusRegistration, models.StatusCanceled},
		models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
		models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
		models.StatusCompleted:    {},
		models.StatusCanceled:     {},
	}
	for _, status := range allowed[current] {
		if next == status {
			return true
		}
	}
	return false
}

func populateTournamentLogoURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func parseTournamentDates(reg, start, end string) (time.Time, time.Time, time.Time, error) {
	regT, err := parseRFC3339("reg_date", reg)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	startT, err := parseRFC3339("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	endT, err := parseRFC3339("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	return regT, startT, endT, nil
}

func parseTournamentDatePatch(t *models.Tournament, input UpdateTournamentInput) (time.Time, time.Time, time.Time, error) {
	reg, start, end := t.RegDate, t.StartDate, t.EndDate
	var err error
	if input.RegDate != nil {
		if reg, err = parseRFC3339("reg_date", *input.RegDate); err != nil {
			return time.Time{}, time.Time{}, time.Time{}, err
		}
	}
	if input.StartDate != nil {
		if start, err = parseRFC3339("start_date", *input.StartDate); err != nil {
			return time.Time{}, time.Time{}, time.Time{}, err
		}
	}
	if input.EndDate != nil {
		if end, err = parseRFC3339("end_date", *input.EndDate); err != nil {
			return time.Time{}, time.Time{}, time.Time{}, err
		}
	}
	return reg, start, end, nil
}

func parseRFC3339(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", ErrValidationFailed, field)
	}
	return t, nil
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}
}

func participantsToValues(slice []*models.Participant) []models.Participant {
	result := make([]models.Participant, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}

func phasesToValues(slice []*models.Phase) []models.Phase {
	result := make([]models.Phase, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}
