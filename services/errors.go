package services

import "errors"

// Service-level errors shared across services and the HTTP error mapper.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed           = errors.New("validation failed")
	ErrPasswordTooShort           = errors.New("password is too short")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrRegistrationNotOpen        = errors.New("tournament registration is not open")
	ErrTournamentFull             = errors.New("tournament registration is full")
	ErrPhaseNotPending            = errors.New("phase has already started")
	ErrInvalidFormat              = errors.New("unknown or invalid phase format")
	ErrInvalidPhaseConfig         = errors.New("invalid phase configuration")
	ErrNotEnoughParticipants      = errors.New("not enough eligible participants")
	ErrBracketNotGenerated        = errors.New("bracket has not been generated")
	ErrBracketAlreadyGenerated    = errors.New("bracket already generated for this phase")
	ErrBracketLocked              = errors.New("bracket is locked: results have been reported")
	ErrMatchNotPairable           = errors.New("match slots cannot be paired manually")
	ErrParticipantNotEligible     = errors.New("participant is not eligible for a bracket slot")
	ErrInvalidScoreSubmission     = errors.New("invalid score submission")
	ErrDrawNotAllowed             = errors.New("draws are not allowed in this format")
	ErrMatchAlreadyCompleted      = errors.New("match is already completed")
	ErrMatchNotReady              = errors.New("match is not ready for a result")
	ErrMatchResultLocked          = errors.New("match result cannot be reset: later matches depend on it")
	ErrMatchHasNoResult           = errors.New("match has no result to reset")
	ErrSlotConflict               = errors.New("bracket slot conflict detected")
	ErrSeedConflict               = errors.New("seed order is already taken")
	ErrTournamentNotActive        = errors.New("tournament is not active")
	ErrTournamentDatesRequired    = errors.New("tournament dates are required")
	ErrTournamentInvalidRegDate   = errors.New("registration date cannot be after start date")
	ErrTournamentInvalidDateRange = errors.New("start date must be before end date")
	ErrTournamentInvalidCapacity  = errors.New("tournament max participants must be positive")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserNicknameConflict   = errors.New("nickname is already in use")
	ErrRegistrationConflict   = errors.New("user is already registered for this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Authentication and authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity lookups
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrPhaseNotFound       = errors.New("phase not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")

	// Status transitions
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
)
