package handlers

import (
	"context"
	"net/http"

	"github.com/bracketforge/tournament-system/middleware"
	"github.com/bracketforge/tournament-system/models"
	"github.com/bracketforge/tournament-system/services"
)

type PhaseHandler struct {
	phaseService services.PhaseService
	matchService services.MatchService
}

func NewPhaseHandler(phaseService services.PhaseService, matchService services.MatchService) *PhaseHandler {
	return &PhaseHandler{
		phaseService: phaseService,
		matchService: matchService,
	}
}

func (h *PhaseHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreatePhaseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID
	input.CurrentUserID = userID

	phase, err := h.phaseService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"phase": phase}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) GetFullDataHandler(w http.ResponseWriter, r *http.Request) {
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.phaseService.GetFullData(r.Context(), phaseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, data, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) PreviewMatchCountHandler(w http.ResponseWriter, r *http.Request) {
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	preview, err := h.phaseService.PreviewMatchCount(r.Context(), phaseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, preview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.phaseService.GenerateBracket)
}

func (h *PhaseHandler) RegenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.phaseService.RegenerateBracket)
}

func (h *PhaseHandler) generate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, currentUserID int) ([]*models.Match, error)) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := op(r.Context(), phaseID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) DriftReportHandler(w http.ResponseWriter, r *http.Request) {
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	drift, err := h.phaseService.DriftReport(r.Context(), phaseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"drift": drift}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByPhase(r.Context(), phaseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhaseHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	phaseID, err := readIDParam(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.phaseService.Delete(r.Context(), phaseID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
