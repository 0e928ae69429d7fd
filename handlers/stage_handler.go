package handlers

import (
	"errors"
	"net/http"

	"github.com/openbracket/openbracket/services"
)

type StageHandler struct {
	stageService services.StageService
}

func NewStageHandler(stageService services.StageService) *StageHandler {
	return &StageHandler{stageService: stageService}
}

// @Summary Создать этап события
// @Tags stages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} map[string]interface{}
// @Router /events/{eventID}/stages [post]
func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateStageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.EventID = eventID

	stage, err := h.stageService.CreateStage(r.Context(), input)
	if err != nil {
		// Конверт {success, message}: текст валидации виден форме,
		// прочие причины остаются в логах.
		if errors.Is(err, services.ErrEventNotFound) {
			notFoundResponse(w, r)
			return
		}
		message := "Failed to create stage"
		if isValidationError(err) {
			message = err.Error()
		} else {
			serverErrorLog(r, err)
		}
		if werr := writeJSON(w, http.StatusOK, statusResponse{Success: false, Message: message}, nil); werr != nil {
			serverErrorResponse(w, r, werr)
		}
		return
	}

	response := jsonResponse{"success": true, "message": "Stage created", "stage": stage}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) UpdatePoolCount(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PoolCount int `json:"pool_count"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.stageService.UpdatePoolCount(r.Context(), stageID, input.PoolCount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stage": stage}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) Remove(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.stageService.RemoveStage(r.Context(), stageID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Список этапов события по порядку
// @Tags stages
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Router /events/{eventID}/stages [get]
func (h *StageHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stages, err := h.stageService.ListByEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stages": stages}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.stageService.ListGroupsByStage(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"groups": groups}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Полная картина сетки события: этапы, пулы, прогрессии
// @Tags stages
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} services.EventBracketing
// @Router /events/{eventID}/bracketing [get]
func (h *StageHandler) Bracketing(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracketing, err := h.stageService.EventBracketing(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracketing, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
