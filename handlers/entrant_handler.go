package handlers

import (
	"errors"
	"net/http"

	"github.com/openbracket/openbracket/services"
)

type EntrantHandler struct {
	entrantService services.EntrantService
}

func NewEntrantHandler(entrantService services.EntrantService) *EntrantHandler {
	return &EntrantHandler{entrantService: entrantService}
}

// @Summary Добавить участника в событие
// @Tags entrants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} map[string]interface{}
// @Router /events/{eventID}/entrants [post]
func (h *EntrantHandler) Add(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		UserID   int    `json:"user_id"`
		Gamertag string `json:"gamertag"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.UserID < 1 {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	entrant, err := h.entrantService.AddEntrant(r.Context(), eventID, input.UserID, input.Gamertag)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"entrant": entrant}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// @Summary Список участников события (по посеву, непосеянные в конце)
// @Tags entrants
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Router /events/{eventID}/entrants [get]
func (h *EntrantHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entrants, err := h.entrantService.ListByEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"entrants": entrants}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EntrantHandler) UpdateSeeding(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Updates []services.SeedUpdate `json:"updates"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if len(input.Updates) == 0 {
		badRequestResponse(w, r, errors.New("updates must not be empty"))
		return
	}

	if err := h.entrantService.UpdateSeeding(r.Context(), eventID, input.Updates); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntrantHandler) ClearSeeding(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entrantService.ClearSeeding(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntrantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	entrantID, err := getIDFromURL(r, "entrantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entrantService.RemoveEntrant(r.Context(), entrantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
