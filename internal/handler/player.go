package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/habitquest/internal/model"
)

// PlayerHandler serves the player's level, streak, achievements and days
type PlayerHandler struct {
	controllers ControllerSource
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controllers ControllerSource) *PlayerHandler {
	return &PlayerHandler{controllers: controllers}
}

// Get handles GET /v1/player
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}
	WriteData(w, http.StatusOK, c.Summary(), map[string]string{
		"self":         "/v1/player",
		"achievements": "/v1/player/achievements",
		"today":        "/v1/player/day/" + c.Today(),
	})
}

// Achievements handles GET /v1/player/achievements. Every known achievement
// is listed with its unlock state.
func (h *PlayerHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}
	WriteData(w, http.StatusOK, c.Achievements(), nil)
}

// Day handles GET /v1/player/day/{date}
func (h *PlayerHandler) Day(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	date := chi.URLParam(r, "date")
	if date == "today" {
		date = c.Today()
	}
	if !model.IsISODate(date) {
		WriteError(w, model.NewValidationError([]model.FieldError{{Field: "date", Message: "date must be YYYY-MM-DD"}}))
		return
	}
	WriteData(w, http.StatusOK, c.Day(date), nil)
}
