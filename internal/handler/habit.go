package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/service"
)

// ControllerSource resolves the controller for an owner
type ControllerSource interface {
	Get(ctx context.Context, ownerID string) (*service.Controller, error)
}

// controllerFor resolves the caller's controller or writes the error
func controllerFor(w http.ResponseWriter, r *http.Request, controllers ControllerSource) (*service.Controller, bool) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return nil, false
	}
	c, err := controllers.Get(r.Context(), ownerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return nil, false
	}
	return c, true
}

// HabitHandler handles habit and completion requests
type HabitHandler struct {
	controllers ControllerSource
	logger      logrus.FieldLogger
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(controllers ControllerSource, logger logrus.FieldLogger) *HabitHandler {
	return &HabitHandler{controllers: controllers, logger: logger}
}

// List handles GET /v1/habits
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}
	WriteData(w, http.StatusOK, c.Habits(), map[string]string{"self": "/v1/habits"})
}

// Create handles POST /v1/habits
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	var req model.CreateHabitRequest
	if err := DecodeJSON(r, &req, false); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		WriteError(w, model.NewValidationError(fields))
		return
	}

	habit, err := c.AddHabit(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "add habit"))
		return
	}
	WriteData(w, http.StatusCreated, habit, habitLinks(habit.ID))
}

// Update handles PATCH /v1/habits/{habitId}
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	var req model.UpdateHabitRequest
	if err := DecodeJSON(r, &req, false); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		WriteError(w, model.NewValidationError(fields))
		return
	}

	id := chi.URLParam(r, "habitId")
	habit, found, err := c.UpdateHabit(r.Context(), id, &req)
	h.writeHabit(w, habit, found, err, "update habit")
}

type statusRequest struct {
	Status model.HabitStatus `json:"status"`
}

// SetStatus handles PATCH /v1/habits/{habitId}/status
func (h *HabitHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	var req statusRequest
	if err := DecodeJSON(r, &req, false); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	id := chi.URLParam(r, "habitId")
	habit, found, err := c.SetHabitStatus(r.Context(), id, req.Status)
	h.writeHabit(w, habit, found, err, "set habit status")
}

func (h *HabitHandler) writeHabit(w http.ResponseWriter, habit *model.Habit, found bool, err error, op string) {
	switch {
	case err != nil:
		WriteError(w, MapServiceErrorWithContext(err, op))
	case !found:
		WriteError(w, model.NewNotFoundError("habit"))
	default:
		WriteData(w, http.StatusOK, habit, habitLinks(habit.ID))
	}
}

// Delete handles DELETE /v1/habits/{habitId}
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	found, err := c.RemoveHabit(r.Context(), chi.URLParam(r, "habitId"))
	switch {
	case err != nil:
		WriteError(w, MapServiceErrorWithContext(err, "remove habit"))
	case !found:
		WriteError(w, model.NewNotFoundError("habit"))
	default:
		WriteNoContent(w)
	}
}

// Toggle handles POST /v1/habits/{habitId}/toggle. The body is optional;
// without a date the completion is recorded for today.
func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerFor(w, r, h.controllers)
	if !ok {
		return
	}

	var req model.ToggleRequest
	if err := DecodeJSON(r, &req, true); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		WriteError(w, model.NewValidationError(fields))
		return
	}

	id := chi.URLParam(r, "habitId")
	outcome, err := c.Toggle(r.Context(), id, req.Date)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "toggle habit"))
		return
	}
	if !outcome.Applied {
		WriteError(w, model.NewNotFoundError("habit"))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"owner_id":  c.OwnerID(),
		"habit_id":  id,
		"completed": outcome.Completed,
		"xp_delta":  outcome.Delta,
	}).Debug("habit toggled")

	WriteData(w, http.StatusOK, outcome, habitLinks(id))
}
