package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/model"
)

// ChallengeSource serves weekly challenges and the leaderboard
type ChallengeSource interface {
	CurrentWeek() model.Week
	ActiveChallenges(ctx context.Context) ([]*model.Challenge, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	RefreshProgress(ctx context.Context, ownerID string) ([]model.ChallengeProgress, error)
}

// ChallengeHandler handles weekly challenge requests
type ChallengeHandler struct {
	challenges ChallengeSource
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challenges ChallengeSource) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

type challengeView struct {
	*model.Challenge
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

type challengesResponse struct {
	Week       model.Week      `json:"week"`
	Challenges []challengeView `json:"challenges"`
}

// List handles GET /v1/challenges: the active challenges with the caller's
// progress on each
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	challenges, err := h.challenges.ActiveChallenges(ctx)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list challenges"))
		return
	}
	progress, err := h.challenges.RefreshProgress(ctx, ownerID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "refresh challenge progress"))
		return
	}

	byID := make(map[string]model.ChallengeProgress, len(progress))
	for _, p := range progress {
		byID[p.ChallengeID] = p
	}
	resp := challengesResponse{
		Week:       h.challenges.CurrentWeek(),
		Challenges: make([]challengeView, 0, len(challenges)),
	}
	for _, ch := range challenges {
		p := byID[ch.ID]
		resp.Challenges = append(resp.Challenges, challengeView{Challenge: ch, Progress: p.Progress, Completed: p.Completed})
	}
	WriteData(w, http.StatusOK, resp, map[string]string{"leaderboard": "/v1/leaderboard"})
}

// Leaderboard handles GET /v1/leaderboard?limit=N
func (h *ChallengeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, model.NewValidationError([]model.FieldError{{Field: "limit", Message: "limit must be a positive integer"}}))
			return
		}
		limit = n
	}

	entries, err := h.challenges.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "leaderboard"))
		return
	}
	WriteData(w, http.StatusOK, entries, nil)
}
