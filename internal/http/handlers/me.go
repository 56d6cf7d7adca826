package handlers

import (
	"net/http"
	"time"
)

type userProfileDTO struct {
	ID                  string     `json:"id"`
	Wallet              string     `json:"wallet"`
	Email               string     `json:"email,omitempty"`
	Plan                string     `json:"plan"`
	FreeChecksUsed      int        `json:"freeChecksUsed"`
	FreeChecksRemaining *int       `json:"freeChecksRemaining"`
	XP                  int64      `json:"xp"`
	Streak              int        `json:"streak"`
	RewardPoints        int64      `json:"rewardPoints"`
	EvolutionLevel      int        `json:"evolutionLevel"`
	LastWorkoutAt       *time.Time `json:"lastWorkoutAt,omitempty"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "user not found")
		return
	}
	a.json(w, http.StatusOK, userProfileDTO{
		ID:                  user.ID,
		Wallet:              user.Wallet,
		Email:               user.Email,
		Plan:                string(user.Plan),
		FreeChecksUsed:      user.FreeChecksUsed,
		FreeChecksRemaining: user.FreeChecksRemaining(a.Cfg.FreeCheckLimit),
		XP:                  user.XP,
		Streak:              user.Streak,
		RewardPoints:        user.RewardPoints,
		EvolutionLevel:      user.EvolutionLevel,
		LastWorkoutAt:       user.LastWorkoutAt,
	})
}
