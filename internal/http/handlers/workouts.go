package handlers

import (
	"encoding/json"
	"net/http"

	"effortnet/internal/domain"
)

type workoutResponse struct {
	XP             int64 `json:"xp"`
	XPGain         int64 `json:"xpGain"`
	Streak         int   `json:"streak"`
	RewardPoints   int64 `json:"rewardPoints"`
	EvolutionLevel int   `json:"evolutionLevel"`
}

// LogWorkout records a training session and applies XP, reward points,
// streak and evolution progression to the account.
func (a *App) LogWorkout(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "missing user context")
		return
	}
	var workout domain.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if workout.DurationMinutes <= 0 {
		a.error(w, http.StatusBadRequest, "duration_minutes must be positive")
		return
	}

	progress := workout.WorkoutProgress()
	user, err := a.Users.ApplyWorkout(r.Context(), userID, progress)
	if err != nil {
		a.Logger.Error().Err(err).Msg("apply workout failed")
		a.error(w, http.StatusInternalServerError, "failed to apply workout")
		return
	}
	if a.Workouts != nil {
		if err := a.Workouts.Insert(r.Context(), userID, workout, progress.XPGain); err != nil {
			a.Logger.Error().Err(err).Msg("workout log insert failed")
		}
	}

	a.json(w, http.StatusOK, workoutResponse{
		XP:             user.XP,
		XPGain:         progress.XPGain,
		Streak:         user.Streak,
		RewardPoints:   user.RewardPoints,
		EvolutionLevel: user.EvolutionLevel,
	})
}
