package repo

import (
	"context"

	"effortnet/internal/domain"
	"effortnet/internal/infra"
	"effortnet/internal/sqlinline"
)

// WorkoutRepositoryPG persists individual workout log entries.
type WorkoutRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewWorkoutRepository(sql infra.SQLExecutor) *WorkoutRepositoryPG {
	return &WorkoutRepositoryPG{sql: sql}
}

// Insert records a workout together with the XP it granted.
func (r *WorkoutRepositoryPG) Insert(ctx context.Context, userID string, w domain.Workout, xpGain int64) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertWorkout, userID, w.Activity, w.DurationMinutes, xpGain)
	return err
}
