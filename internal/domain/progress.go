package domain

import "time"

// Workout is a single logged training session.
type Workout struct {
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Progress is the XP and reward-point delta earned by a workout.
type Progress struct {
	XPGain     int64
	RewardGain int64
}

const (
	xpPerMinute      = 10
	maxWorkoutXP     = 1200
	rewardPerWorkout = 25
)

// Evolution level thresholds, cumulative XP.
var evolutionThresholds = []int64{0, 500, 1500, 4000, 10000}

// WorkoutProgress converts a workout into XP and reward points. Pure.
func (w Workout) WorkoutProgress() Progress {
	xp := int64(w.DurationMinutes) * xpPerMinute
	if xp > maxWorkoutXP {
		xp = maxWorkoutXP
	}
	if xp < 0 {
		xp = 0
	}
	return Progress{XPGain: xp, RewardGain: rewardPerWorkout}
}

// EvolutionLevelFor returns the evolution level reached at the given
// cumulative XP. Levels start at 1.
func EvolutionLevelFor(xp int64) int {
	level := 1
	for i, threshold := range evolutionThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// NextStreak continues, keeps, or resets a daily streak given the previous
// workout time. Two workouts on the same calendar day keep the streak; a
// workout on the following day extends it; anything older resets to 1.
func NextStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	lastDay := last.UTC().Truncate(24 * time.Hour)
	nowDay := now.UTC().Truncate(24 * time.Hour)
	switch nowDay.Sub(lastDay) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}
