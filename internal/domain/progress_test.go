package domain

import (
	"testing"
	"time"
)

func TestWorkoutProgress(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantXP  int64
	}{
		{name: "half hour", minutes: 30, wantXP: 300},
		{name: "capped long session", minutes: 300, wantXP: 1200},
		{name: "exactly at cap", minutes: 120, wantXP: 1200},
		{name: "negative duration floors at zero", minutes: -10, wantXP: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Workout{Activity: "run", DurationMinutes: tc.minutes}.WorkoutProgress()
			if got.XPGain != tc.wantXP {
				t.Fatalf("XPGain = %d, want %d", got.XPGain, tc.wantXP)
			}
			if got.RewardGain != 25 {
				t.Fatalf("RewardGain = %d, want 25", got.RewardGain)
			}
		})
	}
}

func TestEvolutionLevelFor(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{xp: 0, want: 1},
		{xp: 499, want: 1},
		{xp: 500, want: 2},
		{xp: 1500, want: 3},
		{xp: 3999, want: 3},
		{xp: 4000, want: 4},
		{xp: 10000, want: 5},
		{xp: 250000, want: 5},
	}
	for _, tc := range tests {
		if got := EvolutionLevelFor(tc.xp); got != tc.want {
			t.Fatalf("EvolutionLevelFor(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	sameDayMorning := time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		name    string
		current int
		last    *time.Time
		want    int
	}{
		{name: "first workout ever", current: 0, last: nil, want: 1},
		{name: "same day keeps streak", current: 4, last: &sameDayMorning, want: 4},
		{name: "same day with zero streak normalizes", current: 0, last: &sameDayMorning, want: 1},
		{name: "next day extends", current: 4, last: &yesterday, want: 5},
		{name: "gap resets", current: 9, last: &lastWeek, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextStreak(tc.current, tc.last, now); got != tc.want {
				t.Fatalf("NextStreak(%d, %v) = %d, want %d", tc.current, tc.last, got, tc.want)
			}
		})
	}
}
