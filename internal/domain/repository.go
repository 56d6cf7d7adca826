package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	UpsertByWallet(ctx context.Context, wallet string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByWallet(ctx context.Context, wallet string) (*User, error)
	// ConsumeCheck increments the user's check counter and returns the
	// updated user in a single atomic statement. It returns
	// ErrQuotaExceeded when a free-plan user has no checks left.
	ConsumeCheck(ctx context.Context, userID string, freeLimit int) (*User, error)
	ApplyWorkout(ctx context.Context, userID string, p Progress) (*User, error)
	SetPlan(ctx context.Context, userID string, plan UserPlan, resetChecks bool) error
}

// ScoreEvent is the persisted record of one scoring call.
type ScoreEvent struct {
	UserID    string
	URL       string
	Platform  Platform
	Score     int
	Fraud     bool
	Tags      []string
	Country   string
	LatencyMS int
	CreatedAt time.Time
}

// ScoreStats summarizes persisted scoring activity.
type ScoreStats struct {
	TotalChecks int64
	FraudCount  int64
	Checks24h   int64
	Fraud24h    int64
}

// ScoreEventRepository persists scoring outcomes for analytics. Failures
// here never surface to the scoring caller.
type ScoreEventRepository interface {
	Insert(ctx context.Context, ev *ScoreEvent) error
	Summary(ctx context.Context) (*ScoreStats, error)
}
