package domain

import "time"

// UserPlan enumerates billing plans.
type UserPlan string

const (
	UserPlanFree UserPlan = "free"
	UserPlanPro  UserPlan = "pro"
)

// User represents a caller account. Accounts are created lazily on the
// first scoring request for an unseen wallet.
type User struct {
	ID                 string
	Wallet             string
	Email              string
	Plan               UserPlan
	FreeChecksUsed     int
	StripeCustomerID   string
	SubscriptionItemID string
	XP                 int64
	Streak             int
	RewardPoints       int64
	EvolutionLevel     int
	LastWorkoutAt      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsFree reports whether the user is on the free plan.
func (u User) IsFree() bool {
	return u.Plan == UserPlanFree
}

// FreeChecksRemaining returns how many free checks are left, or nil for
// metered plans where the notion does not apply.
func (u User) FreeChecksRemaining(limit int) *int {
	if !u.IsFree() {
		return nil
	}
	remaining := limit - u.FreeChecksUsed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
