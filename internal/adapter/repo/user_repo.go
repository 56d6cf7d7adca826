package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"effortnet/internal/domain"
	"effortnet/internal/infra"
	"effortnet/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// UpsertByWallet fetches the user for the wallet, creating a free-plan
// record on first contact.
func (r *UserRepositoryPG) UpsertByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertUserByWallet, wallet)
	return scanUser(row)
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	return scanUser(row)
}

// GetByWallet fetches a user by wallet address.
func (r *UserRepositoryPG) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByWallet, wallet)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email)
	return scanUser(row)
}

// ConsumeCheck burns one check in a single conditional update. The filter
// carries the quota check, so two concurrent requests can never both slip
// under the limit.
func (r *UserRepositoryPG) ConsumeCheck(ctx context.Context, userID string, freeLimit int) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QConsumeCheck, userID, freeLimit)
	user, err := scanUser(row)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// No row updated: either the user is unknown or the quota is spent.
	if _, lookupErr := r.GetByID(ctx, userID); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, domain.ErrQuotaExceeded
}

// ApplyWorkout credits XP and reward points and advances streak and
// evolution level in one statement.
func (r *UserRepositoryPG) ApplyWorkout(ctx context.Context, userID string, p domain.Progress) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QApplyWorkout, userID, p.XPGain, p.RewardGain)
	return scanUser(row)
}

// SetPlan switches the user's billing plan, optionally resetting the free
// check counter.
func (r *UserRepositoryPG) SetPlan(ctx context.Context, userID string, plan domain.UserPlan, resetChecks bool) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetUserPlan, userID, string(plan), resetChecks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u             domain.User
		email         *string
		stripeCust    *string
		subItem       *string
		lastWorkoutAt *time.Time
	)
	err := row.Scan(&u.ID, &u.Wallet, &email, &u.Plan, &u.FreeChecksUsed, &stripeCust, &subItem,
		&u.XP, &u.Streak, &u.RewardPoints, &u.EvolutionLevel, &lastWorkoutAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if stripeCust != nil {
		u.StripeCustomerID = *stripeCust
	}
	if subItem != nil {
		u.SubscriptionItemID = *subItem
	}
	u.LastWorkoutAt = lastWorkoutAt
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
