package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"effortnet/internal/adapter/repo"
	"effortnet/internal/domain"
	"effortnet/internal/infra"
)

func main() {
	var (
		walletFlag    string
		emailFlag     string
		planFlag      string
		keepUsageFlag bool
	)

	flag.StringVar(&walletFlag, "wallet", "", "wallet address of the user to update")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, pro)")
	flag.BoolVar(&keepUsageFlag, "keep-usage", false, "preserve the current free check counter instead of resetting it")
	flag.Parse()

	_ = godotenv.Load()

	wallet := strings.TrimSpace(walletFlag)
	email := strings.TrimSpace(emailFlag)
	plan := domain.UserPlan(strings.TrimSpace(strings.ToLower(planFlag)))

	if wallet == "" && email == "" {
		exitWithError(errors.New("either -wallet or -email must be provided"))
	}
	switch plan {
	case domain.UserPlanFree, domain.UserPlanPro:
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	users := repo.NewUserRepository(runner)

	var user *domain.User
	if wallet != "" {
		user, err = users.GetByWallet(ctx, wallet)
	} else {
		user, err = users.GetByEmail(ctx, email)
	}
	if err != nil {
		exitWithError(fmt.Errorf("lookup user: %w", err))
	}

	if err := users.SetPlan(ctx, user.ID, plan, !keepUsageFlag); err != nil {
		exitWithError(fmt.Errorf("set plan: %w", err))
	}

	fmt.Printf("user %s (%s) moved from %s to %s\n", user.ID, firstNonEmpty(user.Wallet, user.Email), user.Plan, plan)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "userplan:", err)
	os.Exit(1)
}
