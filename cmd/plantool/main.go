package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lifeplan-server/internal/adapter/repo"
	"lifeplan-server/internal/domain"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/sqlinline"
)

// plantool applies a manual subscription override straight to the profile
// replica, mirroring the admin endpoint for shell use. The override diverges
// from real billing state until the next authoritative revalidation.
func main() {
	var (
		idFlag     string
		emailFlag  string
		tierFlag   string
		statusFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&tierFlag, "tier", "premium", "tier to assign (basic, premium)")
	flag.StringVar(&statusFlag, "status", domain.StatusActive, "subscription status to write")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	tier := domain.ParseTier(strings.ToLower(strings.TrimSpace(tierFlag)))
	if tier == domain.TierNone {
		exitWithError(fmt.Errorf("unsupported tier %q", tierFlag))
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

	logger := infra.NewLogger("cli").With().Str("cmd", "plantool").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	profiles := repo.NewProfileRepository(runner)

	if userID == "" {
		row := runner.QueryRow(ctx, sqlinline.QSelectProfileIDByEmail, email)
		if err := row.Scan(&userID); err != nil {
			exitWithError(fmt.Errorf("lookup by email %q failed: %w", email, err))
		}
	}

	profile, err := profiles.GetByID(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("load profile %s: %w", userID, err))
	}

	if err := profiles.UpdateEntitlement(ctx, profile.ID, statusFlag, tier); err != nil {
		exitWithError(fmt.Errorf("update entitlement: %w", err))
	}

	out := map[string]string{
		"id":     profile.ID,
		"email":  profile.Email,
		"tier":   string(tier),
		"status": statusFlag,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "plantool: %v\n", err)
	os.Exit(1)
}
