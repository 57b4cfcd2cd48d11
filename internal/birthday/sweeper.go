package birthday

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/mailer"
	"lifeplan-server/internal/sqlinline"
)

// Result aggregates one sweep run. Individual send failures are collected as
// messages, never aborting the batch.
type Result struct {
	Processed  int      `json:"processed"`
	EmailsSent int      `json:"emails_sent"`
	Errors     []string `json:"errors,omitempty"`
}

// Sweeper scans profiles whose birth date matches today (server-local time)
// and sends each a greeting. Intended to run once per day.
type Sweeper struct {
	SQL    infra.SQLExecutor
	Mailer mailer.Mailer
	Logger zerolog.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewSweeper(sql infra.SQLExecutor, m mailer.Mailer, logger zerolog.Logger) *Sweeper {
	return &Sweeper{SQL: sql, Mailer: m, Logger: logger, Now: time.Now}
}

type recipient struct {
	id    string
	email string
	name  string
}

// Run executes one sweep and returns the aggregate outcome. Only the initial
// profile scan can fail the run; per-recipient errors are reported in Result.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	now := s.Now()
	rows, err := s.SQL.Query(ctx, sqlinline.QSelectBirthdayProfiles, int(now.Month()), now.Day())
	if err != nil {
		return Result{}, fmt.Errorf("scan birthday profiles: %w", err)
	}
	defer rows.Close()

	var recipients []recipient
	for rows.Next() {
		var rec recipient
		if err := rows.Scan(&rec.id, &rec.email, &rec.name); err != nil {
			return Result{}, fmt.Errorf("scan birthday row: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate birthday rows: %w", err)
	}

	var res Result
	for _, rec := range recipients {
		res.Processed++
		if err := s.Mailer.SendBirthdayGreeting(ctx, rec.email, rec.name); err != nil {
			s.Logger.Error().Err(err).Str("user_id", rec.id).Msg("birthday: send failed")
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", rec.email, err))
			continue
		}
		res.EmailsSent++
	}
	s.Logger.Info().Int("processed", res.Processed).Int("sent", res.EmailsSent).Msg("birthday: sweep finished")
	return res, nil
}
