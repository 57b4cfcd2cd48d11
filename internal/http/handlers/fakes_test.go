package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lifeplan-server/internal/billing"
	"lifeplan-server/internal/domain"
)

type stubSQL struct {
	queryRow func(query string, args ...any) pgx.Row
	query    func(query string, args ...any) (pgx.Rows, error)
}

func (s *stubSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if s.queryRow == nil {
		return SimpleRow{}
	}
	return s.queryRow(query, args...)
}

func (s *stubSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.query == nil {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return s.query(query, args...)
}

type entitlementUpdate struct {
	ID     string
	Status string
	Plan   domain.Tier
}

type stubProfiles struct {
	profile   *domain.Profile
	getErr    error
	entStatus string
	entPlan   domain.Tier
	entErr    error
	updates   []entitlementUpdate
	updateErr error
}

func (s *stubProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.profile == nil || s.profile.ID != id {
		return nil, domain.ErrNotFound
	}
	p := *s.profile
	return &p, nil
}

func (s *stubProfiles) Entitlement(context.Context, string) (string, domain.Tier, error) {
	return s.entStatus, s.entPlan, s.entErr
}

func (s *stubProfiles) UpdateEntitlement(_ context.Context, id string, status string, plan domain.Tier) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, entitlementUpdate{ID: id, Status: status, Plan: plan})
	return nil
}

type stubProvider struct {
	customerID string
	subs       []billing.Subscription
	findErr    error
	listErr    error
	pauseErr   error
	resumeErr  error
	paused     []string
	resumed    []string
}

func (s *stubProvider) FindCustomerByEmail(context.Context, string) (string, error) {
	return s.customerID, s.findErr
}

func (s *stubProvider) ListSubscriptions(context.Context, string) ([]billing.Subscription, error) {
	return s.subs, s.listErr
}

func (s *stubProvider) PauseSubscription(_ context.Context, id string) error {
	if s.pauseErr != nil {
		return s.pauseErr
	}
	s.paused = append(s.paused, id)
	return nil
}

func (s *stubProvider) ResumeSubscription(_ context.Context, id string) error {
	if s.resumeErr != nil {
		return s.resumeErr
	}
	s.resumed = append(s.resumed, id)
	return nil
}

type stubCounter struct {
	counts domain.Counts
	err    error
}

func (s *stubCounter) CountByType(context.Context, string) (domain.Counts, error) {
	return s.counts, s.err
}

type testRows struct {
	TestRowsBase
	rows [][]any
	idx  int
}

func (r *testRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *testRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("unexpected scan args: got %d want %d", len(dest), len(row))
	}
	for i, src := range row {
		switch v := dest[i].(type) {
		case *string:
			*v = src.(string)
		case *int64:
			*v = src.(int64)
		case *int:
			*v = src.(int)
		default:
			return fmt.Errorf("unsupported scan dest %T", dest[i])
		}
	}
	return nil
}

func (r *testRows) Err() error { return nil }

func (r *testRows) Close() {}
