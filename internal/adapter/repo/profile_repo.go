package repo

import (
	"context"
	"database/sql"

	"lifeplan-server/internal/domain"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileRepository and
// domain.PlanCounter on top of the audited SQL runner.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(executor infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: executor}
}

// GetByID fetches a profile by UUID.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProfileByID, id)

	var (
		p         domain.Profile
		birthDate sql.NullTime
		status    sql.NullString
		plan      sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &birthDate, &status, &plan, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if birthDate.Valid {
		d := birthDate.Time
		p.BirthDate = &d
	}
	p.SubscriptionStatus = status.String
	p.SubscriptionPlan = domain.ParseTier(plan.String)
	return &p, nil
}

// Entitlement reads only the replicated subscription columns.
func (r *ProfileRepositoryPG) Entitlement(ctx context.Context, id string) (string, domain.Tier, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProfileEntitlement, id)

	var status, plan sql.NullString
	if err := row.Scan(&status, &plan); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.TierNone, domain.ErrNotFound
		}
		return "", domain.TierNone, err
	}
	return status.String, domain.ParseTier(plan.String), nil
}

// UpdateEntitlement writes the subscription columns back.
func (r *ProfileRepositoryPG) UpdateEntitlement(ctx context.Context, id string, status string, plan domain.Tier) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateProfileEntitlement, id, status, string(plan))
	return err
}

// CountByType returns the caller's existing plan counts per resource type.
func (r *ProfileRepositoryPG) CountByType(ctx context.Context, userID string) (domain.Counts, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QCountPlansByType, userID)

	var counts domain.Counts
	if err := row.Scan(&counts.Individual, &counts.Familiar, &counts.Filho); err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}

var (
	_ domain.ProfileRepository = (*ProfileRepositoryPG)(nil)
	_ domain.PlanCounter       = (*ProfileRepositoryPG)(nil)
)
