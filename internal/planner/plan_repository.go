package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is a persisted weekly plan snapshot.
type StoredPlan struct {
	ID        int64     `json:"id"`
	WeekStart time.Time `json:"week_start"`
	PlanData  []byte    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanRepository is a database-backed repository for generated plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a generated plan for the given week.
func (r *PlanRepository) Save(ctx context.Context, weekStart time.Time, planData []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (week_start, plan_data, created_at)
		VALUES (?, ?, ?)`,
		weekStart.Format(ISODate), string(planData), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

// ExistsForWeek reports whether a plan has already been stored for the
// given week start.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, weekStart time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM meal_plans WHERE week_start = ?`,
		weekStart.Format(ISODate),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plan existence: %w", err)
	}
	return count > 0, nil
}

// ListRecent retrieves the N most recently stored plans.
func (r *PlanRepository) ListRecent(ctx context.Context, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_start, plan_data, created_at
		FROM meal_plans
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans: %w", err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var (
			p         StoredPlan
			weekStart string
			planData  string
		)
		if err := rows.Scan(&p.ID, &weekStart, &planData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		p.WeekStart, err = time.Parse(ISODate, weekStart)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored week start %q: %w", weekStart, err)
		}
		p.PlanData = []byte(planData)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plans: %w", err)
	}
	return plans, nil
}
