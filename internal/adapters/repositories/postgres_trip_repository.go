package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// Postgres-backed implementation of the TripRepository port.
// The full plan is stored as JSONB; summary columns support listing.
type PostgresTripRepository struct{ DB *sql.DB }

func NewPostgresTripRepository(db *sql.DB) *PostgresTripRepository {
	return &PostgresTripRepository{DB: db}
}

// Persist a planned trip, replacing any plan with the same id.
func (s *PostgresTripRepository) SaveTrip(ctx context.Context, plan *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "trips.pg.SaveTrip")(&err)

	if s.DB == nil {
		return errors.New("postgres trip repository: DB is nil")
	}
	if plan == nil {
		return errors.New("save trip: plan is nil")
	}
	if strings.TrimSpace(plan.ID) == "" {
		return errors.New("save trip: plan id must not be empty")
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save trip: encode plan: %w", err)
	}

	query := `
	INSERT INTO trip_plans (
		id,
		created_at,
		start_time,
		cycle_hours_used,
		day_count,
		warning_count,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET payload = EXCLUDED.payload,
		day_count = EXCLUDED.day_count,
		warning_count = EXCLUDED.warning_count;
	`
	_, err = s.DB.ExecContext(ctx, query,
		plan.ID,
		plan.CreatedAt,
		plan.StartTime,
		plan.CycleHoursUsed,
		len(plan.DailyLogs),
		len(plan.Warnings),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save trip id=%s: %w", plan.ID, err)
	}

	return nil
}

// Return the stored plan for id.
func (s *PostgresTripRepository) GetTrip(ctx context.Context, id string) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.pg.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres trip repository: DB is nil")
	}

	query := `
	SELECT payload
	FROM trip_plans
	WHERE id = $1;
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip id=%s: %w", id, err)
	}

	var plan domain.TripPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("get trip id=%s: decode plan: %w", id, err)
	}

	return &plan, nil
}
