package repositories

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitSchema(ctx, conn))
	require.NoError(t, InitSchema(ctx, conn))

	var tables int
	err = conn.QueryRowContext(ctx, `
	SELECT COUNT(*)
    FROM sqlite_master
    WHERE type = 'table' AND name IN ('route_cache', 'geocode_cache');
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestInitSchemaNilDB(t *testing.T) {
	assert.Error(t, InitSchema(context.Background(), nil))
	assert.Error(t, InitPostgresSchema(context.Background(), nil))
}

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestPostgresTripRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitPostgresSchema(ctx, conn))

	repo := NewPostgresTripRepository(conn)

	_, err = repo.GetTrip(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, ports.ErrTripNotFound))

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	temp := 4.5
	plan := &domain.TripPlan{
		ID:             uuid.NewString(),
		CreatedAt:      start.Add(-time.Hour),
		StartTime:      start,
		CycleHoursUsed: 12,
		Route:          &domain.Route{TotalDistanceMiles: 100, Legs: []domain.RouteLeg{{DistanceMiles: 100, DurationHours: 2}}},
		Stops:          []domain.Stop{},
		Segments: []domain.DutySegment{
			{Start: start, End: start.Add(2 * time.Hour), Status: domain.Driving, Miles: 100, Note: "leg"},
		},
		DailyLogs: []domain.DailyLogEntry{{
			Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Segments: []domain.DutySegment{},
			Totals:   domain.StatusTotals{Driving: 2},
			Miles:    100,
			Remarks:  []string{"leg"},
		}},
		StartWeather: &domain.Weather{TemperatureC: &temp},
		Warnings:     []string{},
	}

	require.NoError(t, repo.SaveTrip(ctx, plan))
	require.NoError(t, repo.SaveTrip(ctx, plan), "saving twice upserts")

	got, err := repo.GetTrip(ctx, plan.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(plan, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgresTripRepositoryRejectsMissingID(t *testing.T) {
	repo := &PostgresTripRepository{}
	assert.Error(t, repo.SaveTrip(context.Background(), &domain.TripPlan{}))
}
