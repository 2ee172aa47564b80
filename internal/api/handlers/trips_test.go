package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	got  services.PlanTripRequest
	plan *domain.TripPlan
	err  error
}

func (s *stubPlanner) PlanTrip(ctx context.Context, req services.PlanTripRequest) (*domain.TripPlan, error) {
	s.got = req
	return s.plan, s.err
}

type stubTrips struct {
	plans map[string]*domain.TripPlan
	err   error
}

func (s *stubTrips) SaveTrip(ctx context.Context, plan *domain.TripPlan) error { return nil }

func (s *stubTrips) GetTrip(ctx context.Context, id string) (*domain.TripPlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.plans[id]
	if !ok {
		return nil, ports.ErrTripNotFound
	}
	return p, nil
}

const validBody = `{
	"start": {"lat": 40.7128, "lng": -74.0060, "address": "New York, NY"},
	"pickup": {"lat": 40.7489, "lng": -73.9680},
	"dropoff": {"lat": 34.0522, "lng": -118.2437},
	"current_cycle_used_hours": 12.5,
	"start_datetime": "2025-01-01T08:00:00Z"
}`

func samplePlan() *domain.TripPlan {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return &domain.TripPlan{
		StartTime: start,
		Segments: []domain.DutySegment{
			{Start: start, End: start.Add(2 * time.Hour), Status: domain.Driving, Miles: 110, Note: "Start → Pickup"},
		},
		DailyLogs: []domain.DailyLogEntry{{
			Date:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Totals:  domain.StatusTotals{Driving: 2},
			Miles:   110,
			Remarks: []string{"Start → Pickup"},
		}},
	}
}

func postPlan(h *TripHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/trips/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)
	return rec
}

func TestTripHandlerPlan(t *testing.T) {
	planner := &stubPlanner{plan: samplePlan()}
	h := &TripHandler{Planner: planner}

	rec := postPlan(h, validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, 12.5, planner.got.CycleHoursUsed)
	assert.Equal(t, domain.Coordinates{Lat: 40.7128, Lon: -74.006}, planner.got.Start.Coordinates)
	assert.Equal(t, "New York, NY", planner.got.Start.Address)
	require.NotNil(t, planner.got.StartTime)
	assert.Equal(t, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), *planner.got.StartTime)

	var resp dto.TripPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Segments, 1)
	assert.Equal(t, "D", resp.Segments[0].Status)
	assert.Equal(t, "2025-01-01T08:00:00Z", resp.Segments[0].StartDatetime)
	require.Len(t, resp.DailyLogs, 1)
	assert.Equal(t, "2025-01-01", resp.DailyLogs[0].Date)
	assert.Equal(t, 2.0, resp.DailyLogs[0].Totals.DHours)
	assert.NotNil(t, resp.Warnings)
	assert.Empty(t, resp.ID)
}

func TestTripHandlerPlanDefaults(t *testing.T) {
	planner := &stubPlanner{plan: samplePlan()}
	h := &TripHandler{Planner: planner}

	body := `{"start": {"lat": 1, "lng": 1}, "pickup": {"lat": 2, "lng": 2}, "dropoff": {"address": "Chicago, IL"}}`
	rec := postPlan(h, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Zero(t, planner.got.CycleHoursUsed)
	assert.Nil(t, planner.got.StartTime)
	assert.True(t, planner.got.Dropoff.NeedsGeocoding)
	assert.Equal(t, "Chicago, IL", planner.got.Dropoff.Address)
}

func TestTripHandlerPlanValidation(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"unknown field":    `{"start": {"lat": 1, "lng": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}, "driver": "x"}`,
		"two objects":      validBody + validBody,
		"missing pickup":   `{"start": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}}`,
		"missing lng":      `{"start": {"lat": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}}`,
		"lat out of range": `{"start": {"lat": 95, "lng": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}}`,
		"cycle too high":   `{"start": {"lat": 1, "lng": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}, "current_cycle_used_hours": 71}`,
		"negative cycle":   `{"start": {"lat": 1, "lng": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}, "current_cycle_used_hours": -1}`,
		"bad start time":   `{"start": {"lat": 1, "lng": 1}, "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}, "start_datetime": "tomorrow"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			planner := &stubPlanner{plan: samplePlan()}
			rec := postPlan(&TripHandler{Planner: planner}, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Nil(t, planner.got.StartTime)
		})
	}
}

func TestTripHandlerPlanErrors(t *testing.T) {
	rec := postPlan(&TripHandler{Planner: &stubPlanner{err: domain.InvalidInput("dropoff.address", "no match")}}, validBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "dropoff.address")

	rec = postPlan(&TripHandler{Planner: &stubPlanner{err: errors.New("db exploded")}}, validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestTripHandlerPlanMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	(&TripHandler{}).Plan(rec, httptest.NewRequest(http.MethodGet, "/api/trips/plan", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestTripHandlerGet(t *testing.T) {
	const id = "0b5d9a3e-8f3c-4b8e-9f1a-3f7e2d1c0a99"
	plan := samplePlan()
	plan.ID = id
	h := &TripHandler{Trips: &stubTrips{plans: map[string]*domain.TripPlan{id: plan}}}

	get := func(h *TripHandler, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/trips/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		return rec
	}

	rec := get(h, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TripPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)

	assert.Equal(t, http.StatusNotFound, get(h, "not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "1c9a6a43-2c55-4c71-8d2f-5d0b0b1f7b10").Code)

	failing := &TripHandler{Trips: &stubTrips{err: errors.New("timeout")}}
	assert.Equal(t, http.StatusInternalServerError, get(failing, id).Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
