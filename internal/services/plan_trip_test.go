package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWeather struct {
	mu    sync.Mutex
	temps map[domain.Coordinates]float64
	err   error
	calls int
}

func (f *fakeWeather) CurrentWeather(ctx context.Context, at domain.Coordinates) (*domain.Weather, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	temp := f.temps[at]
	return &domain.Weather{TemperatureC: &temp}, nil
}

type fakeTrips struct {
	saved []*domain.TripPlan
	err   error
}

func (f *fakeTrips) SaveTrip(ctx context.Context, plan *domain.TripPlan) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, plan)
	return nil
}

func (f *fakeTrips) GetTrip(ctx context.Context, id string) (*domain.TripPlan, error) {
	for _, p := range f.saved {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeEvents struct {
	published []string
	err       error
}

func (f *fakeEvents) PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) error {
	f.published = append(f.published, plan.ID)
	return f.err
}

var (
	tripStart   = domain.Location{Coordinates: domain.Coordinates{Lon: -74.0060, Lat: 40.7128}}
	tripPickup  = domain.Location{Coordinates: domain.Coordinates{Lon: -75.1652, Lat: 39.9526}}
	tripDropoff = domain.Location{Coordinates: domain.Coordinates{Lon: -87.6298, Lat: 41.8781}}
)

func fixedNow() time.Time { return time.Date(2025, 5, 20, 15, 42, 0, 0, time.UTC) }

func newTestPlanner(routes *routing.MockRouteProvider) *TripPlanner {
	return &TripPlanner{Routes: routes, Log: zap.NewNop(), Now: fixedNow}
}

func TestPlanTrip(t *testing.T) {
	routes := routing.NewMockRouteProvider(
		domain.RouteLeg{DistanceMiles: 95, DurationHours: 2},
		domain.RouteLeg{DistanceMiles: 760, DurationHours: 12},
	)
	planner := newTestPlanner(routes)

	start := time.Date(2025, 5, 21, 6, 0, 0, 0, time.UTC)
	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start:          tripStart,
		Pickup:         tripPickup,
		Dropoff:        tripDropoff,
		CycleHoursUsed: 10,
		StartTime:      &start,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, routes.Calls)
	assert.Same(t, routes.Route, plan.Route)
	assert.Equal(t, start, plan.StartTime)
	assert.Equal(t, fixedNow(), plan.CreatedAt)
	assert.Empty(t, plan.ID, "plans are only given an id when stored")

	// D2, ON1, D12, ON1: the second leg starts with 2h driving, 3h on duty.
	require.Len(t, plan.Segments, 4)
	assert.Equal(t, start, plan.Segments[0].Start)
	assert.Empty(t, plan.Warnings)

	require.NotEmpty(t, plan.DailyLogs)
	assert.Equal(t, "2025-05-21", plan.DailyLogs[0].Date.Format("2006-01-02"))
	assert.Empty(t, plan.Stops)
	assert.Nil(t, plan.StartWeather)
}

func TestPlanTripInsertsRestAndStops(t *testing.T) {
	routes := routing.NewMockRouteProvider(
		domain.RouteLeg{DistanceMiles: 600, DurationHours: 10},
		domain.RouteLeg{DistanceMiles: 700, DurationHours: 11},
	)

	plan, err := newTestPlanner(routes).PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	notes := make([]string, 0, len(plan.Segments))
	for _, s := range plan.Segments {
		notes = append(notes, s.Note)
	}
	assert.Equal(t, []string{
		NoteToPickup,
		NotePickup,
		NoteBreak,
		NoteToDropoff,
		NoteFuelStop,
		NoteDropoff,
	}, notes)

	require.Len(t, plan.Stops, 1)
	assert.Equal(t, domain.FuelStop, plan.Stops[0].Type)
	assert.Equal(t, "Fuel Stop 0", plan.Stops[0].Label)
}

func TestPlanTripDefaultStartTime(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 0.5})

	plan, err := newTestPlanner(routes).PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC), plan.StartTime)
}

func TestPlanTripRoutingFailure(t *testing.T) {
	routes := &routing.MockRouteProvider{Err: errors.New("upstream timeout")}
	trips := &fakeTrips{}
	planner := newTestPlanner(routes)
	planner.Trips = trips

	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Routing failed: upstream timeout"}, plan.Warnings)
	assert.Nil(t, plan.Route)
	assert.Empty(t, plan.Segments)
	assert.Empty(t, plan.DailyLogs)
	assert.Empty(t, trips.saved)
}

func TestPlanTripNilRouteProvider(t *testing.T) {
	_, err := (&TripPlanner{}).PlanTrip(context.Background(), PlanTripRequest{})
	require.Error(t, err)
}

func TestPlanTripWeather(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})
	weather := &fakeWeather{temps: map[domain.Coordinates]float64{
		tripStart.Coordinates:   4.5,
		tripDropoff.Coordinates: 12,
	}}
	planner := newTestPlanner(routes)
	planner.Weather = weather

	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, weather.calls)
	require.NotNil(t, plan.StartWeather)
	require.NotNil(t, plan.DropoffWeather)
	assert.Equal(t, 4.5, *plan.StartWeather.TemperatureC)
	assert.Equal(t, 12.0, *plan.DropoffWeather.TemperatureC)
}

func TestPlanTripWeatherFailureIsIgnored(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})
	planner := newTestPlanner(routes)
	planner.Weather = &fakeWeather{err: errors.New("503")}

	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	assert.Nil(t, plan.StartWeather)
	assert.Nil(t, plan.DropoffWeather)
	assert.NotEmpty(t, plan.Segments)
}

func TestPlanTripPersistsAndPublishes(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})
	trips := &fakeTrips{}
	events := &fakeEvents{err: errors.New("broker down")}
	planner := newTestPlanner(routes)
	planner.Trips = trips
	planner.Events = events

	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err, "publish failures must not fail planning")

	_, err = uuid.Parse(plan.ID)
	require.NoError(t, err)
	require.Len(t, trips.saved, 1)
	assert.Same(t, plan, trips.saved[0])
	assert.Equal(t, []string{plan.ID}, events.published)
}

func TestPlanTripSaveFailureClearsID(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})
	events := &fakeEvents{}
	planner := newTestPlanner(routes)
	planner.Trips = &fakeTrips{err: errors.New("connection refused")}
	planner.Events = events

	plan, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start: tripStart, Pickup: tripPickup, Dropoff: tripDropoff,
	})
	require.NoError(t, err)

	assert.Empty(t, plan.ID)
	assert.Empty(t, events.published)
}

type fakeGeocoder map[string]domain.Coordinates

func (f fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	c, ok := f[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

func TestPlanTripGeocodesAddresses(t *testing.T) {
	routes := &recordingRoutes{MockRouteProvider: routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})}
	planner := &TripPlanner{Routes: routes, Log: zap.NewNop(), Now: fixedNow}
	planner.Geocoder = fakeGeocoder{"Chicago, IL": tripDropoff.Coordinates}

	_, err := planner.PlanTrip(context.Background(), PlanTripRequest{
		Start:   tripStart,
		Pickup:  tripPickup,
		Dropoff: domain.Location{Address: "Chicago, IL", NeedsGeocoding: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Coordinates{
		tripStart.Coordinates,
		tripPickup.Coordinates,
		tripDropoff.Coordinates,
	}, routes.waypoints)
}

func TestPlanTripGeocodingFailures(t *testing.T) {
	routes := routing.NewMockRouteProvider(domain.RouteLeg{DistanceMiles: 10, DurationHours: 1})
	req := PlanTripRequest{
		Start:   domain.Location{Address: "Atlantis", NeedsGeocoding: true},
		Pickup:  tripPickup,
		Dropoff: tripDropoff,
	}

	// No geocoder configured.
	_, err := newTestPlanner(routes).PlanTrip(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)

	planner := newTestPlanner(routes)
	planner.Geocoder = fakeGeocoder{}
	_, err = planner.PlanTrip(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
	assert.Zero(t, routes.Calls, "routing must not run for unresolved waypoints")
}

type recordingRoutes struct {
	*routing.MockRouteProvider
	waypoints []domain.Coordinates
}

func (r *recordingRoutes) GetRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error) {
	r.waypoints = waypoints
	return r.MockRouteProvider.GetRoute(ctx, waypoints)
}
