package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default departure hour (UTC) when a request gives no start time.
const defaultStartHour = 8

type PlanTripRequest struct {
	Start          domain.Location
	Pickup         domain.Location
	Dropoff        domain.Location
	CycleHoursUsed float64
	StartTime      *time.Time
}

// TripPlanner orchestrates route fetch, duty-rule simulation, daily log
// partitioning and stop placement. Geocoder, Weather, Trips and Events are optional.
type TripPlanner struct {
	Routes   ports.RouteProvider
	Geocoder ports.Geocoder
	Weather  ports.WeatherProvider
	Trips    ports.TripRepository
	Events   ports.TripEventPublisher
	Log      *zap.Logger
	Now      func() time.Time
}

func (p *TripPlanner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *TripPlanner) log() *zap.Logger {
	if p.Log != nil {
		return p.Log
	}
	return zap.L()
}

// PlanTrip produces a compliant schedule and daily logs for one trip.
//
// A routing failure is not an error: the plan comes back with a
// "Routing failed" warning and no schedule. Persistence and event publishing
// are best effort. Only malformed input or a missing route provider fails.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.PlanTrip")(&err)

	if p.Routes == nil {
		return nil, fmt.Errorf("plan trip: route provider is nil")
	}

	log := p.log().With(zap.String("req_id", obs.RequestID(ctx)))

	if err := p.resolveLocations(ctx, &req); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	plan := &domain.TripPlan{
		CreatedAt:      p.now().UTC(),
		StartTime:      p.resolveStartTime(req.StartTime),
		CycleHoursUsed: req.CycleHoursUsed,
		Stops:          []domain.Stop{},
		Segments:       []domain.DutySegment{},
		DailyLogs:      []domain.DailyLogEntry{},
		Warnings:       []string{},
	}

	waypoints := []domain.Coordinates{req.Start.Coordinates, req.Pickup.Coordinates, req.Dropoff.Coordinates}
	route, err := p.Routes.GetRoute(ctx, waypoints)
	if err != nil {
		log.Warn("routing failed", zap.Error(err))
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("Routing failed: %v", err))
		return plan, nil
	}
	plan.Route = route

	plan.StartWeather, plan.DropoffWeather = p.fetchWeather(ctx, log, req.Start.Coordinates, req.Dropoff.Coordinates)

	segments, warnings, err := RunDutyRuleEngine(BuildSkeleton(route), req.CycleHoursUsed, plan.StartTime)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	plan.Segments = segments
	plan.Warnings = append(plan.Warnings, warnings...)

	logs, err := RunDailyLogPartitioner(segments)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	plan.DailyLogs = logs
	plan.Stops = PlaceStops(segments, route.Geometry)

	p.persist(ctx, log, plan)

	log.Info("trip planned",
		zap.String("trip_id", plan.ID),
		zap.Int("segments", len(plan.Segments)),
		zap.Int("days", len(plan.DailyLogs)),
		zap.Int("warnings", len(plan.Warnings)),
	)

	return plan, nil
}

// resolveLocations fills in coordinates for address-only waypoints.
func (p *TripPlanner) resolveLocations(ctx context.Context, req *PlanTripRequest) error {
	for _, w := range []struct {
		field string
		loc   *domain.Location
	}{
		{"start", &req.Start},
		{"pickup", &req.Pickup},
		{"dropoff", &req.Dropoff},
	} {
		if !w.loc.NeedsGeocoding {
			continue
		}
		if p.Geocoder == nil {
			return domain.InvalidInput(w.field, "lat and lng are required when geocoding is disabled")
		}

		c, err := p.Geocoder.Geocode(ctx, w.loc.Address)
		if errors.Is(err, ports.ErrAddressNotFound) {
			return domain.InvalidInput(w.field+".address", "no match for %q", w.loc.Address)
		}
		if err != nil {
			return fmt.Errorf("geocode %s: %w", w.field, err)
		}

		w.loc.Coordinates = c
		w.loc.NeedsGeocoding = false
	}

	return nil
}

func (p *TripPlanner) resolveStartTime(requested *time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return *requested
	}

	y, m, d := p.now().UTC().Date()
	return time.Date(y, m, d, defaultStartHour, 0, 0, 0, time.UTC)
}

// fetchWeather looks up both endpoints concurrently. Failures only drop the
// annotation; they never fail the trip.
func (p *TripPlanner) fetchWeather(
	ctx context.Context,
	log *zap.Logger,
	start, dropoff domain.Coordinates,
) (startWeather, dropoffWeather *domain.Weather) {
	if p.Weather == nil {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	lookup := func(name string, at domain.Coordinates, out **domain.Weather) {
		g.Go(func() error {
			w, err := p.Weather.CurrentWeather(gctx, at)
			if err != nil {
				log.Warn("weather lookup failed", zap.String("at", name), zap.Error(err))
				return nil
			}
			*out = w
			return nil
		})
	}
	lookup("start", start, &startWeather)
	lookup("dropoff", dropoff, &dropoffWeather)
	_ = g.Wait()

	return startWeather, dropoffWeather
}

// persist stores plan and announces it. The id is only kept when the save succeeds.
func (p *TripPlanner) persist(ctx context.Context, log *zap.Logger, plan *domain.TripPlan) {
	if p.Trips == nil {
		return
	}

	plan.ID = uuid.NewString()
	if err := p.Trips.SaveTrip(ctx, plan); err != nil {
		log.Error("save trip failed", zap.String("trip_id", plan.ID), zap.Error(err))
		plan.ID = ""
		return
	}

	if p.Events == nil {
		return
	}
	if err := p.Events.PublishTripPlanned(ctx, plan); err != nil {
		log.Warn("publish trip planned failed", zap.String("trip_id", plan.ID), zap.Error(err))
	}
}
