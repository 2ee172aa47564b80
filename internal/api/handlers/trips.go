package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCycleHours = 70.0

// TripPlanner is the service behind the trip endpoints.
type TripPlanner interface {
	PlanTrip(ctx context.Context, req services.PlanTripRequest) (*domain.TripPlan, error)
}

type TripHandler struct {
	Planner TripPlanner
	Trips   ports.TripRepository
}

// Plan validates a trip request and returns the planned schedule.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TripPlanRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq, err := toPlanTripRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.Planner.PlanTrip(r.Context(), svcReq)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("plan trip failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripPlanResponse(plan))
}

// Get returns a previously stored trip plan by id.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}

	plan, err := h.Trips.GetTrip(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		zap.L().Error("get trip failed", zap.String("trip_id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripPlanResponse(plan))
}

func toPlanTripRequest(req dto.TripPlanRequest) (services.PlanTripRequest, error) {
	start, err := toLocation("start", req.Start)
	if err != nil {
		return services.PlanTripRequest{}, err
	}
	pickup, err := toLocation("pickup", req.Pickup)
	if err != nil {
		return services.PlanTripRequest{}, err
	}
	dropoff, err := toLocation("dropoff", req.Dropoff)
	if err != nil {
		return services.PlanTripRequest{}, err
	}

	cycle := 0.0
	if req.CurrentCycleUsedHours != nil {
		cycle = *req.CurrentCycleUsedHours
	}
	if cycle < 0 || cycle > maxCycleHours {
		return services.PlanTripRequest{}, fmt.Errorf("current_cycle_used_hours must be between 0 and %g", maxCycleHours)
	}

	out := services.PlanTripRequest{
		Start:          start,
		Pickup:         pickup,
		Dropoff:        dropoff,
		CycleHoursUsed: cycle,
	}

	if req.StartDatetime != nil && strings.TrimSpace(*req.StartDatetime) != "" {
		t, err := domain.ParseTimestamp("start_datetime", *req.StartDatetime)
		if err != nil {
			return services.PlanTripRequest{}, err
		}
		out.StartTime = &t
	}

	return out, nil
}

func toLocation(field string, l *dto.LocationRequest) (domain.Location, error) {
	if l == nil {
		return domain.Location{}, fmt.Errorf("%s is required", field)
	}

	address := strings.TrimSpace(l.Address)
	if l.Lat == nil || l.Lng == nil {
		// Address-only waypoints are geocoded by the planner.
		if address == "" {
			return domain.Location{}, fmt.Errorf("%s needs lat and lng, or an address", field)
		}
		return domain.Location{Address: address, NeedsGeocoding: true}, nil
	}

	loc := domain.Location{
		Coordinates: domain.Coordinates{Lat: *l.Lat, Lon: *l.Lng},
		Address:     address,
	}
	if !loc.Valid() {
		return domain.Location{}, fmt.Errorf("%s coordinates out of range", field)
	}

	return loc, nil
}
