package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"go.uber.org/zap"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// OSRMRouteProvider implements RouteProvider using an OSRM server.
//
// It coordinates:
//   - Persistent route caching keyed by waypoints
//   - External API calls with retry/backoff
//   - Unit conversion (meters → miles, seconds → hours)
//
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	session *http.Client
	baseURL string
	profile string
	backoff time.Duration
	cache   ports.RouteCache
}

type Option func(*OSRMRouteProvider)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OSRMRouteProvider) { o.session = c }
}

// WithBackoff sets the initial retry delay.
func WithBackoff(d time.Duration) Option {
	return func(o *OSRMRouteProvider) { o.backoff = d }
}

// WithCache enables the persistent route cache.
func WithCache(c ports.RouteCache) Option {
	return func(o *OSRMRouteProvider) { o.cache = c }
}

func NewOSRMRouteProvider(baseURL string, opts ...Option) (*OSRMRouteProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	provider := &OSRMRouteProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: "driving",
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// GetRoute returns the route through waypoints, consulting the cache first.
func (o *OSRMRouteProvider) GetRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("get OSRM route: need at least 2 waypoints, got %d", len(waypoints))
	}
	for i, w := range waypoints {
		if !w.Valid() {
			return nil, fmt.Errorf("get OSRM route: waypoint %d out of range: lat=%v lon=%v", i, w.Lat, w.Lon)
		}
	}

	key := o.cacheKey(waypoints)

	// Check persistent route cache before issuing external API calls.
	if o.cache != nil {
		cached, ok, err := o.cache.GetRoute(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("OSRM get route cache: %w", err)
		}
		if ok {
			return cached, nil
		}
	}

	route, err := o.fetchRoute(ctx, waypoints)
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w", err)
	}

	if o.cache != nil {
		if err := o.cache.PutRoute(ctx, key, route); err != nil {
			zap.L().Warn("route cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return route, nil
}

// cacheKey normalizes waypoints to ~0.1m precision so equal trips share a key.
func (o *OSRMRouteProvider) cacheKey(waypoints []domain.Coordinates) string {
	return o.profile + ":" + coordPath(waypoints)
}

// coordPath formats waypoints as OSRM expects: lon,lat;lon,lat;...
func coordPath(waypoints []domain.Coordinates) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lon, 'f', 6, 64)+","+strconv.FormatFloat(w.Lat, 'f', 6, 64))
	}
	return strings.Join(parts, ";")
}

func (o *OSRMRouteProvider) fetchRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (*domain.Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, coordPath(waypoints))

	resp, err := doWithRetry(ctx, o.session, o.backoff, func() (*http.Request, error) {
		req, err := newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("geometries", "geojson")
		q.Set("overview", "full")
		q.Set("steps", "false")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" {
		return nil, fmt.Errorf("OSRM error: %s %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return nil, errors.New("OSRM returned no routes")
	}

	r := decoded.Routes[0]
	if len(r.Legs) != len(waypoints)-1 {
		return nil, fmt.Errorf("expected %d legs; got %d", len(waypoints)-1, len(r.Legs))
	}

	geometry := make([]domain.Coordinates, 0, len(r.Geometry.Coordinates))
	for i, c := range r.Geometry.Coordinates {
		if len(c) != 2 {
			return nil, fmt.Errorf("invalid coordinate format at geometry index %d", i)
		}
		geometry = append(geometry, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}

	route := &domain.Route{
		Geometry: geometry,
		Legs:     make([]domain.RouteLeg, 0, len(r.Legs)),
	}

	// Totals are summed from legs so they always agree with the skeleton.
	var meters, seconds float64
	for _, leg := range r.Legs {
		route.Legs = append(route.Legs, domain.RouteLeg{
			DistanceMiles: domain.MetersToMiles(leg.Distance),
			DurationHours: leg.Duration / 3600,
		})
		meters += leg.Distance
		seconds += leg.Duration
	}
	route.TotalDistanceMiles = domain.MetersToMiles(meters)
	route.TotalDurationHours = seconds / 3600

	return route, nil
}
