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

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder resolves addresses through a Nominatim /search endpoint,
// consulting an optional persistent cache first.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	backoff   time.Duration
	cache     ports.GeocodeCache
}

type GeocoderOption func(*NominatimGeocoder)

func WithGeocoderHTTPClient(c *http.Client) GeocoderOption {
	return func(g *NominatimGeocoder) { g.session = c }
}

func WithGeocoderBackoff(d time.Duration) GeocoderOption {
	return func(g *NominatimGeocoder) { g.backoff = d }
}

func WithGeocodeCache(c ports.GeocodeCache) GeocoderOption {
	return func(g *NominatimGeocoder) { g.cache = c }
}

// NewNominatimGeocoder requires a user agent; the public instance rejects anonymous clients.
func NewNominatimGeocoder(baseURL, userAgent string, opts ...GeocoderOption) (*NominatimGeocoder, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("geocoder base url is empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("geocoder user agent is empty")
	}

	g := &NominatimGeocoder{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
		backoff:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// normalizeAddress collapses whitespace and case so equivalent addresses share a cache key.
func normalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	norm := normalizeAddress(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must not be empty")
	}

	if g.cache != nil {
		c, ok, err := g.cache.GetCoordinates(ctx, norm)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache: %w", err)
		}
		if ok {
			return c, nil
		}
	}

	c, err := g.search(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if g.cache != nil {
		if err := g.cache.PutCoordinates(ctx, norm, c); err != nil {
			zap.L().Warn("geocode cache write failed", zap.String("address", norm), zap.Error(err))
		}
	}

	return c, nil
}

func (g *NominatimGeocoder) search(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := g.baseURL + "/search"

	resp, err := doWithRetry(ctx, g.session, g.backoff, func() (*http.Request, error) {
		req, err := newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)

		q := req.URL.Query()
		q.Set("q", address)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ports.ErrAddressNotFound)
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid lat %q", address, decoded[0].Lat)
	}
	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid lon %q", address, decoded[0].Lon)
	}

	c := domain.Coordinates{Lon: lon, Lat: lat}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: coordinates out of range", address)
	}

	return c, nil
}
