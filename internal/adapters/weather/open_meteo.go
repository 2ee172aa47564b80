package weather

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
)

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature   *float64 `json:"temperature"`
		Windspeed     *float64 `json:"windspeed"`
		Winddirection *float64 `json:"winddirection"`
		Weathercode   *int     `json:"weathercode"`
	} `json:"current_weather"`
}

// OpenMeteoProvider implements WeatherProvider using the keyless Open-Meteo
// forecast API. Weather is display-only, so there is a single attempt with a
// short timeout and no retry.
type OpenMeteoProvider struct {
	session *http.Client
	baseURL string
}

func NewOpenMeteoProvider(baseURL string, client *http.Client) (*OpenMeteoProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("open-meteo base url is empty")
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	return &OpenMeteoProvider{session: client, baseURL: baseURL}, nil
}

// CurrentWeather returns current conditions at the coordinate.
func (p *OpenMeteoProvider) CurrentWeather(
	ctx context.Context,
	at domain.Coordinates,
) (_ *domain.Weather, err error) {
	defer obs.Time(ctx, "weather.CurrentWeather")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/forecast", nil)
	if err != nil {
		return nil, fmt.Errorf("create weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	req.URL.RawQuery = q.Encode()

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	cw := decoded.CurrentWeather
	if cw == nil {
		return nil, errors.New("weather response has no current_weather")
	}

	return &domain.Weather{
		TemperatureC:     cw.Temperature,
		WindspeedKmh:     cw.Windspeed,
		WindDirectionDeg: cw.Winddirection,
		WeatherCode:      cw.Weathercode,
	}, nil
}
