package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// ScheduleFile is the on-disk form of an engine run. JSON files parse too,
// since JSON is a subset of YAML.
type ScheduleFile struct {
	StartTime      string         `yaml:"start_time"`
	CycleHoursUsed float64        `yaml:"cycle_hours_used"`
	Activities     []activityFile `yaml:"activities"`
}

type activityFile struct {
	Status        string   `yaml:"status"`
	DurationHours *float64 `yaml:"duration_hours"`
	Miles         float64  `yaml:"miles"`
	Note          string   `yaml:"note"`
}

// Schedule is a validated engine input.
type Schedule struct {
	StartTime      time.Time
	CycleHoursUsed float64
	Activities     []domain.Activity
}

// LoadScheduleFile reads and validates a schedule file from path ("-" is stdin).
func LoadScheduleFile(path string) (*Schedule, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load schedule: %w", err)
		}
		defer f.Close()
		r = f
	}

	s, err := ParseSchedule(r)
	if err != nil {
		return nil, fmt.Errorf("load schedule %q: %w", path, err)
	}
	return s, nil
}

// ParseSchedule decodes and validates a schedule document.
// Missing fields and bad statuses are reported as domain.ErrInvalidInput.
func ParseSchedule(r io.Reader) (*Schedule, error) {
	var file ScheduleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	start, err := domain.ParseTimestamp("start_time", file.StartTime)
	if err != nil {
		return nil, err
	}

	activities := make([]domain.Activity, 0, len(file.Activities))
	for i, a := range file.Activities {
		status, err := domain.ParseDutyStatus(a.Status)
		if err != nil {
			return nil, domain.InvalidInput(fmt.Sprintf("activities[%d].status", i), "%v", err)
		}
		if a.DurationHours == nil {
			return nil, domain.InvalidInput(fmt.Sprintf("activities[%d].duration_hours", i), "is required")
		}

		activities = append(activities, domain.Activity{
			Status:        status,
			DurationHours: *a.DurationHours,
			Miles:         a.Miles,
			Note:          a.Note,
		})
	}

	return &Schedule{
		StartTime:      start,
		CycleHoursUsed: file.CycleHoursUsed,
		Activities:     activities,
	}, nil
}

// ParseCoordinates reads "lat,lng".
func ParseCoordinates(field, s string) (domain.Coordinates, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if !ok || latErr != nil || lngErr != nil {
		return domain.Coordinates{}, domain.InvalidInput(field, "want \"lat,lng\", got %q", s)
	}

	c := domain.Coordinates{Lat: lat, Lon: lng}
	if !c.Valid() {
		return domain.Coordinates{}, domain.InvalidInput(field, "coordinates out of range")
	}
	return c, nil
}

// ParseLocation reads a "lat,lng" pair, or treats anything that is not a
// number pair as an address to be geocoded.
func ParseLocation(field, s string) (domain.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Location{}, domain.InvalidInput(field, "must not be empty")
	}

	latStr, lngStr, ok := strings.Cut(s, ",")
	_, latErr := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	_, lngErr := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if !ok || latErr != nil || lngErr != nil {
		return domain.Location{Address: s, NeedsGeocoding: true}, nil
	}

	c, err := ParseCoordinates(field, s)
	if err != nil {
		return domain.Location{}, err
	}
	return domain.Location{Coordinates: c}, nil
}
