package domain

import (
	"fmt"
	"strings"
	"time"
)

// DutyStatus is one of the four ELD duty statuses.
type DutyStatus string

const (
	OffDuty          DutyStatus = "OFF"
	SleeperBerth     DutyStatus = "SB"
	Driving          DutyStatus = "D"
	OnDutyNotDriving DutyStatus = "ON"
)

// Valid reports whether s is one of the known duty statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case OffDuty, SleeperBerth, Driving, OnDutyNotDriving:
		return true
	}
	return false
}

// OnDuty reports whether time in this status counts against duty limits.
func (s DutyStatus) OnDuty() bool {
	return s == Driving || s == OnDutyNotDriving
}

// Parse a duty status from its wire code ("OFF", "SB", "D", "ON")
// or its long name ("off_duty", "sleeper_berth", "driving", "on_duty").
func ParseDutyStatus(s string) (DutyStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "off_duty":
		return OffDuty, nil
	case "sb", "sleeper_berth":
		return SleeperBerth, nil
	case "d", "driving":
		return Driving, nil
	case "on", "on_duty":
		return OnDutyNotDriving, nil
	}
	return "", fmt.Errorf("unknown duty status %q", s)
}

// Represents a planned, un-expanded block of work (a drive leg or a fixed
// on-duty stop) before duty rules insert any rest periods.
type Activity struct {
	Status        DutyStatus
	DurationHours float64
	Miles         float64
	Note          string
}

// Represents a timestamped, status-labeled interval of the compliant timeline.
type DutySegment struct {
	Start  time.Time
	End    time.Time
	Status DutyStatus
	Miles  float64
	Note   string
}

// Duration of the segment as wall-clock time.
func (s DutySegment) Duration() time.Duration { return s.End.Sub(s.Start) }

// Hours of the segment as a float.
func (s DutySegment) Hours() float64 { return s.Duration().Hours() }
