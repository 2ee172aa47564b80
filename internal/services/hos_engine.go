package services

import (
	"fmt"
	"math"
	"time"
	"trip-planner-service/internal/domain"
)

// FMCSA Part 395 limits for a single property-carrying driver.
const (
	breakAfterDrivingHours = 8.0
	maxDrivingHours        = 11.0
	dutyWindowHours        = 14.0
	cycleLimitHours        = 70.0
	fuelIntervalMiles      = 1000.0

	breakHours    = 0.5
	resetHours    = 10.0
	restartHours  = 34.0
	fuelStopHours = 0.5
)

// Notes attached to inserted segments and the warnings emitted with them.
const (
	NoteBreak        = "30-min break (8-hour rule)"
	NoteDrivingReset = "10-hour reset (11-hour driving limit)"
	NoteWindowReset  = "10-hour reset (14-hour window violated)"
	NoteCycleRestart = "34-hour cycle restart (70-hour limit)"
	NoteFuelStop     = "Fuel stop (30 min)"

	WarnDrivingLimit = "11-hour driving limit reached; 10-hour reset inserted."
	WarnDutyWindow   = "14-hour driving window exceeded; 10-hour reset inserted."
	WarnCycleLimit   = "70-hour/8-day cycle limit reached; 34-hour restart inserted."
)

// hosState is the simulation state of one engine run. It is created per call
// and never shared, so concurrent runs need no locking.
type hosState struct {
	driveSinceBreak float64
	driveInShift    float64
	onDutyInShift   float64
	cycleUsed       float64
	milesSinceFuel  float64

	cursor   time.Time
	segments []domain.DutySegment
	warnings []string
}

// RunDutyRuleEngine expands skeleton activities into a gapless, compliant
// segment timeline starting at startTime.
//
// Limits are checked only at activity boundaries, in a fixed order: 30-minute
// break, 11-hour driving limit, 14-hour window, 70-hour cycle. Each check that
// fires inserts its own off-duty period before the activity. A long activity is
// never split, so a single block may itself exceed a limit.
//
// Rule violations are corrected and reported as warnings. Only malformed input
// returns an error, wrapping domain.ErrInvalidInput; no partial result is returned.
func RunDutyRuleEngine(
	activities []domain.Activity,
	cycleHoursUsed float64,
	startTime time.Time,
) ([]domain.DutySegment, []string, error) {
	if err := validateActivities(activities, cycleHoursUsed, startTime); err != nil {
		return nil, nil, fmt.Errorf("run duty rule engine: %w", err)
	}

	s := &hosState{
		cycleUsed: cycleHoursUsed,
		cursor:    startTime,
		segments:  make([]domain.DutySegment, 0, len(activities)*2),
		warnings:  []string{},
	}

	for _, a := range activities {
		s.enforceLimits(a)
		s.appendSegment(a.Status, a.DurationHours, a.Miles, a.Note)
		s.record(a)
	}

	return s.segments, s.warnings, nil
}

// enforceLimits inserts corrective off-duty periods required before a.
func (s *hosState) enforceLimits(a domain.Activity) {
	if a.Status == domain.Driving && s.driveSinceBreak >= breakAfterDrivingHours {
		s.appendSegment(domain.OffDuty, breakHours, 0, NoteBreak)
		s.driveSinceBreak = 0
	}

	if a.Status == domain.Driving && s.driveInShift >= maxDrivingHours {
		s.appendSegment(domain.OffDuty, resetHours, 0, NoteDrivingReset)
		s.driveInShift = 0
		s.driveSinceBreak = 0
		s.warnings = append(s.warnings, WarnDrivingLimit)
	}

	if a.Status == domain.Driving && s.onDutyInShift >= dutyWindowHours {
		s.appendSegment(domain.OffDuty, resetHours, 0, NoteWindowReset)
		s.onDutyInShift = 0
		s.driveInShift = 0
		s.driveSinceBreak = 0
		s.warnings = append(s.warnings, WarnDutyWindow)
	}

	remaining := cycleLimitHours - s.cycleUsed
	if a.Status.OnDuty() && a.DurationHours > remaining {
		s.appendSegment(domain.OffDuty, restartHours, 0, NoteCycleRestart)
		s.cycleUsed = 0
		s.warnings = append(s.warnings, WarnCycleLimit)
	}
}

// record updates the counters after a has been appended.
func (s *hosState) record(a domain.Activity) {
	switch a.Status {
	case domain.Driving:
		s.driveSinceBreak += a.DurationHours
		s.driveInShift += a.DurationHours
		s.onDutyInShift += a.DurationHours
		s.cycleUsed += a.DurationHours
		s.milesSinceFuel += a.Miles

		if s.milesSinceFuel >= fuelIntervalMiles {
			s.appendSegment(domain.OnDutyNotDriving, fuelStopHours, 0, NoteFuelStop)
			s.onDutyInShift += fuelStopHours
			s.cycleUsed += fuelStopHours
			s.milesSinceFuel = 0
		}

	case domain.OnDutyNotDriving:
		s.onDutyInShift += a.DurationHours
		s.cycleUsed += a.DurationHours

	case domain.OffDuty:
		// An ordinary off-duty block ends the shift but not the cycle.
		s.driveInShift = 0
		s.onDutyInShift = 0
		s.driveSinceBreak = 0
	}
}

func (s *hosState) appendSegment(status domain.DutyStatus, hours, miles float64, note string) {
	end := s.cursor.Add(hoursToDuration(hours))
	s.segments = append(s.segments, domain.DutySegment{
		Start:  s.cursor,
		End:    end,
		Status: status,
		Miles:  miles,
		Note:   note,
	})
	s.cursor = end
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

func validateActivities(activities []domain.Activity, cycleHoursUsed float64, startTime time.Time) error {
	if startTime.IsZero() {
		return domain.InvalidInput("start_time", "is required")
	}

	if math.IsNaN(cycleHoursUsed) || math.IsInf(cycleHoursUsed, 0) {
		return domain.InvalidInput("cycle_hours_used", "must be a finite number")
	}

	for i, a := range activities {
		switch a.Status {
		case domain.Driving, domain.OnDutyNotDriving, domain.OffDuty:
		case "":
			return domain.InvalidInput(fmt.Sprintf("activities[%d].status", i), "is required")
		default:
			return domain.InvalidInput(fmt.Sprintf("activities[%d].status", i), "unsupported status %q", a.Status)
		}

		if !finiteNonNegative(a.DurationHours) {
			return domain.InvalidInput(fmt.Sprintf("activities[%d].duration_hours", i), "must be a non-negative number, got %v", a.DurationHours)
		}

		if !finiteNonNegative(a.Miles) {
			return domain.InvalidInput(fmt.Sprintf("activities[%d].miles", i), "must be a non-negative number, got %v", a.Miles)
		}
	}

	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
