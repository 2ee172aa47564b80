package domain

import "time"

// StatusTotals accumulates hours per duty status for one log day.
// The record is fixed over the closed status set so totals are always exhaustive.
type StatusTotals struct {
	OffDuty          float64
	SleeperBerth     float64
	Driving          float64
	OnDutyNotDriving float64
}

// Add hours to the bucket for status. Unknown statuses are ignored.
func (t *StatusTotals) Add(status DutyStatus, hours float64) {
	switch status {
	case OffDuty:
		t.OffDuty += hours
	case SleeperBerth:
		t.SleeperBerth += hours
	case Driving:
		t.Driving += hours
	case OnDutyNotDriving:
		t.OnDutyNotDriving += hours
	}
}

// Get returns the hours accumulated for status.
func (t StatusTotals) Get(status DutyStatus) float64 {
	switch status {
	case OffDuty:
		return t.OffDuty
	case SleeperBerth:
		return t.SleeperBerth
	case Driving:
		return t.Driving
	case OnDutyNotDriving:
		return t.OnDutyNotDriving
	}
	return 0
}

func (t StatusTotals) Sum() float64 {
	return t.OffDuty + t.SleeperBerth + t.Driving + t.OnDutyNotDriving
}

// Scale multiplies every bucket by factor.
func (t *StatusTotals) Scale(factor float64) {
	t.OffDuty *= factor
	t.SleeperBerth *= factor
	t.Driving *= factor
	t.OnDutyNotDriving *= factor
}

// Represents the report record for a single UTC calendar day.
// Segments are clipped to the day; Totals and Miles are rounded to
// two decimals and Remarks are the sorted distinct segment notes.
type DailyLogEntry struct {
	Date     time.Time
	Segments []DutySegment
	Totals   StatusTotals
	Miles    float64
	Remarks  []string
}
