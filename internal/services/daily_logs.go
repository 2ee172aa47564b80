package services

import (
	"fmt"
	"math"
	"slices"
	"time"
	"trip-planner-service/internal/domain"
)

const hoursPerDay = 24.0

// RunDailyLogPartitioner clips a segment timeline at UTC midnights and
// produces one DailyLogEntry per calendar day from the first segment's start
// through the last segment's end, inclusive. Days no segment touches still get
// an entry with zero totals.
//
// Miles of a clipped segment are allocated in proportion to the clipped time.
// A day whose totals exceed 24 hours through float drift is scaled back to 24.
func RunDailyLogPartitioner(segments []domain.DutySegment) ([]domain.DailyLogEntry, error) {
	if len(segments) == 0 {
		return []domain.DailyLogEntry{}, nil
	}

	for i, seg := range segments {
		if !seg.Status.Valid() {
			return nil, domain.InvalidInput(fmt.Sprintf("segments[%d].status", i), "unknown status %q", seg.Status)
		}
		if seg.Start.IsZero() || seg.End.IsZero() {
			return nil, domain.InvalidInput(fmt.Sprintf("segments[%d]", i), "start and end times are required")
		}
		if seg.End.Before(seg.Start) {
			return nil, domain.InvalidInput(fmt.Sprintf("segments[%d].end_time", i), "ends before it starts")
		}
	}

	firstDay := utcMidnight(segments[0].Start)
	lastDay := utcMidnight(segments[len(segments)-1].End)

	logs := make([]domain.DailyLogEntry, 0, int(lastDay.Sub(firstDay).Hours()/hoursPerDay)+1)
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		logs = append(logs, buildDailyLog(day, segments))
	}

	return logs, nil
}

func buildDailyLog(dayStart time.Time, segments []domain.DutySegment) domain.DailyLogEntry {
	dayEnd := dayStart.AddDate(0, 0, 1)

	entry := domain.DailyLogEntry{
		Date:     dayStart,
		Segments: []domain.DutySegment{},
		Remarks:  []string{},
	}
	remarks := make(map[string]struct{})

	for _, seg := range segments {
		if !seg.End.After(dayStart) || !seg.Start.Before(dayEnd) {
			continue
		}

		clipStart := latest(seg.Start.UTC(), dayStart)
		clipEnd := earliest(seg.End.UTC(), dayEnd)
		clipHours := clipEnd.Sub(clipStart).Hours()

		miles := 0.0
		if total := seg.Hours(); total > 0 {
			miles = seg.Miles * (clipHours / total)
		}

		entry.Segments = append(entry.Segments, domain.DutySegment{
			Start:  clipStart,
			End:    clipEnd,
			Status: seg.Status,
			Miles:  miles,
			Note:   seg.Note,
		})
		entry.Totals.Add(seg.Status, clipHours)
		entry.Miles += miles

		if seg.Note != "" {
			remarks[seg.Note] = struct{}{}
		}
	}

	// Clipping bounds every day at 24h, so anything above is accumulation drift.
	if sum := entry.Totals.Sum(); sum > hoursPerDay {
		entry.Totals.Scale(hoursPerDay / sum)
	}

	entry.Totals = domain.StatusTotals{
		OffDuty:          round2(entry.Totals.OffDuty),
		SleeperBerth:     round2(entry.Totals.SleeperBerth),
		Driving:          round2(entry.Totals.Driving),
		OnDutyNotDriving: round2(entry.Totals.OnDutyNotDriving),
	}
	entry.Miles = round2(entry.Miles)

	for r := range remarks {
		entry.Remarks = append(entry.Remarks, r)
	}
	slices.Sort(entry.Remarks)

	return entry
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
