package services

import "trip-planner-service/internal/domain"

// Fixed on-duty time spent loading at pickup and unloading at dropoff.
const dockHours = 1.0

const (
	NoteToPickup  = "Start → Pickup"
	NotePickup    = "Pickup (1 hour)"
	NoteToDropoff = "Pickup → Dropoff"
	NoteDropoff   = "Dropoff (1 hour)"
)

// BuildSkeleton lays out the planned work for a start → pickup → dropoff trip:
// drive leg 1, one hour on duty at pickup, drive leg 2, one hour on duty at
// dropoff. Missing legs are skipped; the dock stops are always present.
func BuildSkeleton(route *domain.Route) []domain.Activity {
	var legs []domain.RouteLeg
	if route != nil {
		legs = route.Legs
	}

	activities := make([]domain.Activity, 0, 4)

	if len(legs) >= 1 {
		activities = append(activities, domain.Activity{
			Status:        domain.Driving,
			DurationHours: legs[0].DurationHours,
			Miles:         legs[0].DistanceMiles,
			Note:          NoteToPickup,
		})
	}

	activities = append(activities, domain.Activity{
		Status:        domain.OnDutyNotDriving,
		DurationHours: dockHours,
		Note:          NotePickup,
	})

	if len(legs) >= 2 {
		activities = append(activities, domain.Activity{
			Status:        domain.Driving,
			DurationHours: legs[1].DurationHours,
			Miles:         legs[1].DistanceMiles,
			Note:          NoteToDropoff,
		})
	}

	activities = append(activities, domain.Activity{
		Status:        domain.OnDutyNotDriving,
		DurationHours: dockHours,
		Note:          NoteDropoff,
	})

	return activities
}
