package estimate

import "github.com/Tiliavir/collection-log-advisor/internal/model"

// TimeToNextLogSlot pools both droprates and both times, keeps the
// strictly positive numbers and returns the smallest divided by 24.
// Returns NoAvailableData when nothing qualifies.
//
// Attempts and hours share one pool; the minimum is a lower
// bound used for ranking only. A zero is skipped like any other
// non-positive value and never turns the activity into Done.
func TimeToNextLogSlot(items []model.Item, completionsPerHour float64, completed model.CompletedSet) Result {
	pool := [...]Result{
		EffectiveDroprateNeither(items, completed),
		EffectiveDroprateIndependent(items, completed),
		TimeToExact(items, completionsPerHour, completed),
		TimeToEi(items, completionsPerHour, completed),
	}

	found := false
	var best float64
	for _, r := range pool {
		if !r.positive() {
			continue
		}
		if !found || r.value < best {
			best = r.value
			found = true
		}
	}
	if !found {
		return NoAvailableData()
	}
	return Value(best / HoursPerDay)
}

// ActivityTime is TimeToNextLogSlot for a whole activity, except that an
// activity whose every item is already completed reports Done.
func ActivityTime(items []model.Item, completionsPerHour float64, completed model.CompletedSet) Result {
	if len(items) > 0 && allCompleted(items, completed) {
		return Done()
	}
	return TimeToNextLogSlot(items, completionsPerHour, completed)
}

func allCompleted(items []model.Item, completed model.CompletedSet) bool {
	for _, item := range items {
		if !completed.Has(item.ID) {
			return false
		}
	}
	return true
}

// AddExtraTime adds a fixed number of hours to a day estimate. Only
// numeric results change; sentinels pass through untouched.
//
// The estimators never apply extra time themselves. Callers opt in.
func AddExtraTime(days Result, extraHours float64) Result {
	v, ok := days.Float()
	if !ok || !(extraHours > 0) {
		return days
	}
	return Value(v + extraHours/HoursPerDay)
}
