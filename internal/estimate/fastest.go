package estimate

import "github.com/Tiliavir/collection-log-advisor/internal/model"

// FastestItem returns the uncompleted item whose own slot time is the
// smallest, with that time in days. Ties keep the earlier item. ok is
// false when no uncompleted item yields a number.
func FastestItem(items []model.Item, completionsPerHour float64, completed model.CompletedSet) (item model.Item, days Result, ok bool) {
	days = NoAvailableData()
	var best float64
	for _, candidate := range items {
		if completed.Has(candidate.ID) {
			continue
		}
		r := TimeToNextLogSlot([]model.Item{candidate}, completionsPerHour, completed)
		v, isValue := r.Float()
		if !isValue {
			continue
		}
		if !ok || v < best {
			item, days, best, ok = candidate, r, v, true
		}
	}
	return item, days, ok
}

// NextFastest picks the enabled row whose fastest item has the smallest
// estimate across all activities. Ties keep the earlier row.
func NextFastest(rows []Row) (Row, bool) {
	var (
		next  Row
		best  float64
		found bool
	)
	for _, row := range rows {
		if row.Disabled {
			continue
		}
		v, ok := row.FastestTime.Float()
		if !ok {
			continue
		}
		if !found || v < best {
			next, best, found = row, v, true
		}
	}
	return next, found
}
