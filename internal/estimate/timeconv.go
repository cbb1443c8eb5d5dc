package estimate

import (
	"math"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// HoursPerDay converts the selector's hours to days.
const HoursPerDay = 24

// TimeToExact is the combined-model droprate divided by completions per
// hour, in hours. Unset when the droprate is NotApplicable or the rate
// is zero.
func TimeToExact(items []model.Item, completionsPerHour float64, completed model.CompletedSet) Result {
	return perHour(EffectiveDroprateNeither(items, completed), completionsPerHour)
}

// TimeToEi is the independent-model droprate divided by completions per
// hour, in hours. Unset when the droprate is NotApplicable or the rate
// is zero.
func TimeToEi(items []model.Item, completionsPerHour float64, completed model.CompletedSet) Result {
	return perHour(EffectiveDroprateIndependent(items, completed), completionsPerHour)
}

func perHour(droprate Result, completionsPerHour float64) Result {
	attempts, ok := droprate.Float()
	if !ok || !usableRate(completionsPerHour) {
		return Unset()
	}
	return Value(attempts / completionsPerHour)
}

// usableRate rejects zero along with values no caller should pass:
// negatives and non-finite numbers are treated like zero.
func usableRate(completionsPerHour float64) bool {
	return completionsPerHour > 0 && !math.IsInf(completionsPerHour, 0)
}
