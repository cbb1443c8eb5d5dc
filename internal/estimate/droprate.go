package estimate

import "github.com/Tiliavir/collection-log-advisor/internal/model"

// EffectiveDroprateNeither returns the expected attempts until any
// remaining item drops under the combined model: the reciprocal of the
// summed neither_inverse of every uncompleted item that has one.
// Returns NotApplicable when nothing survives or the sum is zero.
func EffectiveDroprateNeither(items []model.Item, completed model.CompletedSet) Result {
	var sum float64
	for _, item := range items {
		if completed.Has(item.ID) || !item.NeitherInverse.Positive() {
			continue
		}
		sum += item.NeitherInverse.Float()
	}
	if sum == 0 {
		return NotApplicable()
	}
	return Value(1 / sum)
}

// EffectiveDroprateIndependent returns the smallest drop_rate_attempts
// among uncompleted items: the single easiest remaining drop.
// Returns NotApplicable when no uncompleted item has a usable value.
func EffectiveDroprateIndependent(items []model.Item, completed model.CompletedSet) Result {
	found := false
	var best float64
	for _, item := range items {
		if completed.Has(item.ID) || !item.DropRateAttempts.Positive() {
			continue
		}
		attempts := item.DropRateAttempts.Float()
		if !found || attempts < best {
			best = attempts
			found = true
		}
	}
	if !found {
		return NotApplicable()
	}
	return Value(best)
}
