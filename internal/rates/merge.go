// Package rates reconciles the catalog's default completion rates with
// the user's persisted overrides.
package rates

import (
	"strings"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// FromDefaults builds the working table from catalog rows. Omitted
// catalog fields become 0 and user values start at the defaults.
func FromDefaults(defaults []model.DefaultRate) []model.Rate {
	table := make([]model.Rate, 0, len(defaults))
	for _, d := range defaults {
		name := strings.TrimSpace(d.ActivityName)
		if name == "" {
			name = model.UnknownActivity
		}
		r := model.Rate{
			ActivityName:       name,
			DefaultMain:        orZero(d.CompletionsPerHourMain),
			DefaultIron:        orZero(d.CompletionsPerHourIron),
			DefaultExtraTime:   orZero(d.ExtraTimeToFirstCompletion),
			Notes:              d.Notes,
			VerificationSource: d.VerificationSource,
		}
		r.UserMain, r.UserIron, r.UserExtraTime = r.DefaultMain, r.DefaultIron, r.DefaultExtraTime
		table = append(table, r)
	}
	return table
}

// Merge returns a copy of table where each user field is the override
// when one is present and the default otherwise. Merge only reads the
// default fields of table, so merging the result again with the same
// overrides yields the same table.
func Merge(table []model.Rate, overrides model.Overrides) []model.Rate {
	merged := make([]model.Rate, len(table))
	for i, r := range table {
		ov := overrides[r.ActivityName]
		r.UserMain = or(ov.CompletionsPerHourMain, r.DefaultMain)
		r.UserIron = or(ov.CompletionsPerHourIron, r.DefaultIron)
		r.UserExtraTime = or(ov.ExtraTimeToFirstCompletion, r.DefaultExtraTime)
		merged[i] = r
	}
	return merged
}

// Snapshot recomputes the persisted override map in full from the
// working table. Only the user's three values are kept.
func Snapshot(table []model.Rate) model.Overrides {
	out := make(model.Overrides, len(table))
	for _, r := range table {
		out[r.ActivityName] = model.RateOverride{
			CompletionsPerHourMain:     model.Float(r.UserMain),
			CompletionsPerHourIron:     model.Float(r.UserIron),
			ExtraTimeToFirstCompletion: model.Float(r.UserExtraTime),
		}
	}
	return out
}

func or(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func orZero(v *float64) float64 {
	return or(v, 0)
}
