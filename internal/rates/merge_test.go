package rates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/rates"
)

func sampleDefaults() []model.DefaultRate {
	return []model.DefaultRate{
		{
			ActivityName:               "Zulrah",
			CompletionsPerHourMain:     model.Float(30),
			CompletionsPerHourIron:     model.Float(25),
			ExtraTimeToFirstCompletion: model.Float(1.5),
			Notes:                      "tanzanite",
		},
		{
			ActivityName:           "Barrows",
			CompletionsPerHourMain: model.Float(0),
		},
		{ActivityName: "  "},
	}
}

func TestFromDefaults(t *testing.T) {
	table := rates.FromDefaults(sampleDefaults())
	assert.Len(t, table, 3)

	z := table[0]
	assert.Equal(t, 30.0, z.DefaultMain)
	assert.Equal(t, 25.0, z.DefaultIron)
	assert.Equal(t, 1.5, z.DefaultExtraTime)
	assert.Equal(t, z.DefaultMain, z.UserMain)
	assert.Equal(t, z.DefaultIron, z.UserIron)
	assert.Equal(t, z.DefaultExtraTime, z.UserExtraTime)
	assert.Equal(t, "tanzanite", z.Notes)

	b := table[1]
	assert.Equal(t, 0.0, b.DefaultMain, "an explicit zero default is kept")
	assert.Equal(t, 0.0, b.DefaultIron, "an omitted default becomes zero")

	assert.Equal(t, model.UnknownActivity, table[2].ActivityName)
}

func TestMerge(t *testing.T) {
	table := rates.FromDefaults(sampleDefaults())
	overrides := model.Overrides{
		"Zulrah":  {CompletionsPerHourIron: model.Float(20)},
		"Barrows": {CompletionsPerHourMain: model.Float(0), ExtraTimeToFirstCompletion: model.Float(2)},
		"Removed": {CompletionsPerHourMain: model.Float(99)},
	}

	merged := rates.Merge(table, overrides)

	assert.Equal(t, 30.0, merged[0].UserMain, "missing override falls back to default")
	assert.Equal(t, 20.0, merged[0].UserIron)
	assert.Equal(t, 1.5, merged[0].UserExtraTime)
	assert.Equal(t, 0.0, merged[1].UserMain, "zero override is a value, not absence")
	assert.Equal(t, 2.0, merged[1].UserExtraTime)
	assert.Len(t, merged, 3, "overrides for unknown activities are ignored")

	assert.Equal(t, 25.0, table[0].UserIron, "input table is not modified")
}

func TestMergeIdempotent(t *testing.T) {
	table := rates.FromDefaults(sampleDefaults())
	overrides := model.Overrides{
		"Zulrah": {CompletionsPerHourMain: model.Float(42), ExtraTimeToFirstCompletion: model.Float(0)},
	}

	once := rates.Merge(table, overrides)
	twice := rates.Merge(once, overrides)
	assert.Equal(t, once, twice)

	// Re-merging with the table's own snapshot is also a fixed point.
	assert.Equal(t, once, rates.Merge(once, rates.Snapshot(once)))
}

func TestSnapshot(t *testing.T) {
	table := rates.Merge(rates.FromDefaults(sampleDefaults()), model.Overrides{
		"Zulrah": {CompletionsPerHourMain: model.Float(42)},
	})

	snap := rates.Snapshot(table)
	assert.Len(t, snap, 3)

	z := snap["Zulrah"]
	if assert.NotNil(t, z.CompletionsPerHourMain) {
		assert.Equal(t, 42.0, *z.CompletionsPerHourMain)
	}
	if assert.NotNil(t, z.CompletionsPerHourIron) {
		assert.Equal(t, 25.0, *z.CompletionsPerHourIron)
	}
}
