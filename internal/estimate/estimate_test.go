package estimate_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

func item(id int, neitherInverse, attempts float64) model.Item {
	return model.Item{ID: id, NeitherInverse: model.Number(neitherInverse), DropRateAttempts: model.Number(attempts)}
}

func requireValue(t *testing.T, want float64, got estimate.Result) {
	t.Helper()
	v, ok := got.Float()
	require.True(t, ok, "expected a value, got %s", got.Kind())
	assert.InDelta(t, want, v, 1e-9)
}

func TestSingleItemScenario(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100)}
	completed := model.NewCompletedSet()

	requireValue(t, 100, estimate.EffectiveDroprateNeither(items, completed))
	requireValue(t, 100, estimate.EffectiveDroprateIndependent(items, completed))
	requireValue(t, 50, estimate.TimeToExact(items, 2, completed))
	requireValue(t, 50, estimate.TimeToEi(items, 2, completed))
	requireValue(t, 50.0/24, estimate.TimeToNextLogSlot(items, 2, completed))
}

func TestCompletedItemScenario(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100)}
	completed := model.NewCompletedSet(1)

	assert.Equal(t, estimate.KindNotApplicable, estimate.EffectiveDroprateNeither(items, completed).Kind())
	assert.Equal(t, estimate.KindNotApplicable, estimate.EffectiveDroprateIndependent(items, completed).Kind())
	assert.Equal(t, estimate.KindUnset, estimate.TimeToExact(items, 2, completed).Kind())
	assert.Equal(t, estimate.KindUnset, estimate.TimeToEi(items, 2, completed).Kind())
	assert.Equal(t, estimate.KindNoAvailableData, estimate.TimeToNextLogSlot(items, 2, completed).Kind())
}

func TestZeroCompletionsPerHourStillPoolsDroprates(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100), item(2, 0, 40)}
	completed := model.NewCompletedSet()

	assert.Equal(t, estimate.KindUnset, estimate.TimeToExact(items, 0, completed).Kind())
	assert.Equal(t, estimate.KindUnset, estimate.TimeToEi(items, 0, completed).Kind())

	// The raw droprates (100 and 40 attempts) still qualify.
	requireValue(t, 40.0/24, estimate.TimeToNextLogSlot(items, 0, completed))
}

func TestZeroAttemptsIsIgnoredNotDone(t *testing.T) {
	t.Run("zero item alone gives no data", func(t *testing.T) {
		items := []model.Item{item(1, 0, 0)}
		got := estimate.TimeToNextLogSlot(items, 10, model.NewCompletedSet())
		assert.Equal(t, estimate.KindNoAvailableData, got.Kind())
	})

	t.Run("zero item does not short-circuit the others", func(t *testing.T) {
		items := []model.Item{item(1, 0, 0), item(2, 0.5, 4)}
		// neither = 2 attempts, independent = 4, exact = 2h, ei = 4h
		got := estimate.TimeToNextLogSlot(items, 1, model.NewCompletedSet())
		requireValue(t, 2.0/24, got)
	})

	t.Run("activity with an uncompleted zero item is not done", func(t *testing.T) {
		items := []model.Item{item(1, 0, 0), item(2, 0.5, 4)}
		got := estimate.ActivityTime(items, 1, model.NewCompletedSet(2))
		assert.Equal(t, estimate.KindNoAvailableData, got.Kind())
	})
}

func TestInvalidFieldsAreExcluded(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		want  estimate.Kind
	}{
		{"negative values", []model.Item{item(1, -0.5, -3)}, estimate.KindNotApplicable},
		{"NaN", []model.Item{item(1, math.NaN(), math.NaN())}, estimate.KindNotApplicable},
		{"infinite", []model.Item{item(1, math.Inf(1), math.Inf(1))}, estimate.KindNotApplicable},
		{"empty", nil, estimate.KindNotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completed := model.NewCompletedSet()
			assert.Equal(t, tt.want, estimate.EffectiveDroprateNeither(tt.items, completed).Kind())
			assert.Equal(t, tt.want, estimate.EffectiveDroprateIndependent(tt.items, completed).Kind())
			assert.Equal(t, estimate.KindNoAvailableData, estimate.TimeToNextLogSlot(tt.items, 5, completed).Kind())
		})
	}
}

func TestEffectiveDroprateNeitherSumsInverses(t *testing.T) {
	items := []model.Item{item(1, 0.25, 0), item(2, 0.25, 0), item(3, 0.5, 0), item(4, 0.5, 0)}
	requireValue(t, 1, estimate.EffectiveDroprateNeither(items, model.NewCompletedSet(4)))
}

func TestEffectiveDroprateIndependentTakesMinimum(t *testing.T) {
	items := []model.Item{item(1, 0, 300), item(2, 0, 50), item(3, 0, 120)}

	requireValue(t, 50, estimate.EffectiveDroprateIndependent(items, nil))
	requireValue(t, 120, estimate.EffectiveDroprateIndependent(items, model.NewCompletedSet(2)))

	withSmaller := append(items, item(4, 0, 10))
	requireValue(t, 10, estimate.EffectiveDroprateIndependent(withSmaller, nil))

	withLarger := append(items, item(5, 0, 1000))
	requireValue(t, 50, estimate.EffectiveDroprateIndependent(withLarger, nil))
}

func TestNegativeCompletionsPerHourIsUnset(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100)}
	assert.Equal(t, estimate.KindUnset, estimate.TimeToExact(items, -2, nil).Kind())
	assert.Equal(t, estimate.KindUnset, estimate.TimeToEi(items, math.Inf(1), nil).Kind())
}

func TestOverflowIsNotAnEstimate(t *testing.T) {
	tiny := []model.Item{item(1, 1e-310, 0)}
	for _, cph := range []float64{0, 10} {
		got := estimate.TimeToNextLogSlot(tiny, cph, nil)
		assert.Equal(t, estimate.KindNoAvailableData, got.Kind(), "cph %v", cph)
		_, err := json.Marshal(got)
		assert.NoError(t, err)
	}

	withUsable := append(tiny, item(2, 0, 50))
	requireValue(t, 5.0/24, estimate.TimeToNextLogSlot(withUsable, 10, nil))
}

func TestActivityTime(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100), item(2, 0.01, 100)}

	assert.Equal(t, estimate.KindDone, estimate.ActivityTime(items, 2, model.NewCompletedSet(1, 2)).Kind())
	assert.Equal(t, estimate.KindNoAvailableData, estimate.ActivityTime(nil, 2, nil).Kind())
	requireValue(t, 50.0/24, estimate.ActivityTime(items, 2, model.NewCompletedSet(1)))
}

func TestAddExtraTime(t *testing.T) {
	items := []model.Item{item(1, 0.01, 100)}
	days := estimate.TimeToNextLogSlot(items, 2, nil)

	t.Run("estimators never include extra time", func(t *testing.T) {
		// Open question: whether extra time belongs in the estimate at all.
		// The estimate stays at 50h until a caller opts in.
		requireValue(t, 50.0/24, days)
	})

	t.Run("opt-in addition is in hours", func(t *testing.T) {
		requireValue(t, 60.0/24, estimate.AddExtraTime(days, 10))
	})

	t.Run("sentinels pass through", func(t *testing.T) {
		assert.Equal(t, estimate.KindNoAvailableData, estimate.AddExtraTime(estimate.NoAvailableData(), 10).Kind())
		assert.Equal(t, estimate.KindDone, estimate.AddExtraTime(estimate.Done(), 10).Kind())
	})

	t.Run("non-positive extra time is ignored", func(t *testing.T) {
		requireValue(t, 50.0/24, estimate.AddExtraTime(days, 0))
		requireValue(t, 50.0/24, estimate.AddExtraTime(days, -4))
	})
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		result estimate.Result
		want   string
	}{
		{estimate.Value(2.5), "2.5"},
		{estimate.NoAvailableData(), `"no_available_data"`},
		{estimate.Done(), `"done"`},
		{estimate.NotApplicable(), `"not_applicable"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.result)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))

		var back estimate.Result
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tt.result, back)
	}

	var r estimate.Result
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &r))
}
