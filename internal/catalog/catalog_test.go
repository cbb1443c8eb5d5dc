package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/collection-log-advisor/internal/catalog"
	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

const ratesCSV = `Index,Activity name,Completions/hr (main),Completions/hr (iron),Extra time to first completion (hours),Notes,Verification source
1,Zulrah,30,25,1.5,needs rigour,wiki
2, Barrows ,n/a,None,,,
x,Broken,1,1,1,,
`

const mapCSV = `Activity index,Activity name,Item ID,Item name,Drop rate (attempts),Neither^(-1)
1,Zulrah,12921,Pet snakeling,4000,4000
1,Zulrah,12936,Jar of swamp,3000,n/a
2,Barrows,4708,Ahrim's hood,,392
9,Nowhere,1,Ghost,1,1
1,Zulrah,bad,Broken,1,1
`

func TestImportCSV(t *testing.T) {
	c, warnings, err := catalog.ImportCSV(strings.NewReader(ratesCSV), strings.NewReader(mapCSV))
	require.NoError(t, err)

	require.Len(t, c.Activities, 2)
	require.Len(t, c.Rates, 2)
	assert.Len(t, warnings, 3)

	z := c.Activities[0]
	assert.Equal(t, 1, z.Index)
	assert.Equal(t, "Zulrah", z.Name)
	require.Len(t, z.Items, 2)
	assert.Equal(t, model.Item{ID: 12921, Name: "Pet snakeling", DropRateAttempts: 4000, NeitherInverse: 4000}, z.Items[0])
	assert.Equal(t, model.Number(0), z.Items[1].NeitherInverse, "n/a reads as absent")

	b := c.Activities[1]
	assert.Equal(t, "Barrows", b.Name, "names are trimmed")
	require.Len(t, b.Items, 1)
	assert.Equal(t, model.Number(0), b.Items[0].DropRateAttempts)

	assert.Equal(t, 30.0, *c.Rates[0].CompletionsPerHourMain)
	assert.Equal(t, 1.5, *c.Rates[0].ExtraTimeToFirstCompletion)
	assert.Equal(t, "needs rigour", c.Rates[0].Notes)
	assert.Equal(t, 0.0, *c.Rates[1].CompletionsPerHourMain)
	assert.Equal(t, 0.0, *c.Rates[1].CompletionsPerHourIron)

	assert.Equal(t, 3, c.ItemCount())
	_, ok := c.Activity("Barrows")
	assert.True(t, ok)
	_, ok = c.Activity("Vorkath")
	assert.False(t, ok)
}

func TestImportCSVMissingColumns(t *testing.T) {
	_, _, err := catalog.ImportCSV(strings.NewReader("Name\nZulrah\n"), strings.NewReader(mapCSV))
	assert.Error(t, err)

	_, _, err = catalog.ImportCSV(strings.NewReader(ratesCSV), strings.NewReader(""))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	_, err := catalog.Load(ctx, store)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	c, _, err := catalog.ImportCSV(strings.NewReader(ratesCSV), strings.NewReader(mapCSV))
	require.NoError(t, err)
	require.NoError(t, catalog.Save(ctx, store, c))

	loaded, err := catalog.Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestDecodeActivities(t *testing.T) {
	body := `{"status":"success","data":[
		{"activity_index":1,"activity_name":"Zulrah","completions_per_hour_main":30,
		 "maps":[{"item_id":12921,"item_name":"Pet snakeling","drop_rate_attempts":4000,"neither_inverse":"n/a"}]}
	]}`
	acts, err := catalog.DecodeActivities(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Zulrah", acts[0].Name)
	require.Len(t, acts[0].Items, 1)
	assert.Equal(t, 12921, acts[0].Items[0].ID)
	assert.Equal(t, model.Number(4000), acts[0].Items[0].DropRateAttempts)
	assert.Equal(t, model.Number(0), acts[0].Items[0].NeitherInverse)
}

func TestDecodeRates(t *testing.T) {
	body := `{"status":"success","data":[
		{"activity_name":"Zulrah","completions_per_hour_main":30,"completions_per_hour_iron":null,"extra_time_to_first_completion":0.5,"notes":"","verification_source":"wiki"}
	]}`
	rates, err := catalog.DecodeRates(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, 30.0, *rates[0].CompletionsPerHourMain)
	assert.Nil(t, rates[0].CompletionsPerHourIron)
	assert.Equal(t, "wiki", rates[0].VerificationSource)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error status", `{"status":"error","message":"boom"}`},
		{"not json", `<html>`},
		{"wrong data", `{"status":"success","data":{"a":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.DecodeActivities(strings.NewReader(tt.body))
			assert.Error(t, err)
			_, err = catalog.DecodeRates(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}
