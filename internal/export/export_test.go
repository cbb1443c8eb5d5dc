package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/export"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

func sampleReport() advisor.Report {
	rows := []estimate.Row{
		{
			Activity:           "Zulrah, the snake",
			CompletionsPerHour: 30,
			Time:               estimate.Value(1),
			FastestName:        "Pet snakeling",
			FastestTime:        estimate.Value(0.5),
			Obtained:           1,
			Total:              4,
		},
		{
			Activity:    "Barrows",
			Time:        estimate.Done(),
			FastestTime: estimate.NoAvailableData(),
			Obtained:    2,
			Total:       2,
			Disabled:    true,
		},
	}
	return advisor.Report{Account: model.AccountNormal, Rows: rows, Next: &rows[0]}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]export.Format{"csv": export.CSV, " JSON ": export.JSON, "markdown": export.Markdown, "xlsx": export.XLSX} {
		got, err := export.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := export.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.CSV, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "activity,completions_per_hour,time_to_next_slot,fastest_slot,fastest_slot_time,obtained,total,disabled", lines[0])
	assert.Equal(t, `"Zulrah, the snake",30,24:00:00,Pet snakeling,12:00:00,1,4,false`, lines[1])
	assert.Equal(t, "Barrows,0,Done!,,No available data,2,2,true", lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.JSON, sampleReport()))

	var got struct {
		Account string `json:"account_type"`
		Rows    []struct {
			Activity string          `json:"activity_name"`
			Time     json.RawMessage `json:"time_to_next_log_slot"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "NORMAL", got.Account)
	require.Len(t, got.Rows, 2)
	assert.JSONEq(t, `1`, string(got.Rows[0].Time))
	assert.JSONEq(t, `"done"`, string(got.Rows[1].Time))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.Markdown, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "| Zulrah, the snake | 30 | 24:00:00 | Pet snakeling | 12:00:00 | 1/4 |")
	assert.Contains(t, out, "~~Barrows~~")

	buf.Reset()
	require.NoError(t, export.WriteMarkdown(&buf, nil))
	assert.Equal(t, "No activities found.\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.XLSX, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Completion times")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "activity", rows[0][0])
	assert.Equal(t, "Zulrah, the snake", rows[1][0])
	assert.Equal(t, "24:00:00", rows[1][2])
	assert.Equal(t, "Done!", rows[2][2])
}
