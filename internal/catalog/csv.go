package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// Column headers of the spreadsheet exports.
const (
	colIndex        = "Index"
	colActivityName = "Activity name"
	colMain         = "Completions/hr (main)"
	colIron         = "Completions/hr (iron)"
	colExtra        = "Extra time to first completion (hours)"
	colNotes        = "Notes"
	colVerification = "Verification source"

	colActivityIndex = "Activity index"
	colItemID        = "Item ID"
	colItemName      = "Item name"
	colDropRate      = "Drop rate (attempts)"
	colNeither       = "Neither^(-1)"
)

// ImportCSV builds a catalog from the completion rates and activity map
// exports of the advisor spreadsheet. Activity map rows that cannot be
// attached to an activity are skipped; one warning per skipped row is
// returned alongside the catalog.
func ImportCSV(rates, activityMap io.Reader) (Catalog, []string, error) {
	var warnings []string

	rateRows, err := readRecords(rates, colIndex, colActivityName)
	if err != nil {
		return Catalog{}, nil, fmt.Errorf("reading completion rates: %w", err)
	}

	var c Catalog
	byIndex := map[int]int{}
	for n, row := range rateRows {
		idx, err := strconv.Atoi(strings.TrimSpace(row[colIndex]))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("completion rates row %d: invalid index %q", n+2, row[colIndex]))
			continue
		}
		name := strings.TrimSpace(row[colActivityName])
		c.Rates = append(c.Rates, model.DefaultRate{
			ActivityName:               name,
			CompletionsPerHourMain:     model.Float(model.ParseFloat(row[colMain])),
			CompletionsPerHourIron:     model.Float(model.ParseFloat(row[colIron])),
			ExtraTimeToFirstCompletion: model.Float(model.ParseFloat(row[colExtra])),
			Notes:                      strings.TrimSpace(row[colNotes]),
			VerificationSource:         strings.TrimSpace(row[colVerification]),
		})
		if _, dup := byIndex[idx]; dup {
			warnings = append(warnings, fmt.Sprintf("completion rates row %d: duplicate index %d", n+2, idx))
			continue
		}
		byIndex[idx] = len(c.Activities)
		c.Activities = append(c.Activities, model.Activity{Index: idx, Name: name})
	}

	mapRows, err := readRecords(activityMap, colActivityIndex, colItemID)
	if err != nil {
		return Catalog{}, nil, fmt.Errorf("reading activity map: %w", err)
	}
	for n, row := range mapRows {
		idx, err := strconv.Atoi(strings.TrimSpace(row[colActivityIndex]))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("activity map row %d: invalid activity index %q", n+2, row[colActivityIndex]))
			continue
		}
		pos, ok := byIndex[idx]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("activity map row %d: activity index %d not found in completion rates", n+2, idx))
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[colItemID]))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("activity map row %d: invalid item id %q", n+2, row[colItemID]))
			continue
		}
		c.Activities[pos].Items = append(c.Activities[pos].Items, model.Item{
			ID:               id,
			Name:             strings.TrimSpace(row[colItemName]),
			DropRateAttempts: model.Number(model.ParseFloat(row[colDropRate])),
			NeitherInverse:   model.Number(model.ParseFloat(row[colNeither])),
		})
	}

	return c, warnings, nil
}

// readRecords reads a CSV with a header line into one map per row,
// keyed by header. Missing cells read as "".
func readRecords(r io.Reader, required ...string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for _, col := range required {
		if !contains(header, col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
