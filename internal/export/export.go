// Package export writes a completion time report as CSV, JSON, Markdown
// or an Excel workbook.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/timecalc"
)

// Format is an output format.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
	XLSX     Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, Markdown, XLSX:
		return f, nil
	case "markdown":
		return Markdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want csv, json, md or xlsx)", s)
	}
}

// Write renders report in the given format.
func Write(w io.Writer, f Format, report advisor.Report) error {
	switch f {
	case JSON:
		return WriteJSON(w, report)
	case Markdown:
		return WriteMarkdown(w, report.Rows)
	case XLSX:
		return WriteXLSX(w, report.Rows)
	default:
		return WriteCSV(w, report.Rows)
	}
}

// header is shared by the tabular formats.
var header = []string{
	"activity", "completions_per_hour", "time_to_next_slot",
	"fastest_slot", "fastest_slot_time", "obtained", "total", "disabled",
}

func cells(r estimate.Row) []string {
	return []string{
		r.Activity,
		strconv.FormatFloat(r.CompletionsPerHour, 'f', -1, 64),
		timecalc.FormatDays(r.Time),
		r.FastestName,
		timecalc.FormatDays(r.FastestTime),
		strconv.Itoa(r.Obtained),
		strconv.Itoa(r.Total),
		strconv.FormatBool(r.Disabled),
	}
}

// WriteCSV writes one line per row.
func WriteCSV(w io.Writer, rows []estimate.Row) error {
	if _, err := fmt.Fprintln(w, strings.Join(header, ",")); err != nil {
		return err
	}
	for _, r := range rows {
		fields := cells(r)
		for i, f := range fields {
			fields[i] = csvEscape(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes the whole report, indented.
func WriteJSON(w io.Writer, report advisor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteMarkdown writes a Markdown table.
func WriteMarkdown(w io.Writer, rows []estimate.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No activities found.")
		return err
	}
	var b strings.Builder
	b.WriteString("| Activity | Completions/hr | Time to next slot | Fastest slot | Fastest slot time | Progress |\n")
	b.WriteString("|---|---:|---:|---|---:|---:|\n")
	for _, r := range rows {
		name := r.Activity
		if r.Disabled {
			name = "~~" + name + "~~"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d/%d |\n",
			mdEscape(name),
			strconv.FormatFloat(r.CompletionsPerHour, 'f', -1, 64),
			timecalc.FormatDays(r.Time),
			mdEscape(r.FastestName),
			timecalc.FormatDays(r.FastestTime),
			r.Obtained, r.Total,
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
