// Package timecalc formats estimates for display.
package timecalc

import (
	"fmt"
	"math"

	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
)

const (
	DoneText   = "Done!"
	NoDataText = "No available data"
)

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatHours formats a duration given in fractional hours, e.g. the
// extra time to a first completion.
func FormatHours(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) {
		return "-"
	}
	return FormatDuration(toSeconds(hours * 3600))
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS. Hours are not capped.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDays renders an estimate in days as HH:MM:SS, "Done!" for a
// finished activity, or "No available data".
func FormatDays(r estimate.Result) string {
	if r.Kind() == estimate.KindDone {
		return DoneText
	}
	days, ok := r.Float()
	if !ok || days <= 0 {
		return NoDataText
	}
	return FormatDurationHHMMSS(toSeconds(days * 24 * 3600))
}

// toSeconds truncates to whole seconds, saturating at the int64 range.
func toSeconds(f float64) int64 {
	f = math.Floor(f)
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
