package estimate

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one activity's line in the completion time table.
type Row struct {
	Index              int     `json:"activity_index"`
	Activity           string  `json:"activity_name"`
	CompletionsPerHour float64 `json:"completions_per_hour"`
	ExtraTime          float64 `json:"extra_time"`
	Time               Result  `json:"time_to_next_log_slot"`
	FastestID          int     `json:"fastest_slot_id,omitempty"`
	FastestName        string  `json:"fastest_slot_name"`
	FastestTime        Result  `json:"fastest_slot_time"`
	Obtained           int     `json:"obtained"`
	Total              int     `json:"total"`
	Disabled           bool    `json:"disabled"`
}

// Progress returns the obtained share of the activity's items.
func (r Row) Progress() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Obtained) / float64(r.Total)
}

// SortKey names a column to order rows by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByTime     SortKey = "time"
	SortByFastest  SortKey = "fastest"
	SortByProgress SortKey = "progress"
)

// ParseSortKey validates a user-supplied sort column.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByTime, SortByFastest, SortByProgress:
		return k, nil
	case "":
		return SortByTime, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want name, time, fastest or progress)", s)
	}
}

// Direction is the sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Sort orders rows in place and stably.
//
// For SortByTime every non-numeric result sorts after all numeric ones,
// whatever the direction, and non-numeric results tie with each other.
func Sort(rows []Row, key SortKey, dir Direction) {
	desc := dir == Descending
	var less func(a, b Row) bool
	switch key {
	case SortByTime:
		sort.SliceStable(rows, func(i, j int) bool {
			return lessTime(rows[i].Time, rows[j].Time, desc)
		})
		return
	case SortByFastest:
		less = func(a, b Row) bool { return a.FastestName < b.FastestName }
	case SortByProgress:
		less = func(a, b Row) bool { return a.Progress() < b.Progress() }
	default:
		less = func(a, b Row) bool { return a.Activity < b.Activity }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessTime(a, b Result, desc bool) bool {
	av, aok := a.Float()
	bv, bok := b.Float()
	switch {
	case aok && bok:
		if desc {
			return av > bv
		}
		return av < bv
	case aok:
		return true
	default:
		return false
	}
}
