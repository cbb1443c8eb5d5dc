// Package advisor joins the catalog, the user's rates and the collection
// log snapshot into the ranked completion time report.
package advisor

import (
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// Rates is the view of the rate table the report needs.
type Rates interface {
	Lookup(name string) (model.Rate, bool)
	IsDisabled(name string) bool
}

// Options controls how a report is built.
type Options struct {
	Account       model.AccountType
	WithExtraTime bool
	Sort          estimate.SortKey
	Direction     estimate.Direction
}

// Report is the ranked table plus the single next fastest item.
type Report struct {
	Account model.AccountType `json:"account_type"`
	Rows    []estimate.Row    `json:"rows"`
	Next    *estimate.Row     `json:"next,omitempty"`
}

// Build computes one row per activity, sorts the rows and picks the next
// fastest item among enabled activities.
func Build(activities []model.Activity, rates Rates, completed model.CompletedSet, opts Options) Report {
	account := opts.Account
	if account == "" {
		account = model.AccountNormal
	}

	rows := make([]estimate.Row, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, buildRow(a, rates, completed, account, opts.WithExtraTime))
	}

	key := opts.Sort
	if key == "" {
		key = estimate.SortByTime
	}
	estimate.Sort(rows, key, opts.Direction)

	report := Report{Account: account, Rows: rows}
	if next, ok := estimate.NextFastest(rows); ok {
		report.Next = &next
	}
	return report
}

func buildRow(a model.Activity, rates Rates, completed model.CompletedSet, account model.AccountType, withExtra bool) estimate.Row {
	row := estimate.Row{
		Index:       a.Index,
		Activity:    a.Name,
		Total:       len(a.Items),
		FastestTime: estimate.NoAvailableData(),
		Disabled:    rates.IsDisabled(a.Name),
	}
	if r, ok := rates.Lookup(a.Name); ok {
		row.CompletionsPerHour = r.CompletionsPerHour(account)
		row.ExtraTime = r.UserExtraTime
	}
	for _, it := range a.Items {
		if completed.Has(it.ID) {
			row.Obtained++
		}
	}

	row.Time = estimate.ActivityTime(a.Items, row.CompletionsPerHour, completed)
	if item, days, ok := estimate.FastestItem(a.Items, row.CompletionsPerHour, completed); ok {
		row.FastestID, row.FastestName, row.FastestTime = item.ID, item.Name, days
	}
	if withExtra {
		row.Time = estimate.AddExtraTime(row.Time, row.ExtraTime)
		row.FastestTime = estimate.AddExtraTime(row.FastestTime, row.ExtraTime)
	}
	return row
}
