// Package collectionlog holds the player's collection log snapshot: the
// items obtained so far, grouped the way the in-game log shows them.
package collectionlog

import (
	"sort"
	"time"

	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

// Section names, in display order.
const (
	SectionBosses    = "Bosses"
	SectionRaids     = "Raids"
	SectionClues     = "Clues"
	SectionMinigames = "Minigames"
	SectionOther     = "Other"
)

// Sections lists every section in display order.
var Sections = []string{SectionBosses, SectionRaids, SectionClues, SectionMinigames, SectionOther}

// clueOrder is the in-game order of the clue entries.
var clueOrder = []string{
	"Beginner Treasure Trails",
	"Easy Treasure Trails",
	"Medium Treasure Trails",
	"Hard Treasure Trails",
	"Elite Treasure Trails",
	"Master Treasure Trails",
	"Hard Treasure Trails (Rare)",
	"Elite Treasure Trails (Rare)",
	"Master Treasure Trails (Rare)",
	"Shared Treasure Trail Rewards",
}

// LogItem is one slot of the collection log.
type LogItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Obtained   bool   `json:"obtained"`
	ObtainedAt string `json:"obtainedAt,omitempty"`
	Sequence   int    `json:"sequence,omitempty"`
}

// ObtainedTime parses ObtainedAt.
func (i LogItem) ObtainedTime() (time.Time, bool) {
	if i.ObtainedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, i.ObtainedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Snapshot is a normalised collection log.
type Snapshot struct {
	Username       string                          `json:"username"`
	AccountType    string                          `json:"accountType"`
	UniqueObtained int                             `json:"uniqueObtained"`
	UniqueItems    int                             `json:"uniqueItems"`
	Sections       map[string]map[string][]LogItem `json:"sections"`
}

// Account maps the snapshot's account type onto main or iron rates.
func (s Snapshot) Account() model.AccountType {
	return model.ParseAccountType(s.AccountType)
}

// Completed returns the ids of every obtained item. The set is built from
// scratch on each call.
func (s Snapshot) Completed() model.CompletedSet {
	set := model.CompletedSet{}
	for _, entries := range s.Sections {
		for _, items := range entries {
			for _, it := range items {
				if it.Obtained {
					set[it.ID] = struct{}{}
				}
			}
		}
	}
	return set
}

// EntryNames returns the entries of a section in display order: the fixed
// tier order for clues, then any unknown clue entries, and alphabetical
// order everywhere else.
func (s Snapshot) EntryNames(section string) []string {
	entries := s.Sections[section]
	names := make([]string, 0, len(entries))
	if section == SectionClues {
		known := make(map[string]bool, len(clueOrder))
		for _, name := range clueOrder {
			known[name] = true
			if _, ok := entries[name]; ok {
				names = append(names, name)
			}
		}
		var rest []string
		for name := range entries {
			if !known[name] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		return append(names, rest...)
	}
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count is an obtained/total pair.
type Count struct {
	Obtained int `json:"obtained"`
	Total    int `json:"total"`
}

// CategoryCounts returns obtained and total slots per section. Every
// section is present, even when empty.
func (s Snapshot) CategoryCounts() map[string]Count {
	counts := make(map[string]Count, len(Sections))
	for _, section := range Sections {
		var c Count
		for _, items := range s.Sections[section] {
			for _, it := range items {
				c.Total++
				if it.Obtained {
					c.Obtained++
				}
			}
		}
		counts[section] = c
	}
	return counts
}

// DefaultRecentLimit is the number of items RecentItems returns for a
// non-positive limit.
const DefaultRecentLimit = 12

// RecentItems returns up to limit obtained items with a known obtain
// date, newest first.
func (s Snapshot) RecentItems(limit int) []LogItem {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	type dated struct {
		item LogItem
		at   time.Time
	}
	var all []dated
	for _, section := range Sections {
		for _, name := range s.EntryNames(section) {
			for _, it := range s.Sections[section][name] {
				if !it.Obtained {
					continue
				}
				if at, ok := it.ObtainedTime(); ok {
					all = append(all, dated{it, at})
				}
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.After(all[j].at) })

	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]LogItem, len(all))
	for i, d := range all {
		out[i] = d.item
	}
	return out
}
