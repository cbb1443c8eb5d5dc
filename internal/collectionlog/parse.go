package collectionlog

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// ManualUpload names snapshots imported from a file without a username.
	ManualUpload = "Manual Upload"
	// UnknownAccount is the account type of snapshots that carry none.
	UnknownAccount = "Unknown"
)

// RawLog is the collection log as served by collectionlog.net.
type RawLog struct {
	Username       string                                `json:"username"`
	AccountType    string                                `json:"accountType"`
	UniqueObtained int                                   `json:"uniqueObtained"`
	UniqueItems    int                                   `json:"uniqueItems"`
	Tabs           map[string]map[string]json.RawMessage `json:"tabs"`
}

// Normalize folds the raw tabs into the five display sections. Unknown
// tabs go to Other. An entry is either an object with an items list or a
// bare list of items; entries with the same name are concatenated.
func Normalize(raw RawLog) (Snapshot, error) {
	snap := Snapshot{
		Username:       raw.Username,
		AccountType:    raw.AccountType,
		UniqueObtained: raw.UniqueObtained,
		UniqueItems:    raw.UniqueItems,
		Sections:       make(map[string]map[string][]LogItem, len(Sections)),
	}
	if snap.Username == "" {
		snap.Username = ManualUpload
	}
	if snap.AccountType == "" {
		snap.AccountType = UnknownAccount
	}
	for _, name := range Sections {
		snap.Sections[name] = map[string][]LogItem{}
	}

	for tab, entries := range raw.Tabs {
		section, ok := snap.Sections[tab]
		if !ok {
			section = snap.Sections[SectionOther]
		}
		for name, data := range entries {
			items, err := decodeEntry(data)
			if err != nil {
				return Snapshot{}, fmt.Errorf("tab %q entry %q: %w", tab, name, err)
			}
			section[name] = append(section[name], items...)
		}
	}
	return snap, nil
}

func decodeEntry(data json.RawMessage) ([]LogItem, error) {
	var list []LogItem
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Items []LogItem `json:"items"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj.Items, nil
}

// Parse accepts an already normalised snapshot, a collectionlog.net
// response ({"collectionLog": {...}}) or its bare inner object.
func Parse(data []byte) (Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, fmt.Errorf("parsing collection log: %w", err)
	}

	if inner, ok := probe["collectionLog"]; ok {
		return Parse(inner)
	}
	// Backend responses wrap the snapshot in a status envelope.
	if inner, ok := probe["data"]; ok {
		return Parse(inner)
	}
	if _, ok := probe["sections"]; ok {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("parsing collection log: %w", err)
		}
		if snap.Sections == nil {
			snap.Sections = map[string]map[string][]LogItem{}
		}
		return snap, nil
	}
	if _, ok := probe["tabs"]; ok {
		var raw RawLog
		if err := json.Unmarshal(data, &raw); err != nil {
			return Snapshot{}, fmt.Errorf("parsing collection log: %w", err)
		}
		return Normalize(raw)
	}
	return Snapshot{}, errors.New("parsing collection log: neither sections nor tabs found")
}
