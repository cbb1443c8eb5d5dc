package model

// Item is a single obtainable collection log slot.
type Item struct {
	ID               int    `json:"id"`
	Name             string `json:"name,omitempty"`
	NeitherInverse   Number `json:"neither_inverse"`
	DropRateAttempts Number `json:"drop_rate_attempts"`
}

// Activity groups the items that share one completions-per-hour rate.
type Activity struct {
	Index int    `json:"activity_index"`
	Name  string `json:"activity_name"`
	Items []Item `json:"items"`
}

// CompletedSet holds the ids of items the player already owns.
// It is rebuilt from a log snapshot and never patched in place.
type CompletedSet map[int]struct{}

// NewCompletedSet builds a set from a list of item ids.
func NewCompletedSet(ids ...int) CompletedSet {
	set := make(CompletedSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set. A nil set contains nothing.
func (c CompletedSet) Has(id int) bool {
	_, ok := c[id]
	return ok
}

// Len returns the number of completed items.
func (c CompletedSet) Len() int {
	return len(c)
}
