package rates

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
)

var (
	// ErrUnknownActivity is returned for an activity not in the table.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrInvalidValue is returned for a negative or non-finite rate.
	ErrInvalidValue = errors.New("invalid rate value")
)

// Field names one of the user-editable rate columns.
type Field string

const (
	FieldMain  Field = "main"
	FieldIron  Field = "iron"
	FieldExtra Field = "extra"
)

// ParseField maps a column name to a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldMain, FieldIron, FieldExtra:
		return f, nil
	default:
		return "", fmt.Errorf("unknown rate field %q (want main, iron or extra)", s)
	}
}

type rateUpdate struct {
	Activity string  `validate:"required"`
	Value    float64 `validate:"gte=0"`
}

var validate = validator.New()

// Service owns the working rate table and keeps the persisted overrides
// in step with it. It is safe for concurrent use.
type Service struct {
	store kvstore.Store

	mu       sync.RWMutex
	table    []model.Rate
	index    map[string]int
	disabled map[string]bool
}

// NewService returns an empty Service persisting to store. Call Load
// before use.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store, index: map[string]int{}, disabled: map[string]bool{}}
}

// Load rebuilds the table from the catalog defaults and the overrides
// and disabled activities found in the store.
func (s *Service) Load(ctx context.Context, defaults []model.DefaultRate) error {
	var overrides model.Overrides
	if _, err := kvstore.GetJSON(ctx, s.store, kvstore.KeyUserCompletionRates, &overrides); err != nil {
		return fmt.Errorf("loading rate overrides: %w", err)
	}
	var disabled []string
	if _, err := kvstore.GetJSON(ctx, s.store, kvstore.KeyDisabledActivities, &disabled); err != nil {
		return fmt.Errorf("loading disabled activities: %w", err)
	}

	table := Merge(FromDefaults(defaults), overrides)
	index := make(map[string]int, len(table))
	for i, r := range table {
		if _, dup := index[r.ActivityName]; !dup {
			index[r.ActivityName] = i
		}
	}
	set := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		set[name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table, s.index, s.disabled = table, index, set
	return nil
}

// Update sets one user field of an activity and persists the full
// override map.
func (s *Service) Update(ctx context.Context, activity string, field Field, value float64) error {
	return s.Apply(ctx, activity, Change{Values: map[Field]float64{field: value}})
}

// Reset restores an activity's user fields to the catalog defaults.
func (s *Service) Reset(ctx context.Context, activity string) error {
	return s.Apply(ctx, activity, Change{Reset: true})
}

// Change is a batch of edits to one activity. Reset restores the catalog
// defaults before Values are applied.
type Change struct {
	Reset  bool
	Values map[Field]float64
}

// fieldOrder fixes the order Values are checked and applied in.
var fieldOrder = []Field{FieldMain, FieldIron, FieldExtra}

// Apply validates every value of c, then applies all of them under one
// lock and persists once. On any error the table is left as it was.
func (s *Service) Apply(ctx context.Context, activity string, c Change) error {
	for field := range c.Values {
		if f, err := ParseField(string(field)); err != nil || f != field {
			return fmt.Errorf("unknown rate field %q (want main, iron or extra)", field)
		}
	}
	for _, field := range fieldOrder {
		value, ok := c.Values[field]
		if !ok {
			continue
		}
		if err := validate.Struct(rateUpdate{Activity: activity, Value: value}); err != nil || math.IsInf(value, 0) {
			return fmt.Errorf("%s %s = %v: %w", activity, field, value, ErrInvalidValue)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[activity]
	if !ok {
		return fmt.Errorf("%q: %w", activity, ErrUnknownActivity)
	}
	prev := s.table[i]
	r := &s.table[i]
	if c.Reset {
		r.UserMain, r.UserIron, r.UserExtraTime = r.DefaultMain, r.DefaultIron, r.DefaultExtraTime
	}
	for _, field := range fieldOrder {
		value, ok := c.Values[field]
		if !ok {
			continue
		}
		switch field {
		case FieldMain:
			r.UserMain = value
		case FieldIron:
			r.UserIron = value
		case FieldExtra:
			r.UserExtraTime = value
		}
	}
	if err := s.persistLocked(ctx); err != nil {
		s.table[i] = prev
		return err
	}
	return nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyUserCompletionRates, Snapshot(s.table)); err != nil {
		return fmt.Errorf("saving rate overrides: %w", err)
	}
	return nil
}

// Rates returns a copy of the working table in catalog order.
func (s *Service) Rates() []model.Rate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Rate, len(s.table))
	copy(out, s.table)
	return out
}

// Lookup returns the working rate of an activity.
func (s *Service) Lookup(name string) (model.Rate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return model.Rate{}, false
	}
	return s.table[i], true
}

// CompletionsPerHour returns the user's rate for name and account type,
// or 0 for an unknown activity.
func (s *Service) CompletionsPerHour(name string, account model.AccountType) float64 {
	r, ok := s.Lookup(name)
	if !ok {
		return 0
	}
	return r.CompletionsPerHour(account)
}

// Disable hides an activity from rankings and the next-item pick.
func (s *Service) Disable(ctx context.Context, activity string) error {
	return s.setDisabled(ctx, activity, true)
}

// Enable reverses Disable.
func (s *Service) Enable(ctx context.Context, activity string) error {
	return s.setDisabled(ctx, activity, false)
}

// IsDisabled reports whether activity is disabled.
func (s *Service) IsDisabled(activity string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabled[activity]
}

// Disabled returns the disabled activity names, sorted.
func (s *Service) Disabled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabledLocked()
}

func (s *Service) disabledLocked() []string {
	names := make([]string, 0, len(s.disabled))
	for name := range s.disabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) setDisabled(ctx context.Context, activity string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[activity]; !ok {
		return fmt.Errorf("%q: %w", activity, ErrUnknownActivity)
	}
	was := s.disabled[activity]
	if disabled {
		s.disabled[activity] = true
	} else {
		delete(s.disabled, activity)
	}
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyDisabledActivities, s.disabledLocked()); err != nil {
		if was {
			s.disabled[activity] = true
		} else {
			delete(s.disabled, activity)
		}
		return fmt.Errorf("saving disabled activities: %w", err)
	}
	return nil
}
