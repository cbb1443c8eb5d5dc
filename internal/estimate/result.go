// Package estimate computes, per activity, the expected time until the
// player's next new collection log slot.
//
// Every function in this package is a pure computation over its
// arguments. Missing or invalid data is reported through Result
// variants, never through errors.
package estimate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the variant held by a Result.
type Kind uint8

const (
	// KindValue holds a number (attempts, hours or days depending on
	// the producing function).
	KindValue Kind = iota
	// KindNotApplicable: a single droprate model had no usable input.
	KindNotApplicable
	// KindUnset: a time conversion contributed nothing.
	KindUnset
	// KindNoAvailableData: no model produced a usable number.
	KindNoAvailableData
	// KindDone: the activity has nothing left to obtain.
	KindDone
)

var kindNames = map[Kind]string{
	KindValue:           "value",
	KindNotApplicable:   "not_applicable",
	KindUnset:           "unset",
	KindNoAvailableData: "no_available_data",
	KindDone:            "done",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Result is either a number or one of the sentinel states.
type Result struct {
	kind  Kind
	value float64
}

// Value wraps a number.
func Value(v float64) Result { return Result{kind: KindValue, value: v} }

// NotApplicable is returned by a droprate model with no surviving items.
func NotApplicable() Result { return Result{kind: KindNotApplicable} }

// Unset is returned by a time conversion that has nothing to convert.
func Unset() Result { return Result{kind: KindUnset} }

// NoAvailableData is returned when no estimator yields a usable number.
func NoAvailableData() Result { return Result{kind: KindNoAvailableData} }

// Done marks an activity with nothing left to obtain.
func Done() Result { return Result{kind: KindDone} }

// Kind returns the variant tag.
func (r Result) Kind() Kind { return r.kind }

// IsValue reports whether r holds a number.
func (r Result) IsValue() bool { return r.kind == KindValue }

// Float returns the number held by r and whether there was one.
func (r Result) Float() (float64, bool) {
	if r.kind != KindValue {
		return 0, false
	}
	return r.value, true
}

// positive reports whether r holds a finite number strictly greater
// than zero.
func (r Result) positive() bool {
	return r.kind == KindValue && r.value > 0 && !math.IsInf(r.value, 0)
}

func (r Result) String() string {
	if r.kind == KindValue {
		return strconv.FormatFloat(r.value, 'g', -1, 64)
	}
	return r.kind.String()
}

// MarshalJSON encodes a value as a JSON number and a sentinel as its
// kind name.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.kind == KindValue {
		return json.Marshal(r.value)
	}
	return json.Marshal(r.kind.String())
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*r = Value(v)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding estimate result: %w", err)
	}
	for k, n := range kindNames {
		if n == name && k != KindValue {
			*r = Result{kind: k}
			return nil
		}
	}
	return fmt.Errorf("unknown estimate result %q", name)
}
