package model

// UnknownActivity is the name given to catalog rows that carry none.
const UnknownActivity = "Unknown Activity"

// DefaultRate is a completion rate row as supplied by the catalog.
// Nil fields were omitted by the catalog.
type DefaultRate struct {
	ActivityName               string   `json:"activity_name"`
	CompletionsPerHourMain     *float64 `json:"completions_per_hour_main"`
	CompletionsPerHourIron     *float64 `json:"completions_per_hour_iron"`
	ExtraTimeToFirstCompletion *float64 `json:"extra_time_to_first_completion"`
	Notes                      string   `json:"notes,omitempty"`
	VerificationSource         string   `json:"verification_source,omitempty"`
}

// Rate is the working completion rate of one activity: the user's values
// next to the catalog defaults they fall back to.
type Rate struct {
	ActivityName       string  `json:"activity_name"`
	UserMain           float64 `json:"user_completions_per_hour_main"`
	UserIron           float64 `json:"user_completions_per_hour_iron"`
	UserExtraTime      float64 `json:"user_extra_time"`
	DefaultMain        float64 `json:"default_completions_per_hour_main"`
	DefaultIron        float64 `json:"default_completions_per_hour_iron"`
	DefaultExtraTime   float64 `json:"default_extra_time"`
	Notes              string  `json:"notes,omitempty"`
	VerificationSource string  `json:"verification_source,omitempty"`
}

// CompletionsPerHour returns the user's rate for the given account type.
func (r Rate) CompletionsPerHour(account AccountType) float64 {
	if account.IsIron() {
		return r.UserIron
	}
	return r.UserMain
}

// RateOverride is the persisted form of a user's rate for one activity.
// A nil field falls back to the catalog default.
type RateOverride struct {
	CompletionsPerHourMain     *float64 `json:"completions_per_hour_main,omitempty"`
	CompletionsPerHourIron     *float64 `json:"completions_per_hour_iron,omitempty"`
	ExtraTimeToFirstCompletion *float64 `json:"extra_time_to_first_completion,omitempty"`
}

// Overrides maps activity names to the user's persisted rates.
type Overrides map[string]RateOverride

// Float returns a pointer to f, for building optional rate fields.
func Float(f float64) *float64 {
	return &f
}
