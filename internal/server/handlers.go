package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/logger"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/rates"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RatesResponse is the body of GET /api/rates.
type RatesResponse struct {
	Rates    []model.Rate `json:"rates"`
	Disabled []string     `json:"disabled"`
}

// RateUpdateRequest is the body of PUT /api/rates/{activity}. Absent
// fields are left unchanged.
type RateUpdateRequest struct {
	CompletionsPerHourMain     *float64 `json:"completions_per_hour_main"`
	CompletionsPerHourIron     *float64 `json:"completions_per_hour_iron"`
	ExtraTimeToFirstCompletion *float64 `json:"extra_time_to_first_completion"`
	Disabled                   *bool    `json:"disabled"`
	Reset                      bool     `json:"reset"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Get(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// reportOptions reads sort, desc, account and extra_time from the query.
func reportOptions(q url.Values) (advisor.Options, error) {
	var opts advisor.Options
	key, err := estimate.ParseSortKey(q.Get("sort"))
	if err != nil {
		return opts, err
	}
	opts.Sort = key
	if desc, _ := strconv.ParseBool(q.Get("desc")); desc {
		opts.Direction = estimate.Descending
	}
	switch q.Get("account") {
	case "":
	case "iron":
		opts.Account = model.AccountIronman
	case "main":
		opts.Account = model.AccountNormal
	default:
		opts.Account = model.ParseAccountType(q.Get("account"))
	}
	opts.WithExtraTime, _ = strconv.ParseBool(q.Get("extra_time"))
	return opts, nil
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) (advisor.Report, bool) {
	opts, err := reportOptions(r.URL.Query())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return advisor.Report{}, false
	}
	report, err := s.advisor.Report(r.Context(), opts)
	if err != nil {
		logger.Get(r.Context()).Error().Err(err).Msg("building report")
		respondError(w, r, http.StatusInternalServerError, "failed to build report")
		return advisor.Report{}, false
	}
	return report, true
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	if report, ok := s.report(w, r); ok {
		respondJSON(w, r, http.StatusOK, report)
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w, r)
	if !ok {
		return
	}
	if report.Next == nil {
		respondError(w, r, http.StatusNotFound, "no item has an estimate")
		return
	}
	respondJSON(w, r, http.StatusOK, report.Next)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	svc := s.advisor.Rates()
	respondJSON(w, r, http.StatusOK, RatesResponse{Rates: svc.Rates(), Disabled: svc.Disabled()})
}

func (s *Server) handleUpdateRate(w http.ResponseWriter, r *http.Request) {
	activity := chi.URLParam(r, "activity")
	if unescaped, err := url.PathUnescape(activity); err == nil {
		activity = unescaped
	}

	var req RateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	change := req.change()
	svc := s.advisor.Rates()
	ctx := r.Context()
	if err := svc.Apply(ctx, activity, change); err != nil {
		s.countRateUpdates(change, "rejected")
		s.respondRateError(w, r, err)
		return
	}
	s.countRateUpdates(change, "ok")
	if req.Disabled != nil {
		toggle := svc.Enable
		if *req.Disabled {
			toggle = svc.Disable
		}
		if err := toggle(ctx, activity); err != nil {
			s.respondRateError(w, r, err)
			return
		}
	}

	rate, ok := svc.Lookup(activity)
	if !ok {
		respondError(w, r, http.StatusNotFound, "unknown activity")
		return
	}
	respondJSON(w, r, http.StatusOK, rate)
}

// change collects the rate fields present in the request into one batch.
func (req RateUpdateRequest) change() rates.Change {
	c := rates.Change{Reset: req.Reset, Values: map[rates.Field]float64{}}
	for field, value := range map[rates.Field]*float64{
		rates.FieldMain:  req.CompletionsPerHourMain,
		rates.FieldIron:  req.CompletionsPerHourIron,
		rates.FieldExtra: req.ExtraTimeToFirstCompletion,
	} {
		if value != nil {
			c.Values[field] = *value
		}
	}
	return c
}

func (s *Server) countRateUpdates(c rates.Change, outcome string) {
	for field := range c.Values {
		s.metrics.RateUpdates.WithLabelValues(string(field), outcome).Inc()
	}
}

func (s *Server) respondRateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rates.ErrUnknownActivity):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, rates.ErrInvalidValue):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.Get(r.Context()).Error().Err(err).Msg("updating rate")
		respondError(w, r, http.StatusInternalServerError, "failed to save rate")
	}
}
