package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/analysis"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/engine"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/storage"
)

const (
	defaultMaxBodySize = 512 << 20
	defaultRunsLimit   = 50
	analyzeTimeout     = 2 * time.Minute
	queryTimeout       = 10 * time.Second
)

// Server exposes scenario analysis and run history over HTTP.
type Server struct {
	analyzer *analysis.Analyzer
	registry *profiles.Registry
	defaults model.Params
	maxBody  int64
	mux      *http.ServeMux
	logger   *slog.Logger
}

// NewServer creates an API server. A non-positive maxBody uses the default limit.
func NewServer(a *analysis.Analyzer, registry *profiles.Registry, defaults model.Params, maxBody int64, logger *slog.Logger) *Server {
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	s := &Server{
		analyzer: a,
		registry: registry,
		defaults: defaults,
		maxBody:  maxBody,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/v1/runs", s.handleRuns)
	s.mux.HandleFunc("GET /api/v1/runs/{id}", s.handleRun)
	s.mux.HandleFunc("DELETE /api/v1/runs/{id}", s.handleDeleteRun)
	s.mux.HandleFunc("GET /api/v1/profiles", s.handleProfiles)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type errorResponse struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

type analyzeResponse struct {
	RunID  string        `json:"run_id,omitempty"`
	Result *model.Result `json:"result"`
	Alerts []alertView   `json:"alerts,omitempty"`
}

type alertView struct {
	Level   string `json:"level"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	q := r.URL.Query()
	overrides, err := parseOverrides(q)
	if err != nil {
		s.writeError(w, err)
		return
	}

	profile := q.Get("profile")
	params, err := analysis.ResolveParams(s.defaults, s.registry, profile, overrides)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rows, err := s.readRows(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	save := true
	if v := q.Get("save"); v != "" {
		save, err = strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, &paramError{param: "save", err: err})
			return
		}
	}

	source := q.Get("source")
	if source == "" {
		source = "upload"
	}
	if profile == "" {
		profile = profiles.DefaultName
	}

	out, err := s.analyzer.Analyze(ctx, rows, analysis.Request{
		Source:  source,
		Profile: profile,
		Params:  params,
		Save:    save,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := analyzeResponse{RunID: out.Run.ID, Result: out.Run.Result}
	for _, a := range out.Alerts {
		resp.Alerts = append(resp.Alerts, alertView{Level: string(a.Level), Kind: string(a.Kind), Message: a.Message})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readRows(w http.ResponseWriter, r *http.Request) ([]model.BillingRow, error) {
	var body io.Reader = http.MaxBytesReader(w, r.Body, s.maxBody)
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, &paramError{param: "body", err: fmt.Errorf("open gzip body: %w", err)}
		}
		defer gz.Close()
		body = gz
	}
	return cur.ReadCSV(body)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	q := r.URL.Query()
	filter := model.RunFilter{
		Source:  q.Get("source"),
		Profile: q.Get("profile"),
		Limit:   defaultRunsLimit,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer", Param: "limit"})
			return
		}
		filter.Limit = n
	}

	runs, err := s.analyzer.Runs(ctx, filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	run, err := s.analyzer.Run(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := s.analyzer.DeleteRun(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	list := []*profiles.Profile{}
	if s.registry != nil {
		list = s.registry.All()
	}
	writeJSON(w, http.StatusOK, list)
}

// writeError maps domain errors to status codes. Unknown errors are logged
// and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		verr   *engine.ValidationError
		perr   *paramError
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: verr.Param})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: perr.param})
	case errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Param: "body"})
	case errors.Is(err, engine.ErrNoRows), errors.Is(err, cur.ErrEmptyCSV):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: engine.ParamRows})
	case errors.Is(err, profiles.ErrNotFound):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: "profile"})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
	case errors.Is(err, analysis.ErrNoStorage):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

type paramError struct {
	param string
	err   error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.param, e.err)
}

func (e *paramError) Unwrap() error { return e.err }

// parseOverrides reads scenario query parameters. Only parameters that are
// present override the profile.
func parseOverrides(q url.Values) (*profiles.Profile, error) {
	o := &profiles.Profile{Name: "request"}

	parseFloat := func(name string) (*float64, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &paramError{param: name, err: err}
		}
		return &v, nil
	}

	var err error
	if o.AdditionalCoverage, err = parseFloat(engine.ParamAdditionalCoverage); err != nil {
		return nil, err
	}
	if o.SpotDiscount, err = parseFloat(engine.ParamSpotDiscount); err != nil {
		return nil, err
	}
	if raw := q.Get(engine.ParamPassThrough); raw != "" {
		for _, part := range splitList(raw) {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, &paramError{param: engine.ParamPassThrough, err: err}
			}
			o.PassThrough = append(o.PassThrough, v)
		}
	}
	if raw := q.Get("compute_codes"); raw != "" {
		o.ComputeProductCodes = splitList(raw)
	}
	if raw := q.Get("exclude_services"); raw != "" {
		o.ExcludeServices = splitList(raw)
	}
	return o, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
