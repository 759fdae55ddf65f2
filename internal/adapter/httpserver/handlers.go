package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-resume-screener/internal/adapter/export"
	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// ResultsHandler returns ranked results with statistics.
func (s *Server) ResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		q, details, err := parseListQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err, details)
			return
		}
		d, err := s.Results.Dashboard(r.Context(), q.Limit, q.Offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// StatsHandler returns aggregate statistics.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		st, err := s.Results.Stats(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// ExportHandler streams all results as json, csv or xlsx.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := export.ParseFormat(chi.URLParam(r, "format"))
		if err != nil {
			writeError(w, r, err, map[string]string{"field": "format"})
			return
		}
		var buf bytes.Buffer
		if err := s.Results.Export(r.Context(), &buf, f); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName(s.clock())))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// CandidateResultsHandler returns the evaluations of one candidate.
func (s *Server) CandidateResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: bad candidate name", domain.ErrInvalidArgument), nil)
			return
		}
		evals, err := s.Results.ByCandidate(r.Context(), name)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"candidate_name": name, "evaluations": evals})
	}
}

// SessionsHandler lists recent screening sessions.
func (s *Server) SessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		q, details, err := parseListQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err, details)
			return
		}
		sessions, err := s.Results.RecentSessions(r.Context(), q.Limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
	}
}

// SessionHandler returns one session and its evaluations.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		d, err := s.Results.Session(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// ClearResultsHandler deletes every stored evaluation.
func (s *Server) ClearResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Results.Clear(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// JobDescriptionHandler stores a job description for a workspace.
func (s *Server) JobDescriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req jobDescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		if err := s.JobDescs.Save(r.Context(), req.Workspace, req.Text); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes the database, Redis and Tika.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   Check
		}{{"db", s.DBCheck}, {"redis", s.RedisCheck}, {"tika", s.TikaCheck}}
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			c := check{Name: p.name, OK: true}
			if err := p.fn(ctx); err != nil {
				c.OK, c.Details = false, err.Error()
				ok = false
			}
			checks = append(checks, c)
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
