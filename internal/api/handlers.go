package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spacesedan/wordlens/internal/db"
	"github.com/spacesedan/wordlens/internal/models"
	"github.com/spacesedan/wordlens/internal/service"
)

const readinessTimeout = 2 * time.Second

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if status, msg := rt.decode(w, r, &req); status != 0 {
		respondError(w, status, msg)
		return
	}

	summary, err := rt.analysis.Analyze(r.Context(), req.Text)
	switch {
	case errors.Is(err, service.ErrEmptyText):
		respondError(w, http.StatusBadRequest, "text is required")
	case err != nil:
		respondError(w, http.StatusBadGateway, service.ErrAnalysisFailed.Error())
	default:
		respondJSON(w, http.StatusOK, summary)
	}
}

func (rt *Router) searchQuery(w http.ResponseWriter, r *http.Request) {
	rt.runSearch(w, r, models.SearchRequest{Term: r.URL.Query().Get("term")})
}

func (rt *Router) searchBody(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if status, msg := rt.decode(w, r, &req); status != 0 {
		respondError(w, status, msg)
		return
	}
	rt.runSearch(w, r, req)
}

func (rt *Router) runSearch(w http.ResponseWriter, r *http.Request, req models.SearchRequest) {
	if err := rt.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "term is required")
		return
	}

	res := rt.search.Search(r.Context(), req.Term)
	rt.metrics.Searches.WithLabelValues(res.Outcome.String()).Inc()

	respondJSON(w, http.StatusOK, models.SearchResponse{Term: res.Term, Found: res.Found()})
}

// decode reads a size-limited JSON body into dst and validates it. A zero
// status means success.
func (rt *Router) decode(w http.ResponseWriter, r *http.Request, dst any) (int, string) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
		}
		return http.StatusBadRequest, "invalid request body"
	}

	if err := rt.validate.Struct(dst); err != nil {
		return http.StatusBadRequest, validationMessage(err)
	}
	return 0, ""
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s is required", strings.ToLower(verrs[0].Field()))
	}
	return "invalid request body"
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"model": "ok", "store": "ok"}
	ready := true

	if rt.modelHealthy != nil && !rt.modelHealthy.Load() {
		checks["model"] = "unavailable"
		ready = false
	}

	if pinger, ok := rt.store.(db.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			checks["store"] = "unavailable"
			ready = false
		}
	}

	status, label := http.StatusOK, "ready"
	if !ready {
		status, label = http.StatusServiceUnavailable, "not ready"
	}
	respondJSON(w, status, map[string]any{"status": label, "checks": checks})
}
