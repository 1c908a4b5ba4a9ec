package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const maxImportBody = 1 << 20

const importRequestSchema = `{
	"type": "object",
	"properties": {
		"countries": {
			"type": "array",
			"maxItems": 50,
			"items": { "type": "string", "pattern": "^[A-Za-z]{2}$" }
		},
		"queries": {
			"type": "array",
			"maxItems": 20,
			"items": { "type": "string", "maxLength": 200 }
		},
		"page": { "type": "integer", "minimum": 1, "maximum": 100 },
		"maxJobsPerCountry": { "type": "integer", "minimum": 1, "maximum": 1000 }
	},
	"additionalProperties": false
}`

// api serves the REST trigger and read endpoints
type api struct {
	jobs         tools.JobService
	logger       *logging.Logger
	importSchema *gojsonschema.Schema
}

func newAPI(jobs tools.JobService, logger *logging.Logger) (*api, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(importRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile import schema: %w", err)
	}
	return &api{jobs: jobs, logger: logger, importSchema: schema}, nil
}

func (a *api) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/jobs/import", a.handleImport)
	mux.HandleFunc("GET /api/jobs", a.handleSearch)
	mux.HandleFunc("GET /api/jobs/stats", a.handleStats)
	mux.HandleFunc("GET /api/countries", a.handleCountries)
	mux.HandleFunc("GET /api/sectors", a.handleSectors)
}

func (a *api) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	result, err := a.importSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		writeError(w, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}

	var req domain.ImportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	summary, err := a.jobs.Import(r.Context(), req)
	if err != nil {
		a.logger.Error("import request failed", "err", err)
		status := http.StatusInternalServerError
		switch {
		case summary.Cancelled:
			status = http.StatusGatewayTimeout
		case errors.Is(err, job.ErrStoreUnreachable):
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, domain.ImportResponse{Success: false, Summary: summary, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, domain.ImportResponse{Success: true, Summary: summary})
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.JobFilter{
		Query:   q.Get("q"),
		Country: q.Get("country"),
		Sector:  domain.SectorID(q.Get("sector")),
		Source:  domain.Source(q.Get("source")),
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit: "+err.Error())
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset: "+err.Error())
		return
	}
	if v := q.Get("remote"); v != "" {
		remote, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "remote: "+err.Error())
			return
		}
		filter.Remote = &remote
	}

	jobs, err := a.jobs.Search(r.Context(), filter)
	if err != nil {
		// the only caller-caused failure is an unknown source tag
		if filter.Source != "" && !filter.Source.Valid() {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("job search failed", "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(jobs), "jobs": jobs})
}

func (a *api) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.jobs.Stats(r.Context())
	if err != nil {
		if errors.Is(err, job.ErrStatsUnsupported) {
			writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		a.logger.Error("job stats failed", "err", err)
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (a *api) handleCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "countries": classify.Countries()})
}

func (a *api) handleSectors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sectors": classify.Sectors()})
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
