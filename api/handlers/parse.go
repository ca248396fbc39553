// ABOUTME: HTTP handler for the parse endpoint
// ABOUTME: Rate-limit admission, pipeline invocation, and timing-breakdown logging

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-importer-api/api/dto/requests"
	"recipe-importer-api/api/dto/responses"
	"recipe-importer-api/api/middleware"
	"recipe-importer-api/core/domain"
	"recipe-importer-api/core/errors"
	"recipe-importer-api/core/interfaces"
	"recipe-importer-api/core/ratelimit"
	"recipe-importer-api/pkg/config"
)

// PipelineRunner executes the import pipeline for one URL.
// Implemented by pipeline.Service; tests substitute a stub.
type PipelineRunner interface {
	Run(ctx context.Context, url, requestID string) (*domain.PipelineResult, error)
}

// ParseHandler serves POST /v1/parse
type ParseHandler struct {
	pipeline PipelineRunner
	limiter  *ratelimit.Backstop
	cfg      *config.Config
	logger   interfaces.Logger
}

// NewParseHandler creates a new parse handler
func NewParseHandler(pipeline PipelineRunner, limiter *ratelimit.Backstop, cfg *config.Config, logger interfaces.Logger) *ParseHandler {
	return &ParseHandler{
		pipeline: pipeline,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handle processes a parse request end to end
func (h *ParseHandler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req requests.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, errors.InvalidURL("Request body must be JSON with a url field"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, requestID, errors.InvalidURL(err.Error()))
		return
	}

	clientIP := middleware.ExtractClientIP(r)
	targetHost := hostnameOf(req.URL)

	if h.limiter != nil && !h.limiter.Check(clientIP, targetHost) {
		writeError(w, requestID, errors.RateLimited(""))
		return
	}

	start := time.Now()
	result, err := h.pipeline.Run(r.Context(), req.URL, requestID)
	if err != nil {
		if errors.KindOf(err) == errors.KindParseFailed {
			// Full detail stays server-side only.
			h.logError("pipeline_error", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
		writeError(w, requestID, err)
		return
	}

	response := responses.ParseResponse{
		RequestID:     requestID,
		Recipe:        result.Payload.Recipe,
		Confidence:    result.Payload.Confidence,
		Warnings:      result.Payload.Warnings,
		MissingFields: result.Payload.MissingFields,
	}

	total := time.Since(start)
	parseTime := total - result.FetchTime
	if parseTime < 0 {
		parseTime = 0
	}

	status := "success"
	if len(response.MissingFields) > 0 {
		status = "partial"
	}

	fields := map[string]interface{}{
		"service":              h.cfg.Service.Name,
		"version":              h.cfg.Service.Version,
		"request_id":           requestID,
		"domain":               result.Domain,
		"strategy":             result.Strategy,
		"confidence":           response.Confidence,
		"status":               status,
		"headless_used":        strings.HasPrefix(result.Strategy, "headless"),
		"timing_ms_total":      total.Milliseconds(),
		"timing_ms_fetch":      result.FetchTime.Milliseconds(),
		"timing_ms_parse":      parseTime.Milliseconds(),
		"warnings_count":       len(response.Warnings),
		"missing_fields":       response.MissingFields,
		"http_status_upstream": result.UpstreamStatus,
	}
	if correlationID := r.Header.Get("X-Correlation-ID"); correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	h.logInfo("parse_complete", fields)

	writeJSON(w, http.StatusOK, response)
}

func (h *ParseHandler) logInfo(msg string, fields map[string]interface{}) {
	if h.logger != nil {
		h.logger.Info(msg, fields)
	}
}

func (h *ParseHandler) logError(msg string, fields map[string]interface{}) {
	if h.logger != nil {
		h.logger.Error(msg, fields)
	}
}

// hostnameOf extracts the hostname used for per-domain rate limiting.
func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(parsed.Hostname())
}
