// ABOUTME: Response DTOs for the parse endpoint
// ABOUTME: Success and error payload shapes returned to callers

package responses

import "recipe-importer-api/core/domain"

// ParseResponse is the success body of POST /v1/parse.
type ParseResponse struct {
	RequestID     string             `json:"request_id"`
	Recipe        domain.RecipeDraft `json:"recipe"`
	Confidence    float64            `json:"confidence"`
	Warnings      []string           `json:"warnings"`
	MissingFields []string           `json:"missing_fields"`
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	GitSHA  string `json:"git_sha"`
}
