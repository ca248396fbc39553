// ABOUTME: Health and version endpoints
// ABOUTME: Liveness probe plus service identity for deploy verification

package handlers

import (
	"net/http"

	"recipe-importer-api/api/dto/responses"
	"recipe-importer-api/pkg/config"
)

// HealthHandler serves the health and version endpoints
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Healthz reports service liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, responses.HealthResponse{Status: "ok"})
}

// Version reports the service identity
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, responses.VersionResponse{
		Service: h.cfg.Service.Name,
		Version: h.cfg.Service.Version,
		GitSHA:  h.cfg.Service.GitSHA,
	})
}
