package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/pkg/api"
)

// HealthHandler serves liveness checks.
type HealthHandler struct {
	logger    *slog.Logger
	directory *directory.Directory
	version   string
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(logger *slog.Logger, dir *directory.Directory, version string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		directory: dir,
		version:   version,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Users:   h.directory.Count(),
		Version: h.version,
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}
