package handlers

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/iudanet/fortress/pkg/api"
)

// RootHandler serves GET / and owns the process-wide request counter.
type RootHandler struct {
	logger   *slog.Logger
	requests atomic.Int64
}

// NewRootHandler creates the root handler with the counter at zero.
func NewRootHandler(logger *slog.Logger) *RootHandler {
	return &RootHandler{logger: logger}
}

// Root handles GET /. Every hit increments the request counter and echoes
// its new value.
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	n := h.requests.Add(1)

	resp := api.RootResponse{
		Message: "Hello Users!",
		Counter: n,
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Requests returns the number of requests counted so far.
func (h *RootHandler) Requests() int64 {
	return h.requests.Load()
}
