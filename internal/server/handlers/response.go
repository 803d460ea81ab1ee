package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/authz"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/pkg/api"
)

// sendJSON writes a JSON response
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a JSON error response with the given status and detail
func sendError(logger *slog.Logger, w http.ResponseWriter, statusCode int, detail string) {
	resp := api.ErrorResponse{
		Error:  http.StatusText(statusCode),
		Detail: detail,
	}
	sendJSON(logger, w, resp, statusCode)
}

// sendUnauthorized writes a 401 with the WWW-Authenticate challenge set.
func sendUnauthorized(logger *slog.Logger, w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	sendError(logger, w, http.StatusUnauthorized, detail)
}

// sendDomainError maps directory/authz errors onto the HTTP status
// taxonomy: NotFound 404, conflicts 400, policy denials 403, anything
// unexpected 500.
func sendDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var roleErr *authz.RoleError

	switch {
	case errors.Is(err, directory.ErrUserNotFound):
		sendError(logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrUserAlreadyExists),
		errors.Is(err, directory.ErrEmailTaken),
		errors.Is(err, directory.ErrPrincipalExists):
		sendError(logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authz.ErrPrincipalProtected),
		errors.Is(err, authz.ErrRoleChangeForbidden),
		errors.Is(err, authz.ErrEmailChangeForbidden):
		sendError(logger, w, http.StatusForbidden, err.Error())
	case errors.As(err, &roleErr):
		sendError(logger, w, http.StatusForbidden, err.Error())
	default:
		logger.Error("unexpected domain error", slog.Any("error", err))
		sendError(logger, w, http.StatusInternalServerError, "internal server error")
	}
}

// userResponse converts a record into its external representation. The
// password digest never crosses this boundary.
func userResponse(u models.User) api.UserResponse {
	return api.UserResponse{
		UserID: u.ID,
		Name:   u.Name,
		Age:    u.Age,
		Gender: string(u.Gender),
		Email:  u.Email,
		Role:   string(u.Role),
	}
}

// userResponses converts a record slice, always yielding a non-nil slice
// so an empty listing serializes as [] rather than null.
func userResponses(users []models.User) []api.UserResponse {
	out := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	return out
}
