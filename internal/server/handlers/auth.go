package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/pkg/api"
)

// AuthHandler serves the token endpoints and /me.
type AuthHandler struct {
	logger    *slog.Logger
	directory *directory.Directory
	tokens    TokenConfig
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(logger *slog.Logger, dir *directory.Directory, tokens TokenConfig) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		directory: dir,
		tokens:    tokens,
	}
}

// Token handles POST /token.
//
// OAuth2-style password grant: the body is form-encoded username/password,
// where username is the account email. On success it returns a fresh
// access/refresh token pair together with the user's role.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(h.logger, w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		sendError(h.logger, w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, ok := h.directory.Authenticate(username, password)
	if !ok {
		h.logger.Warn("login failed", "username", username)
		sendUnauthorized(h.logger, w, "invalid credentials")
		return
	}

	h.respondWithTokens(w, user)
}

// Refresh handles POST /token/refresh.
//
// The refresh token travels as a bearer token; a valid one is exchanged
// for a brand new pair. The user is re-resolved so a role change since
// issuance is reflected in the new tokens.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := bearerToken(r)
	if !ok {
		sendUnauthorized(h.logger, w, "missing or malformed Authorization header")
		return
	}

	claims, err := ValidateToken(h.tokens.RefreshSecret, tokenString)
	if err != nil {
		h.logger.Warn("invalid refresh token", "error", err)
		sendUnauthorized(h.logger, w, "invalid credentials")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		h.logger.Warn("invalid refresh token subject", "error", err)
		sendUnauthorized(h.logger, w, "invalid credentials")
		return
	}

	user, err := h.directory.GetByID(userID)
	if err != nil {
		h.logger.Warn("refresh for unknown user", "user_id", userID)
		sendUnauthorized(h.logger, w, "invalid credentials")
		return
	}

	h.respondWithTokens(w, user)
}

// Me handles GET /me: the caller's own record, password excluded.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	info, ok := GetAuthInfo(r.Context())
	if !ok {
		sendUnauthorized(h.logger, w, "not authenticated")
		return
	}
	sendJSON(h.logger, w, userResponse(info.User), http.StatusOK)
}

// respondWithTokens issues a fresh access/refresh pair for user.
func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, user models.User) {
	accessToken, err := GenerateAccessToken(h.tokens, user)
	if err != nil {
		h.logger.Error("failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, "internal server error")
		return
	}

	refreshToken, err := GenerateRefreshToken(h.tokens, user)
	if err != nil {
		h.logger.Error("failed to generate refresh token", slog.Any("error", err))
		sendError(h.logger, w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := api.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Role:         string(user.Role),
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
