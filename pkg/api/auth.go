package api

// TokenResponse is the response of POST /token and POST /token/refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token (30 minutes)
	RefreshToken string `json:"refresh_token"` // JWT refresh token (7 days)
	TokenType    string `json:"token_type"`    // always "bearer"
	Role         string `json:"role"`          // role of the authenticated user
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error  string `json:"error"`            // HTTP status text
	Detail string `json:"detail,omitempty"` // human-readable detail message
}

// RootResponse is the response of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Counter int64  `json:"counter"` // process-wide request counter
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Users   int    `json:"users"`
	Version string `json:"version,omitempty"`
}
