package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/fortress/internal/models"
)

// TokenConfig holds the two signing secrets and lifetimes of the token
// service. Access and refresh tokens are independent signed artifacts:
// each is an HS256 JWT signed with its own secret.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims are the JWT claims carried by both token kinds: subject is the
// user id, plus a role claim and the registered expiry.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim into the numeric user id.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim %q: %w", c.Subject, err)
	}
	return id, nil
}

// GenerateAccessToken creates a short-lived access token for the user.
func GenerateAccessToken(cfg TokenConfig, user models.User) (string, error) {
	return generateToken(cfg.AccessSecret, cfg.AccessTTL, user)
}

// GenerateRefreshToken creates a long-lived refresh token for the user.
func GenerateRefreshToken(cfg TokenConfig, user models.User) (string, error) {
	return generateToken(cfg.RefreshSecret, cfg.RefreshTTL, user)
}

func generateToken(secret []byte, ttl time.Duration, user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fortress",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates signature and expiry against the given secret
// and returns the parsed claims. Tokens are stateless: there is no
// revocation list, validity is solely signature plus expiry plus the
// presence of the required claims.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject claim")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("missing or invalid role claim")
	}

	return claims, nil
}
