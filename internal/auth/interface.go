package auth

import "packrat/internal/domain/models"

// TokenVerifier defines the interface for auth token verification. The
// middleware only needs claims out of a bearer token; how they are verified
// is an implementation detail.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid
	// signature.
	VerifyToken(tokenString string) (*models.MiniAppClaims, error)

	// Close releases any resources held by the verifier (e.g. HTTP
	// connections for JWKS refresh).
	Close() error
}
