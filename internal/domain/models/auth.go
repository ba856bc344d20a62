package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// MiniAppClaims represents the JWT claims issued by the mini-app shell after
// it has validated the chat platform's init data. The subject carries the
// platform's numeric user id.
type MiniAppClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Username             string `json:"username,omitempty"`
	LanguageCode         string `json:"language_code,omitempty"`
	IsPremium            bool   `json:"is_premium,omitempty"`
}

// OwnerID parses the subject claim into the numeric owner key all
// repositories and services are scoped by.
func (c *MiniAppClaims) OwnerID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
