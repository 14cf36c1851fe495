package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued at login.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}
