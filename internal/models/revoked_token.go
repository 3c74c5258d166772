package models

import "time"

// RevokedToken marks a session token as unusable before its natural expiry.
type RevokedToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	RevokedAt time.Time `json:"revokedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
