package model

import "time"

// Session represents a live login. A token is only honored while its
// session is still present in the store, so deleting the session revokes
// the token before its expiry.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
