// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is the bcrypt output and is never serialized; the json:"-"
// tag keeps it out of every API response. IsAdmin gates the catalog's
// mutating endpoints; it is flipped by an admin, never self-assigned.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
