package models

import "time"

// Group is a platform-wide user group. Every new account is enrolled in the
// default group at signup.
type Group struct {
	ID        int64     `json:"id" db:"id"`
	UID       string    `json:"uid" db:"uid"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
