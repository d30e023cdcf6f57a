package models

import "time"

// Entry is a filesystem entry belonging to a user. The signup flow only ever
// creates folder entries (the home directory and its standard subfolders).
type Entry struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	ParentID  *string   `json:"parent_id,omitempty" db:"parent_id"`
	Name      string    `json:"name" db:"name"`
	EntryType string    `json:"entry_type" db:"entry_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
