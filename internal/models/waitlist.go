package models

import "time"

// WaitlistEntry is one signup captured by the landing page widget.
//
// ID and CreatedAt are set once at construction and never change. Email is
// stored exactly as the user submitted it; deduplication happens on a
// normalized copy that is never persisted. Company and Role are optional:
// when omitted they stay empty and are dropped from the serialized form
// rather than written as empty strings.
type WaitlistEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
