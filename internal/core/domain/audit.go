package domain

import "time"

// AuditRecord is one append-only entry in the security audit trail.
// Records are never mutated or deleted once written.
type AuditRecord struct {
	ID          string    `json:"-"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
