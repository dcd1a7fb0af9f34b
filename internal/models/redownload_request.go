package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RedownloadPending  = "pending"
	RedownloadApproved = "approved"
	RedownloadDenied   = "denied"
)

// RedownloadRequest moves pending -> approved|denied exactly once.
// At most one pending request may exist per (client, app); the partial
// unique index is created in database.Migrate.
type RedownloadRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName      string     `gorm:"size:200;not null" json:"client_name"`
	AppID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"app_id"`
	AppName         string     `gorm:"size:200;not null" json:"app_name"`
	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestedAt     time.Time  `gorm:"not null;index" json:"requested_at"`
	ResolutionNotes *string    `gorm:"type:text" json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}
