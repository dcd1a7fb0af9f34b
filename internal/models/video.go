package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VideoProcessing = "processing"
	VideoCompleted  = "completed"
	VideoFailed     = "failed"
)

type Video struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Prompt        string    `gorm:"type:text;not null" json:"prompt"`
	Status        string    `gorm:"size:20;not null;default:'processing';index" json:"status"`
	OperationName string    `gorm:"size:255" json:"operation_name,omitempty"`
	PollAttempts  int       `gorm:"not null;default:0" json:"-"`
	VideoURL      *string   `gorm:"type:text" json:"video_url,omitempty"`
	Error         string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
