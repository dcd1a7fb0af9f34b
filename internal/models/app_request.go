package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppRequestThinking = "thinking"
	AppRequestDone     = "done"
)

// AppRequest records a problem the advisor could not match to any app.
type AppRequest struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProblemDescription string    `gorm:"type:text;not null" json:"problem_description"`
	Status             string    `gorm:"size:20;not null;default:'thinking'" json:"status"`
	SubmittedAt        time.Time `gorm:"not null;index" json:"submitted_at"`
}

func ValidAppRequestStatus(s string) bool {
	return s == AppRequestThinking || s == AppRequestDone
}
