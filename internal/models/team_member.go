package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is a staff account; Pin is its admin console credential.
type TeamMember struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName       string    `gorm:"size:100;not null" json:"first_name"`
	LastName        string    `gorm:"size:100;not null" json:"last_name"`
	Tel             string    `gorm:"size:50" json:"tel"`
	Email           string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Pin             string    `gorm:"size:20;not null;uniqueIndex" json:"-"`
	Role            string    `gorm:"size:100" json:"role"`
	ProfileImageURL string    `gorm:"type:text" json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (m *TeamMember) FullName() string {
	return m.FirstName + " " + m.LastName
}
