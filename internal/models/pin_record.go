package models

import (
	"time"

	"github.com/google/uuid"
)

type ClientDetails struct {
	CompanyName   string `gorm:"size:200" json:"company_name"`
	ContactPerson string `gorm:"size:200" json:"contact_person"`
	ContactInfo   string `gorm:"size:255" json:"contact_info"`
}

// PinRecord is a single-use purchase code. Once IsRedeemed is true the
// row is never written again.
type PinRecord struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Pin           string        `gorm:"size:16;not null;uniqueIndex" json:"pin"`
	AppID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"app_id"`
	AppName       string        `gorm:"size:200;not null" json:"app_name"`
	ClientDetails ClientDetails `gorm:"embedded;embeddedPrefix:client_" json:"client_details"`
	ClientID      *uuid.UUID    `gorm:"type:uuid;index" json:"client_id,omitempty"`
	ClientName    *string       `gorm:"size:200" json:"client_name,omitempty"`
	IsRedeemed    bool          `gorm:"not null;default:false" json:"is_redeemed"`
	GeneratedAt   time.Time     `gorm:"not null;index" json:"generated_at"`
	RedeemedAt    *time.Time    `json:"redeemed_at,omitempty"`
}
