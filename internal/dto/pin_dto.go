package dto

import "github.com/google/uuid"

type ClientDetailsRequest struct {
	CompanyName   string `json:"company_name" validate:"max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	ContactInfo   string `json:"contact_info" validate:"max=255"`
}

type IssuePinRequest struct {
	AppID         uuid.UUID            `json:"app_id" validate:"required"`
	ClientDetails ClientDetailsRequest `json:"client_details"`
	ClientID      *uuid.UUID           `json:"client_id,omitempty"`
}
