package dto

import "github.com/google/uuid"

type CreateAppRequestRequest struct {
	ProblemDescription string `json:"problem_description" validate:"required,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateRedownloadRequest struct {
	AppID uuid.UUID `json:"app_id" validate:"required"`
}

type ResolveRedownloadRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
