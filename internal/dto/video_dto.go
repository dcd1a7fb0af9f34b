package dto

import "github.com/jstyp/storefront-backend/internal/models"

type GenerateVideoRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateVideoResponse struct {
	Video         *models.Video `json:"video"`
	OperationName string        `json:"operation_name"`
}

type VideoStatusResponse struct {
	Status string        `json:"status"`
	Video  *models.Video `json:"video,omitempty"`
}
