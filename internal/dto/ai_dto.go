package dto

import "encoding/json"

type MatchRequest struct {
	Problem string `json:"problem" validate:"required,max=2000"`
}

type MatchResponse struct {
	BestMatchAppID *string `json:"best_match_app_id"`
	Reasoning      string  `json:"reasoning"`
}

// AITaskRequest is the admin AI dispatch envelope; Payload is decoded per task.
type AITaskRequest struct {
	Task    string          `json:"task"`
	Payload json.RawMessage `json:"payload"`
}

type DescriptionPayload struct {
	Keywords string `json:"keywords" validate:"required"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
}

type ListingPayload struct {
	Idea string `json:"idea" validate:"required"`
}

type ListingResponse struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	LongDescription    string   `json:"long_description"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	Abilities          []string `json:"abilities"`
	WhyItWorks         string   `json:"why_it_works"`
	DedicatedPurpose   string   `json:"dedicated_purpose"`
	TermsAndConditions string   `json:"terms_and_conditions"`
}

type ImagePayload struct {
	Prompt      string `json:"prompt" validate:"required"`
	AspectRatio string `json:"aspect_ratio"`
}

type ImageResponse struct {
	ImageURL string `json:"image_url"`
}

type AboutPagePayload struct {
	RawText string `json:"raw_text" validate:"required"`
}
