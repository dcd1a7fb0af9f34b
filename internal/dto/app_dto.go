package dto

import "github.com/google/uuid"

// AppRequest is the admin payload for creating or replacing an app.
// Image fields accept either a URL or a base64 data URL.
type AppRequest struct {
	Name               string   `json:"name" validate:"required,max=200"`
	Description        string   `json:"description"`
	LongDescription    string   `json:"long_description"`
	Price              string   `json:"price" validate:"max=100"`
	ImageURL           string   `json:"image_url"`
	HeroImageURL       string   `json:"hero_image_url"`
	Screenshots        []string `json:"screenshots"`
	Features           []string `json:"features"`
	Abilities          []string `json:"abilities"`
	WhyItWorks         string   `json:"why_it_works"`
	DedicatedPurpose   string   `json:"dedicated_purpose"`
	TermsAndConditions string   `json:"terms_and_conditions"`
	PinCode            string   `json:"pin_code" validate:"max=50"`
	ApkURL             string   `json:"apk_url"`
	IosURL             string   `json:"ios_url"`
	PwaURL             string   `json:"pwa_url"`
}

type RatingRequest struct {
	Rating int `json:"rating"`
}

type UnlockRequest struct {
	Pin string `json:"pin" validate:"required"`
}

// UnlockResponse carries the download links granted by a PIN.
type UnlockResponse struct {
	AppID    uuid.UUID `json:"app_id"`
	ApkURL   string    `json:"apk_url"`
	IosURL   string    `json:"ios_url"`
	PwaURL   string    `json:"pwa_url"`
	Redeemed bool      `json:"redeemed"`
}
