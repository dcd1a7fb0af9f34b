package dto

import "github.com/jstyp/storefront-backend/internal/models"

type WebsiteDetailsRequest struct {
	CompanyName      string                   `json:"company_name" validate:"max=200"`
	LogoURL          string                   `json:"logo_url"`
	Tel              string                   `json:"tel" validate:"max=50"`
	Whatsapp         string                   `json:"whatsapp" validate:"max=255"`
	Email            string                   `json:"email" validate:"omitempty,email"`
	Address          string                   `json:"address"`
	BankDetails      string                   `json:"bank_details"`
	ThemeColor       string                   `json:"theme_color" validate:"omitempty,hexcolor"`
	IntroLogoURL     string                   `json:"intro_logo_url"`
	IntroImageURL    string                   `json:"intro_image_url"`
	FontFamily       string                   `json:"font_family" validate:"max=200"`
	BackgroundColor  string                   `json:"background_color" validate:"omitempty,hexcolor"`
	TextColor        string                   `json:"text_color" validate:"omitempty,hexcolor"`
	CardColor        string                   `json:"card_color" validate:"omitempty,hexcolor"`
	BorderColor      string                   `json:"border_color" validate:"omitempty,hexcolor"`
	AboutPageContent *models.AboutPageContent `json:"about_page_content"`
}

// WebsiteDetailsResponse flattens the stored About page JSON.
type WebsiteDetailsResponse struct {
	CompanyName      string                   `json:"company_name"`
	LogoURL          string                   `json:"logo_url"`
	Tel              string                   `json:"tel"`
	Whatsapp         string                   `json:"whatsapp"`
	Email            string                   `json:"email"`
	Address          string                   `json:"address"`
	BankDetails      string                   `json:"bank_details"`
	ThemeColor       string                   `json:"theme_color"`
	IntroLogoURL     string                   `json:"intro_logo_url"`
	IntroImageURL    string                   `json:"intro_image_url"`
	FontFamily       string                   `json:"font_family"`
	BackgroundColor  string                   `json:"background_color"`
	TextColor        string                   `json:"text_color"`
	CardColor        string                   `json:"card_color"`
	BorderColor      string                   `json:"border_color"`
	AboutPageContent *models.AboutPageContent `json:"about_page_content"`
}

func NewWebsiteDetailsResponse(d *models.WebsiteDetails) WebsiteDetailsResponse {
	return WebsiteDetailsResponse{
		CompanyName:      d.CompanyName,
		LogoURL:          d.LogoURL,
		Tel:              d.Tel,
		Whatsapp:         d.Whatsapp,
		Email:            d.Email,
		Address:          d.Address,
		BankDetails:      d.BankDetails,
		ThemeColor:       d.ThemeColor,
		IntroLogoURL:     d.IntroLogoURL,
		IntroImageURL:    d.IntroImageURL,
		FontFamily:       d.FontFamily,
		BackgroundColor:  d.BackgroundColor,
		TextColor:        d.TextColor,
		CardColor:        d.CardColor,
		BorderColor:      d.BorderColor,
		AboutPageContent: d.About(),
	}
}
