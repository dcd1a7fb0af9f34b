package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebsiteDetailsID is the primary key of the only website_details row.
const WebsiteDetailsID = 1

type AboutPageSection struct {
	Heading     string `json:"heading"`
	Content     string `json:"content"`
	ImagePrompt string `json:"image_prompt"`
	ImageURL    string `json:"image_url,omitempty"`
}

type AboutPageContent struct {
	PageTitle    string             `json:"page_title"`
	Introduction AboutPageSection   `json:"introduction"`
	Sections     []AboutPageSection `json:"sections"`
}

// WebsiteDetails holds branding, contact info and the About page.
type WebsiteDetails struct {
	ID               uint                                  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	CompanyName      string                                `gorm:"size:200" json:"company_name"`
	LogoURL          string                                `gorm:"type:text" json:"logo_url"`
	Tel              string                                `gorm:"size:50" json:"tel"`
	Whatsapp         string                                `gorm:"size:255" json:"whatsapp"`
	Email            string                                `gorm:"size:255" json:"email"`
	Address          string                                `gorm:"type:text" json:"address"`
	BankDetails      string                                `gorm:"type:text" json:"bank_details"`
	ThemeColor       string                                `gorm:"size:20" json:"theme_color"`
	IntroLogoURL     string                                `gorm:"type:text" json:"intro_logo_url"`
	IntroImageURL    string                                `gorm:"type:text" json:"intro_image_url"`
	FontFamily       string                                `gorm:"size:200" json:"font_family"`
	BackgroundColor  string                                `gorm:"size:20" json:"background_color"`
	TextColor        string                                `gorm:"size:20" json:"text_color"`
	CardColor        string                                `gorm:"size:20" json:"card_color"`
	BorderColor      string                                `gorm:"size:20" json:"border_color"`
	AboutPageContent *datatypes.JSONType[AboutPageContent] `gorm:"type:jsonb" json:"about_page_content"`
	UpdatedAt        time.Time                             `json:"updated_at"`
}

// About returns the decoded About page, or nil when none has been saved.
func (w *WebsiteDetails) About() *AboutPageContent {
	if w.AboutPageContent == nil {
		return nil
	}
	content := w.AboutPageContent.Data()
	return &content
}

func (w *WebsiteDetails) SetAbout(content *AboutPageContent) {
	if content == nil {
		w.AboutPageContent = nil
		return
	}
	wrapped := datatypes.NewJSONType(*content)
	w.AboutPageContent = &wrapped
}
