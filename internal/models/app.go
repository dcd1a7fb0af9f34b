package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// App is a catalog listing. PinCode and the download URLs are only
// exposed to admins or after a successful unlock.
type App struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string         `gorm:"size:200;not null" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	LongDescription    string         `gorm:"type:text" json:"long_description"`
	Price              string         `gorm:"size:100" json:"price"`
	ImageURL           string         `gorm:"type:text" json:"image_url"`
	HeroImageURL       string         `gorm:"type:text" json:"hero_image_url"`
	Screenshots        pq.StringArray `gorm:"type:text[]" json:"screenshots"`
	Features           pq.StringArray `gorm:"type:text[]" json:"features"`
	Abilities          pq.StringArray `gorm:"type:text[]" json:"abilities"`
	WhyItWorks         string         `gorm:"type:text" json:"why_it_works"`
	DedicatedPurpose   string         `gorm:"type:text" json:"dedicated_purpose"`
	TermsAndConditions string         `gorm:"type:text" json:"terms_and_conditions"`
	PinCode            string         `gorm:"size:50" json:"pin_code,omitempty"`
	ApkURL             string         `gorm:"type:text" json:"apk_url,omitempty"`
	IosURL             string         `gorm:"type:text" json:"ios_url,omitempty"`
	PwaURL             string         `gorm:"type:text" json:"pwa_url,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Ratings       []AppRating `gorm:"foreignKey:AppID;constraint:OnDelete:CASCADE" json:"ratings"`
	AverageRating float64     `gorm:"-" json:"average_rating"`
	RatingCount   int         `gorm:"-" json:"rating_count"`
}

// Public strips the fields that must not leave the admin console.
func (a App) Public() App {
	a.PinCode = ""
	a.ApkURL = ""
	a.IosURL = ""
	a.PwaURL = ""
	return a
}

// ComputeRatingSummary fills AverageRating and RatingCount from Ratings.
func (a *App) ComputeRatingSummary() {
	a.RatingCount = len(a.Ratings)
	if a.RatingCount == 0 {
		a.AverageRating = 0
		return
	}
	total := 0
	for _, r := range a.Ratings {
		total += r.Rating
	}
	a.AverageRating = float64(total) / float64(a.RatingCount)
}

// AppRating holds one client's score for one app.
type AppRating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	AppID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_ratings_app_client" json:"app_id"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_ratings_app_client;index" json:"client_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
