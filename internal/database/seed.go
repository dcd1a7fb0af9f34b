package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type demoClient struct {
	Name     string
	Email    string
	Password string
}

type demoRating struct {
	App    string
	Client string
	Rating int
	Pin    string
}

var demoApps = []models.App{
	{
		Name:            "QuantumLeap AI",
		Description:     "Predictive scheduling & smart reminders.",
		LongDescription: "An AI-powered productivity app that organizes your life with predictive scheduling and smart reminders. Integrates with all your calendars and learns your habits to proactively manage your day.",
		Price:           "R499.99",
		ImageURL:        "https://picsum.photos/seed/quantum/500/500",
		HeroImageURL:    "https://picsum.photos/seed/quantum-hero/1200/600",
		Screenshots: pq.StringArray{
			"https://picsum.photos/seed/quantum-ss1/400/800",
			"https://picsum.photos/seed/quantum-ss2/400/800",
			"https://picsum.photos/seed/quantum-ss3/400/800",
		},
		Features:           pq.StringArray{"AI Predictive Scheduling", "Smart Reminders", "Calendar Integration", "Habit Tracking", "Cross-Platform Sync"},
		Abilities:          pq.StringArray{"Organizes your daily tasks automatically.", "Learns your routine to suggest optimal schedules.", "Prevents scheduling conflicts across all your devices."},
		WhyItWorks:         "QuantumLeap understands your workflow, priorities and energy levels, and builds the schedule for you every day.",
		DedicatedPurpose:   "For busy professionals and students who want their time back from manual planning.",
		TermsAndConditions: "QuantumLeap AI accesses your calendar and contacts for scheduling only. We do not sell your data.",
		PinCode:            "1234",
		ApkURL:             "#download-apk",
		IosURL:             "#download-ios",
		PwaURL:             "#download-pwa",
	},
	{
		Name:            "NovaArt Generator",
		Description:     "Turn text prompts into stunning art.",
		LongDescription: "Unleash your creativity with NovaArt. Turn simple text prompts into works of art using generative AI. Perfect for artists, designers and content creators.",
		Price:           "R249.99",
		ImageURL:        "https://picsum.photos/seed/nova/500/500",
		HeroImageURL:    "https://picsum.photos/seed/nova-hero/1200/600",
		Screenshots: pq.StringArray{
			"https://picsum.photos/seed/nova-ss1/400/800",
			"https://picsum.photos/seed/nova-ss2/400/800",
		},
		Features:           pq.StringArray{"Text-to-Image Generation", "Multiple Art Styles", "High-Resolution Export", "Aspect Ratio Control"},
		Abilities:          pq.StringArray{"Creates images from simple text descriptions.", "Allows fine-tuning and editing of generated art.", "Exports in formats ready for professional use."},
		WhyItWorks:         "NovaArt turns creative ideas into finished visuals without needing a professional artist.",
		DedicatedPurpose:   "Built for creatives of all skill levels, from marketers who need quick visuals to artists exploring new mediums.",
		TermsAndConditions: "All generated images are owned by the user. Excessive use may be throttled.",
		PinCode:            "5678",
		ApkURL:             "#download-apk",
		IosURL:             "#download-ios",
		PwaURL:             "#download-pwa",
	},
	{
		Name:            "SecureSphere VPN",
		Description:     "Military-grade encryption for privacy.",
		LongDescription: "Protect your digital privacy with SecureSphere. Strong encryption and a global server network for secure, anonymous browsing.",
		Price:           "R99.99 / month",
		ImageURL:        "https://picsum.photos/seed/secure/500/500",
		HeroImageURL:    "https://picsum.photos/seed/secure-hero/1200/600",
		Screenshots: pq.StringArray{
			"https://picsum.photos/seed/secure-ss1/400/800",
			"https://picsum.photos/seed/secure-ss2/400/800",
		},
		Features:           pq.StringArray{"AES-256 Encryption", "Global Server Network", "No-Logs Policy", "One-Click Connect", "Kill Switch"},
		Abilities:          pq.StringArray{"Encrypts your connection to hide your activity.", "Unblocks services from other countries.", "Protects you on public Wi-Fi."},
		WhyItWorks:         "SecureSphere anonymizes your browsing and secures your data with a single tap.",
		DedicatedPurpose:   "For travelers, remote workers and anyone who values their privacy online.",
		TermsAndConditions: "Strict no-logs policy. Use of the service for illegal activities is prohibited.",
		PinCode:            "9012",
		ApkURL:             "#download-apk",
		IosURL:             "#download-ios",
		PwaURL:             "#download-pwa",
	},
}

var demoWebsite = models.WebsiteDetails{
	ID:              models.WebsiteDetailsID,
	CompanyName:     "JSTYP.me",
	Tel:             "+1234567890",
	Whatsapp:        "https://wa.me/27695989427",
	Email:           "contact@jstyp.me",
	Address:         "123 Innovation Drive, Tech City",
	BankDetails:     "Bank: Future Bank\nAccount: 123456789\nBranch Code: 987654",
	ThemeColor:      "#f97316",
	IntroImageURL:   "https://picsum.photos/1920/1080?grayscale&blur=2",
	FontFamily:      "'Inter', sans-serif",
	BackgroundColor: "#000000",
	TextColor:       "#ffffff",
	CardColor:       "#111827",
	BorderColor:     "#374151",
}

var demoTeam = models.TeamMember{
	FirstName:       "Jason",
	LastName:        "Typ",
	Tel:             "+270000000",
	Email:           "jason@jstyp.me",
	Pin:             "1723",
	Role:            "Lead Developer",
	ProfileImageURL: "https://i.pravatar.cc/150?u=admin-01",
}

var demoClients = []demoClient{
	{Name: "John Doe", Email: "john@example.com", Password: "password123"},
	{Name: "Jane Smith", Email: "jane@example.com", Password: "password123"},
}

// Ratings are backed by a redeemed PIN so every rater owns the app.
var demoRatings = []demoRating{
	{App: "QuantumLeap AI", Client: "john@example.com", Rating: 5, Pin: "DEMQL1"},
	{App: "QuantumLeap AI", Client: "jane@example.com", Rating: 4, Pin: "DEMQL2"},
	{App: "NovaArt Generator", Client: "john@example.com", Rating: 4, Pin: "DEMNA1"},
}

// Seed inserts demo data. Rows that already exist are left untouched.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		apps := make(map[string]uuid.UUID, len(demoApps))
		for _, a := range demoApps {
			app := a
			if err := tx.Omit("Ratings").Where(models.App{Name: app.Name}).FirstOrCreate(&app).Error; err != nil {
				return fmt.Errorf("seed app %q: %w", app.Name, err)
			}
			apps[app.Name] = app.ID
		}

		website := demoWebsite
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&website).Error; err != nil {
			return fmt.Errorf("seed website details: %w", err)
		}

		member := demoTeam
		if err := tx.Where(models.TeamMember{Email: member.Email}).FirstOrCreate(&member).Error; err != nil {
			return fmt.Errorf("seed team member: %w", err)
		}

		clients := make(map[string]models.Client, len(demoClients))
		for _, c := range demoClients {
			hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash demo password: %w", err)
			}
			client := models.Client{Name: c.Name, Email: c.Email}
			if err := tx.Where(models.Client{Email: c.Email}).
				Attrs(models.Client{PasswordHash: string(hash)}).
				FirstOrCreate(&client).Error; err != nil {
				return fmt.Errorf("seed client %q: %w", c.Email, err)
			}
			clients[c.Email] = client
		}

		now := time.Now().UTC()
		for _, r := range demoRatings {
			client := clients[r.Client]
			name := client.Name
			pin := models.PinRecord{
				Pin:     r.Pin,
				AppID:   apps[r.App],
				AppName: r.App,
				ClientDetails: models.ClientDetails{
					CompanyName:   "Demo purchase",
					ContactPerson: client.Name,
					ContactInfo:   client.Email,
				},
				ClientID:    &client.ID,
				ClientName:  &name,
				IsRedeemed:  true,
				GeneratedAt: now,
				RedeemedAt:  &now,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pin).Error; err != nil {
				return fmt.Errorf("seed pin %s: %w", r.Pin, err)
			}
			rating := models.AppRating{AppID: apps[r.App], ClientID: client.ID, Rating: r.Rating}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rating).Error; err != nil {
				return fmt.Errorf("seed rating: %w", err)
			}
		}

		slog.Info("seed completed", "apps", len(apps), "clients", len(clients), "ratings", len(demoRatings))
		return nil
	})
}
