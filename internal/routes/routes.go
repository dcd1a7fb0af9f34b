package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/handlers"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"github.com/jstyp/storefront-backend/internal/middleware"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Apps     *handlers.AppHandler
	Pins     *handlers.PinHandler
	Clients  *handlers.ClientHandler
	Requests *handlers.RequestHandler
	Team     *handlers.TeamHandler
	Website  *handlers.WebsiteHandler
	AI       *handlers.AIHandler
	Videos   *handlers.VideoHandler
	Upload   *handlers.UploadHandler

	ClientGuard *middleware.BruteForceProtection
	AdminGuard  *middleware.BruteForceProtection
}

func perIPLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

// Setup mounts every route. uploadDir, when set, is served at /uploads.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, uploadDir string) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if uploadDir != "" {
		app.Static("/uploads", uploadDir, fiber.Static{MaxAge: 86400})
	}

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(perIPLimiter(60))

	api.Get("/health", h.Health.Check)

	// Storefront (public)
	api.Get("/apps", h.Apps.List)
	api.Get("/apps/:id", h.Apps.Get)
	api.Post("/apps/:id/unlock", middleware.OptionalJWT(cfg), h.Apps.Unlock)
	api.Get("/website-details", h.Website.Get)
	api.Get("/videos", h.Videos.List)
	api.Post("/app-requests", h.Requests.CreateAppRequest)
	api.Post("/ai/match", perIPLimiter(10), h.AI.Match)

	// Logins: 10 req/min per IP plus progressive lockout.
	// Registered before the /admin group so its JWT middleware never runs here.
	loginLimit := perIPLimiter(10)
	api.Post("/clients/signup", loginLimit, h.Auth.Signup)
	api.Post("/clients/login", loginLimit, h.ClientGuard.Check(), h.Auth.Login)
	api.Post("/admin/login", loginLimit, h.AdminGuard.Check(), h.Auth.AdminLogin)

	auth := api.Group("/auth", loginLimit)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	// Client area
	client := api.Group("/client", middleware.JWTProtected(cfg), middleware.ClientRequired())
	client.Get("/me", h.Clients.Me)
	client.Get("/apps", h.Clients.PurchasedApps)
	client.Put("/apps/:id/rating", h.Apps.Rate)
	client.Post("/redownload-requests", h.Requests.CreateRedownload)
	client.Get("/redownload-requests", h.Requests.ListMyRedownloads)

	// Admin console (team or master)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired())
	admin.Get("/apps", h.Apps.AdminList)
	admin.Get("/apps/:id", h.Apps.AdminGet)
	admin.Post("/apps", h.Apps.Create)
	admin.Put("/apps/:id", h.Apps.Update)
	admin.Delete("/apps/:id", h.Apps.Delete)

	admin.Post("/pins", h.Pins.Issue)
	admin.Get("/pins", h.Pins.List)

	admin.Get("/clients", h.Clients.AdminList)
	admin.Get("/clients/:id", h.Clients.AdminGet)

	admin.Get("/app-requests", h.Requests.ListAppRequests)
	admin.Patch("/app-requests/:id", h.Requests.UpdateAppRequest)
	admin.Get("/redownload-requests", h.Requests.ListRedownloads)
	admin.Put("/redownload-requests/:id", h.Requests.ResolveRedownload)

	admin.Post("/ai", h.AI.Dispatch)
	admin.Get("/videos/:id/status", h.Videos.Status)

	// Master only
	master := middleware.MasterRequired()
	admin.Put("/website-details", master, h.Website.Save)
	admin.Get("/team-members", master, h.Team.List)
	admin.Post("/team-members", master, h.Team.Create)
	admin.Put("/team-members/:id", master, h.Team.Update)
	admin.Delete("/team-members/:id", master, h.Team.Delete)
	admin.Post("/upload", master, h.Upload.Upload)
	admin.Post("/videos", master, h.Videos.Generate)
}
