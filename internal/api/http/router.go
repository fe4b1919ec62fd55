package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/http/handlers"
	"github.com/spec-kit/attendant-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Pages          *handlers.PagesHandler
	Auth           *handlers.AuthHandler
	Conversations  *handlers.ConversationsHandler
	Messages       *handlers.MessagesHandler
	Catalog        *handlers.CatalogHandler
	Uploads        *handlers.UploadsHandler
	AuthMiddleware *auth.AuthMiddleware
	StaticDir      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}
	app.Get("/uploads/:filename", cfg.Uploads.Serve)

	registerPages(app, cfg)
	registerAPI(app, cfg)
}

func registerPages(app *fiber.App, cfg RouteConfig) {
	anonymous := cfg.AuthMiddleware.RedirectIfAuthenticated("/")
	app.Get("/login", anonymous, cfg.Pages.LoginForm)
	app.Post("/login", anonymous, cfg.Pages.Login)
	app.Get("/register", anonymous, cfg.Pages.RegisterForm)
	app.Post("/register", anonymous, cfg.Pages.Register)
	app.Get("/logout", cfg.Pages.Logout)

	app.Get("/forgot_password", cfg.Pages.ForgotPasswordForm)
	app.Post("/forgot_password", cfg.Pages.ForgotPassword)
	app.Get("/reset_password/:token", cfg.Pages.ResetPasswordForm)
	app.Post("/reset_password/:token", cfg.Pages.ResetPassword)

	app.Get("/", cfg.AuthMiddleware.RequirePage(cfg.Pages.LoginRequired), cfg.Pages.Dashboard)
}

func registerAPI(app *fiber.App, cfg RouteConfig) {
	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	protect := cfg.AuthMiddleware.Handle

	api := app.Group("/api")
	api.Get("/conversations", protect, cfg.Conversations.List)
	api.Post("/conversations/start", protect, cfg.Conversations.Start)
	api.Post("/conversations/close", protect, cfg.Conversations.Close)
	api.Get("/conversations/:contact", protect, cfg.Conversations.Detail)
	api.Post("/messages", protect, cfg.Messages.SendText)
	api.Post("/media", protect, cfg.Messages.SendMedia)
	api.Get("/contacts", protect, cfg.Catalog.ListContacts)
	api.Post("/contacts", protect, cfg.Catalog.SaveContact)
	api.Get("/quick_replies", protect, cfg.Catalog.ListQuickReplies)
	api.Post("/quick_replies", protect, cfg.Catalog.CreateQuickReply)

	// Paths called by the dashboard script.
	legacy := []fiber.Handler{legacyErrors, protect}
	api.Post("/send_media", append(legacy, cfg.Messages.SendMedia)...)
	api.Post("/close_conversation", append(legacy, cfg.Conversations.Close)...)
	api.Post("/save_contact_name", append(legacy, cfg.Catalog.SaveContact)...)
	api.Get("/ready_messages", append(legacy, cfg.Catalog.ListReadyMessages)...)
	api.Post("/add_ready_message", append(legacy, cfg.Catalog.CreateQuickReply)...)
	app.Get("/conversation/:contact", append(legacy, cfg.Conversations.Detail)...)
	app.Post("/send-message", append(legacy, cfg.Messages.SendText)...)
	app.Post("/start_new_conversation", append(legacy, cfg.Conversations.Start)...)
}
