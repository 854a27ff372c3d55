package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-service/internal/api/http/handlers"
	"github.com/spec-kit/support-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Tickets            *handlers.TicketsHandler
	FAQ                *handlers.FAQHandler
	IdentityMiddleware *auth.IdentityMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	identified := app.Group("", cfg.IdentityMiddleware.Handle)

	tickets := identified.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)

	identified.Get("/users/:userId/tickets", cfg.Tickets.ListUserTickets)

	faq := app.Group("/faq")
	faq.Get("", cfg.FAQ.ListArticles)
	faq.Get("/search", cfg.FAQ.SearchArticles)
	faq.Post("/suggest", cfg.FAQ.SuggestArticles)
	faq.Get("/:id", cfg.FAQ.GetArticle)
	faq.Post("/:id/rate", cfg.FAQ.RateArticle)

	faqAuthored := faq.Group("", cfg.IdentityMiddleware.Handle)
	faqAuthored.Post("", cfg.FAQ.CreateArticle)
	faqAuthored.Patch("/:id", cfg.FAQ.UpdateArticle)
	faqAuthored.Delete("/:id", cfg.FAQ.DeleteArticle)
}
