package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docvault/internal/filter"
	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// Dependencies carries everything the HTTP layer needs from main.
type Dependencies struct {
	DB             *sql.DB
	Log            *zap.Logger
	Documents      service.DocumentService
	Correspondents service.CorrespondentService
	Tags           service.TagService
	Logs           service.LogService
	Upload         service.UploadService
	Auth           service.AuthService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	// Signature-gated rather than session-authenticated.
	app.Post("/push", PushDocument(deps.Upload, log))
	// Registered ahead of the /api group so its auth middleware never sees it.
	app.Post("/api/token", IssueToken(deps.Auth))

	auth := middleware.RequireAuth(deps.Auth)

	api := app.Group("/api", auth)
	registerNamed(api.Group("/correspondents"), deps.Correspondents, filter.Correspondents)
	registerNamed(api.Group("/tags"), deps.Tags, filter.Tags)

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(deps.Documents))
	docs.Get("/:id", GetDocument(deps.Documents))
	docs.Put("/:id", UpdateDocument(deps.Documents))
	docs.Patch("/:id", UpdateDocument(deps.Documents))
	docs.Delete("/:id", DeleteDocument(deps.Documents))

	api.Get("/logs", ListLogs(deps.Logs))
	api.Get("/logs/:group", GetLog(deps.Logs))

	app.Get("/fetch/:kind/:id", auth, FetchFile(deps.Documents))
}

func registerNamed[T any](r fiber.Router, svc service.NamedService[T], set filter.Set) {
	r.Get("/", ListNamed(svc, set))
	r.Post("/", CreateNamed(svc))
	r.Get("/:id", GetNamed(svc))
	r.Put("/:id", UpdateNamed(svc, false))
	r.Patch("/:id", UpdateNamed(svc, true))
	r.Delete("/:id", DeleteNamed(svc))
}
