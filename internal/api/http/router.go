package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/mindengage-mock/internal/auth"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
	"github.com/mind-engage/mindengage-mock/internal/storage"
	syncx "github.com/mind-engage/mindengage-mock/internal/sync"
)

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	DB       *sqlx.DB
	Service  *mock.Service
	Users    *auth.UserStore
	Auth     *authmw.AuthService
	Blobs    storage.BlobStore
	Events   *syncx.EventRepo
	MaxBytes int64 // request body cap for uploads and submissions

	EnableRegistration bool
}

// Mount registers every route on r.
func Mount(r chi.Router, d Deps) {
	r.Get("/healthz", HealthzHandler)
	r.Get("/readyz", ReadyzHandler(d.DB))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Users))
	r.Post("/auth/register", auth.RegisterHandler(d.Auth, d.Users, d.EnableRegistration))

	r.Route("/uploads", func(ar chi.Router) {
		MountAssets(ar, d.Blobs)
	})

	// Protected API (JWT → role from DB → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth), authmw.AttachRoleFromDB(d.DB))
		if d.MaxBytes > 0 {
			pr.Use(middleware.RequestSize(d.MaxBytes))
		}

		pr.Post("/account/password", ChangePasswordHandler(d.Users))

		// Test taking
		pr.With(rbac.Require(rbac.PermMockTake)).Get("/mocks", ListActiveMocksHandler(d.Service))
		pr.With(rbac.Require(rbac.PermMockTake)).Get("/mocks/{mockID}/test", TestContentHandler(d.Service))
		pr.With(rbac.Require(rbac.PermMockTake)).Post("/mocks/{mockID}/submit", SubmitHandler(d.Service))

		// Results; ownership is checked per result
		pr.With(rbac.RequireAny(rbac.PermResultViewOwn, rbac.PermResultViewAll)).
			Get("/results", MyResultsHandler(d.Service))
		pr.With(rbac.RequireAny(rbac.PermResultViewOwn, rbac.PermResultViewAll)).
			Get("/results/{resultID}", ResultHandler(d.Service))

		pr.Route("/admin", func(ar chi.Router) {
			ar.Group(func(cr chi.Router) {
				cr.Use(rbac.Require(rbac.PermContentManage))

				cr.Get("/mocks", ListMocksHandler(d.Service))
				cr.Post("/mocks", CreateMockHandler(d.Service))
				cr.Get("/mocks/{mockID}", GetMockHandler(d.Service))
				cr.Put("/mocks/{mockID}", UpdateMockHandler(d.Service))
				cr.Delete("/mocks/{mockID}", DeleteMockHandler(d.Service))

				cr.Get("/readings", ListReadingsHandler(d.Service))
				cr.Post("/readings", CreateReadingHandler(d.Service))
				cr.Get("/readings/{readingID}", GetReadingHandler(d.Service))
				cr.Put("/readings/{readingID}", UpdateReadingHandler(d.Service))
				cr.Delete("/readings/{readingID}", DeleteReadingHandler(d.Service))

				cr.Get("/listenings", ListListeningsHandler(d.Service))
				cr.Post("/listenings", CreateListeningHandler(d.Service))
				cr.Get("/listenings/{listeningID}", GetListeningHandler(d.Service))
				cr.Put("/listenings/{listeningID}", UpdateListeningHandler(d.Service))
				cr.Delete("/listenings/{listeningID}", DeleteListeningHandler(d.Service))

				cr.Get("/writings", ListWritingsHandler(d.Service))
				cr.Post("/writings", CreateWritingHandler(d.Service))
				cr.Get("/writings/{writingID}", GetWritingHandler(d.Service))
				cr.Put("/writings/{writingID}", UpdateWritingHandler(d.Service))
				cr.Delete("/writings/{writingID}", DeleteWritingHandler(d.Service))
			})

			ar.With(rbac.Require(rbac.PermResultViewAll)).Get("/results", AdminResultsHandler(d.Service))
			ar.With(rbac.Require(rbac.PermResultViewAll)).Get("/results/export", ExportResultsHandler(d.Service))
			ar.With(rbac.Require(rbac.PermResultGrade)).
				Post("/results/{resultID}/writing/{answerID}", ScoreWritingHandler(d.Service))

			ar.With(rbac.Require(rbac.PermAuditView)).Get("/events", ListEventsHandler(d.Events))

			ar.With(rbac.Require(rbac.PermUsersManage)).Get("/users", ListUsersHandler(d.Users))
			ar.With(rbac.Require(rbac.PermUsersManage)).Post("/users/{userID}/role", AdminUpdateUserRoleHandler(d.Users))
		})
	})
}
