package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-mock/internal/api/http"
	"github.com/mind-engage/mindengage-mock/internal/auth"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/config"
	"github.com/mind-engage/mindengage-mock/internal/db"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/scheduler"
	"github.com/mind-engage/mindengage-mock/internal/storage"
	syncx "github.com/mind-engage/mindengage-mock/internal/sync"
)

func main() {
	cfg := config.FromEnv()
	if cfg.Insecure() {
		log.Printf("WARNING: AUTH_HMAC_SECRET is the built-in development key; set it before exposing this server")
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN, db.Options{Retries: cfg.DBConnectRetries})
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL+"/uploads")
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	events := syncx.NewEventRepo(dbh)
	svc := mock.NewService(mock.NewSQLStore(dbh), bs, mock.WithAuditor(events))

	// --- Users / auth ---
	users := auth.NewUserStore(dbh)
	created, err := users.EnsureAdmin(context.Background(), cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("provision admin: %v", err)
	}
	if created {
		log.Printf("created administrator %q", cfg.AdminUser)
	}
	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		DB:                 dbh,
		Service:            svc,
		Users:              users,
		Auth:               authSvc,
		Blobs:              bs,
		Events:             events,
		MaxBytes:           cfg.MaxUploadBytes,
		EnableRegistration: cfg.EnableRegistration,
	})

	sched := scheduler.New(svc, cfg.StaleReportEvery, cfg.StaleAfter)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
