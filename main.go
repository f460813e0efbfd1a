package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"kitabghar/config"
	"kitabghar/handlers"
	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/service"
	"kitabghar/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	if cfg.SessionSecret == config.DevSessionSecret {
		log.Println("warning: SESSION_SECRET not set; using the development fallback, which is unsafe for production")
	}

	db := store.New()
	if cfg.DataFile != "" {
		if err := db.EnableSnapshot(cfg.DataFile); err != nil {
			log.Fatal("snapshot:", err)
		}
	}
	db.Seed()

	files, err := service.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("upload dir:", err)
	}
	log.Println("upload directory:", files.Dir())

	revoked := store.NewRevocations()
	authHandler := &handlers.AuthHandler{
		Store:     db,
		Revoked:   revoked,
		JWTSecret: cfg.SessionSecret,
		TokenTTL:  cfg.TokenTTL,
	}
	uploadHandler := &handlers.UploadHandler{
		Store:    db,
		Files:    files,
		MaxBytes: cfg.MaxUploadBytes(),
	}
	booksHandler := &handlers.BooksHandler{Store: db, Files: files}
	adminHandler := &handlers.AdminHandler{Store: db}
	profileHandler := &handlers.ProfileHandler{Store: db}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"welcome to kitabghar."}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.SessionSecret, revoked))
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/books", booksHandler.List)
			r.Get("/books/{id}", booksHandler.Get)
			r.Get("/books/{id}/download", booksHandler.Download)
			r.Get("/books/{id}/read", booksHandler.Read)
			r.Patch("/books/{id}", booksHandler.Edit)
			r.Delete("/books/{id}", booksHandler.Delete)
			r.Get("/categories", booksHandler.Categories)
			r.Get("/me", profileHandler.Me)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapUpload))
				r.Post("/upload", uploadHandler.Upload)
			})
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapManageUsers))
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
	if cfg.DataFile != "" {
		db.Persist()
	}
}
