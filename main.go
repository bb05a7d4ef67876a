package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"readlog/config"
	"readlog/handlers"
	"readlog/logger"
	"readlog/middleware"
	"readlog/service"
	"readlog/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb", zap.Error(err))
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Warn("mongodb disconnect", zap.Error(err))
		}
	}()
	log.Info("connected to mongodb", zap.String("db", cfg.DBName))

	entries := &store.Entries{DB: db}
	users := &store.Users{DB: db}
	books := &store.Books{DB: db}

	var fragments service.FragmentStore
	if cfg.CacheS3Bucket != "" {
		fragments, err = service.NewS3Store(ctx, cfg.CacheS3Bucket, cfg.CacheS3Region,
			cfg.CacheS3Prefix, cfg.CacheS3AccessKey, cfg.CacheS3SecretKey)
		if err != nil {
			log.Fatal("s3 cache", zap.Error(err))
		}
		log.Info("fragment cache on s3", zap.String("bucket", cfg.CacheS3Bucket))
	} else {
		fragments = &service.DirStore{Dir: cfg.CacheDir}
		log.Info("fragment cache on disk", zap.String("dir", cfg.CacheDir))
	}
	cache := service.NewRenderCache(entries, users, fragments, log)

	authHandler := &handlers.AuthHandler{
		Users:        users,
		JWTSecret:    cfg.JWTSecret,
		DefaultEmail: cfg.AuthEmail,
		DefaultPass:  cfg.AuthPass,
		DefaultSlug:  cfg.AuthSlug,
	}
	profileHandler := &handlers.ProfileHandler{
		Users:    users,
		TokenKey: cfg.TokenEncryptionKey,
	}
	postsHandler := &handlers.PostsHandler{
		Entries:   entries,
		Users:     users,
		Books:     books,
		Publisher: service.NewMicropubClient(cfg.MicropubTimeout),
		Cache:     cache,
		BaseURL:   cfg.BaseURL,
		TokenKey:  cfg.TokenEncryptionKey,
		Log:       log,
	}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public surface
	r.Post("/auth/login", authHandler.Login)
	r.Get("/isbn/{isbn}", postsHandler.ISBNStream)
	r.Get("/u/{slug}/posts/{id}", postsHandler.Show)
	if cfg.CacheS3Bucket == "" {
		r.Handle("/fragments/*", http.StripPrefix("/fragments/",
			http.FileServer(http.Dir(cfg.CacheDir))))
	}

	// Signed-in surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Get("/new", postsHandler.Form)
		r.Post("/new", postsHandler.Create)
		r.Get("/posts/{id}/retry", postsHandler.Retry)
		r.Post("/posts/{id}/delete", postsHandler.Delete)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
