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
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/notes-app/internal/auth"
	"github.com/ayush/notes-app/internal/config"
	"github.com/ayush/notes-app/internal/middleware"
	"github.com/ayush/notes-app/internal/notes"
	"github.com/ayush/notes-app/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.TokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET must be set")
	}

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	noteStore := store.NewNoteStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	noteCache := store.NewNoteCache(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Tokens & handlers ────────────────────────────────────
	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(pgStore, tokens)
	noteHandler := notes.NewHandler(noteStore, minioStore, noteCache)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to Notes App"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Account routes
	r.Post("/create-account", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.With(middleware.RequireAuth(tokens)).Get("/get-user", authHandler.Me)

	// Note routes (protected)
	r.Route("/notes", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/add-note", noteHandler.Add)
		r.Put("/edit-note/{noteId}", noteHandler.Edit)
		r.Get("/get-all-notes", noteHandler.GetAll)
		r.Delete("/delete-note/{noteId}", noteHandler.Delete)
		r.Put("/update-note-pin/{noteId}", noteHandler.UpdatePin)
		r.Get("/search-notes", noteHandler.Search)
		r.Put("/upload-attachment/{noteId}", noteHandler.UploadAttachment)
		r.Get("/download-attachment/{noteId}", noteHandler.DownloadAttachment)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
