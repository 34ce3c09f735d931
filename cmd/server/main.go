package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	natsadapter "github.com/vibeshare/vibeshare/internal/adapters/events/nats"
	"github.com/vibeshare/vibeshare/internal/adapters/handler/http"
	"github.com/vibeshare/vibeshare/internal/adapters/hash"
	"github.com/vibeshare/vibeshare/internal/adapters/repository/postgres"
	"github.com/vibeshare/vibeshare/internal/adapters/storage/azureblob"
	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/core/ports"
	"github.com/vibeshare/vibeshare/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.Database.ConnString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	logger.Info("connected to database")

	store, err := azureblob.NewStore(cfg.Blob.ConnectionString, azureblob.Containers{
		Images: cfg.Blob.ContainerImages,
		Videos: cfg.Blob.ContainerVideos,
		GIFs:   cfg.Blob.ContainerGIFs,
	})
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()
	if err := store.EnsureContainers(initCtx); err != nil {
		log.Fatalf("Failed to initialize blob containers: %v", err)
	}

	var publisher ports.EventPublisher
	if cfg.NATSURL != "" {
		natsClient, err := natsadapter.NewClient(natsadapter.Config{
			URL:           cfg.NATSURL,
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsClient.Close()
		publisher = natsadapter.NewEventPublisher(natsClient)
	} else {
		logger.Info("NATS_URL not set, event publishing disabled")
	}

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	postRepo := postgres.NewPostRepository(db)

	sessionSvc := services.NewSessionService(userRepo, tokenRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, sessionSvc, hash.NewBcryptHasher(), store)
	postSvc := services.NewPostService(postRepo, store, publisher, logger)

	authHandler := http.NewAuthHandler(authSvc, sessionSvc)
	postHandler := http.NewPostHandler(postSvc)
	authenticator := http.NewAuthenticator(sessionSvc)
	router := http.NewRouter(authHandler, postHandler, authenticator)

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reaper := services.NewReaper(tokenRepo, cfg.CleanupInterval, logger)
	go reaper.Run(ctx)

	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
