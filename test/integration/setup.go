package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vibeshare/vibeshare/internal/adapters/handler/http"
	"github.com/vibeshare/vibeshare/internal/adapters/hash"
	repo "github.com/vibeshare/vibeshare/internal/adapters/repository/postgres"
	"github.com/vibeshare/vibeshare/internal/core/ports"
	"github.com/vibeshare/vibeshare/internal/core/services"
)

const migrationsDir = "../../internal/adapters/repository/postgres/migrations"

// startPostgres boots a throwaway database and applies the project's
// migrations, in the same order cmd/migrations would.
func startPostgres(t *testing.T) (testcontainers.Container, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("vibeshare_test"),
		postgres.WithUsername("vibeshare"),
		postgres.WithPassword("vibeshare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	return pgContainer, db
}

func applyMigrations(db *sql.DB) error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

// memoryStore stands in for Azure Blob Storage. URLs keep the real host
// shape so ownership checks behave as in production.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Upload(_ context.Context, data []byte, name, _, category string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "https://testacct.blob.core.windows.net/" + category + "/" + name
	s.objects[url] = data
	return url, nil
}

func (s *memoryStore) Delete(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[url]; ok {
		delete(s.objects, url)
		return true, nil
	}
	return false, nil
}

func (s *memoryStore) Owns(url string) bool {
	return strings.Contains(url, ".blob.core.windows.net")
}

var _ ports.ObjectStore = (*memoryStore)(nil)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Store       *memoryStore
	TokenRepo   ports.TokenRepository
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	dbContainer, db := startPostgres(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemoryStore()

	userRepo := repo.NewUserRepository(db)
	tokenRepo := repo.NewTokenRepository(db)
	postRepo := repo.NewPostRepository(db)

	sessionSvc := services.NewSessionService(userRepo, tokenRepo, []byte("test-secret"), time.Hour)
	authSvc := services.NewAuthService(userRepo, sessionSvc, hash.NewBcryptHasher(), store)
	postSvc := services.NewPostService(postRepo, store, nil, logger)

	authHandler := handler.NewAuthHandler(authSvc, sessionSvc)
	postHandler := handler.NewPostHandler(postSvc)
	authenticator := handler.NewAuthenticator(sessionSvc)
	router := handler.NewRouter(authHandler, postHandler, authenticator)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Store:       store,
		TokenRepo:   tokenRepo,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
