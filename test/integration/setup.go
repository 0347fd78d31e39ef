package integration

import (
	"context"
	"testing"
	"time"

	"dosadelight/internal/config"
	"dosadelight/internal/database"
	"dosadelight/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Store     store.Store
}

// SetupTestDB starts a PostgreSQL container and returns a record store on it
// with every collection ensured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	recordStore := store.NewPostgresStore(pool, logger)
	for _, c := range store.Collections {
		if err := recordStore.Ensure(ctx, c); err != nil {
			t.Fatalf("failed to ensure %s: %v", c, err)
		}
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Store:     recordStore,
	}
}

// CleanupDB removes every stored record.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE records RESTART IDENTITY"); err != nil {
		t.Logf("failed to clean records: %v", err)
	}
}

// SetupFileStore returns a flat-file record store in a temporary directory
// with every collection ensured.
func SetupFileStore(t *testing.T) store.Store {
	t.Helper()

	fileStore := store.NewFileStore(t.TempDir(), nil, zerolog.Nop())
	for _, c := range store.Collections {
		if err := fileStore.Ensure(context.Background(), c); err != nil {
			t.Fatalf("failed to ensure %s: %v", c, err)
		}
	}
	return fileStore
}
