package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Ramsey-B/reed/pkg/database"
)

const postgresImage = "postgres:15-alpine"

// MigrationsDir returns the absolute path of db/pg
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "pg")
}

// Postgres returns a migrated database for integration tests. It uses DB_HOST when set,
// otherwise it starts a container when a docker daemon is reachable. The test is skipped
// under -short or when neither is available.
func Postgres(t *testing.T) database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts, ok := postgresFromEnv()
	if !ok {
		if !dockerAvailable() {
			t.Skip("skipping postgres integration test: DB_HOST not set and docker unavailable")
		}
		opts = startPostgres(ctx, t)
	}

	db, err := database.Connect(ctx, opts, Logger())
	if err != nil {
		t.Skipf("skipping postgres integration test: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	migrations := database.NewMigrationService(Logger(), &database.MigrationConfig{
		MigrationFolderPath: MigrationsDir(),
	})
	if err := migrations.MigratePostgres(db, opts.Name); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func postgresFromEnv() (database.Options, bool) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return database.Options{}, false
	}

	return database.Options{
		Driver:       "postgres",
		Host:         host,
		Port:         envOr("DB_PORT", "5432"),
		User:         envOr("DB_USER_NAME", "postgres"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         envOr("DB_NAME", "reed_test"),
		SSLMode:      envOr("DB_SSL_MODE", "disable"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dockerAvailable() bool {
	if os.Getenv("DOCKER_HOST") != "" {
		return true
	}
	_, err := os.Stat("/var/run/docker.sock")
	return err == nil
}

func startPostgres(ctx context.Context, t *testing.T) database.Options {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "reed",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "reed",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skipping postgres integration test: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	return database.Options{
		Driver:       "postgres",
		Host:         host,
		Port:         port.Port(),
		User:         "reed",
		Password:     "password",
		Name:         "reed",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
}
