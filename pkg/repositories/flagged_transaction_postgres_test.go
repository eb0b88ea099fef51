package repositories

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startPostgres runs a disposable postgres and returns its DSN without scheme.
func startPostgres(t *testing.T) string {
	t.Helper()
	if os.Getenv("FRAUD_API_IT") != "1" {
		t.Skip("set FRAUD_API_IT=1 to run postgres integration tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const (
		user     = "fraud"
		password = "fraud"
		dbName   = "fraud_predictions"
	)
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)
}

func TestPostgresRepository(t *testing.T) {
	dsn := startPostgres(t)
	logger := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, database.RunMigrations(logger, pkg.DriverPostgres, dsn))
	// second run is a no-op
	require.NoError(t, database.RunMigrations(logger, pkg.DriverPostgres, dsn))

	db, closer, err := database.New(ctx, logger, database.Config{PrimaryDSN: dsn, MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(closer)
	repo := NewPostgresFlaggedRepository(logger, db)

	records, err := repo.FindPage(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	first, err := repo.Create(ctx, transfer(181))
	require.NoError(t, err)
	second, err := repo.Create(ctx, transfer(9000))
	require.NoError(t, err)
	assert.Greater(t, second, first)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	records, err = repo.FindPage(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second, records[0].ID)
	assert.Equal(t, 9000.0, *records[0].Amount)
	assert.Equal(t, first, records[1].ID)
}
