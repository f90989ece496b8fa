package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	db "github.com/ferchini45-svg/carrito/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *db.Repository {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &db.Credentials{
		Driver:            db.DriverPostgres,
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations/postgres",
	}

	repo, err := db.NewRepository(creds)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations(creds))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestPostgres_CheckoutRoundTrip(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)

	u := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateUser(ctx, u))
	assert.ErrorIs(t, repo.CreateUser(ctx, &domain.User{Name: "B", Email: "ana@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}), domain.ErrEmailTaken)

	order := newOrder(u.ID, time.Now().UTC(), line(1, 2, "9.99"), line(2, 1, "39.90"))
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrderForUser(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "59.88", got.Total.StringFixed(2))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Classic T-Shirt", got.Lines[0].ProductName)

	events, err := repo.GetUnpublishedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].OrderID)
	assert.Contains(t, string(events[0].Payload), `"order_id"`)
}

func TestPostgres_LinesFailureRollsBack(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	u := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateUser(ctx, u))

	err := repo.CreateOrder(ctx, newOrder(u.ID, time.Now().UTC(), line(1, 1, "9.99"), line(999, 1, "1.00")))
	require.Error(t, err)

	orders, err := repo.ListOrdersByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
