package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/giogio-dev/todo-service/internal/domain"
)

// setupTestRepo spins up a throwaway Postgres container and returns a
// repository bound to it. Requires a Docker daemon; skipped in -short.
func setupTestRepo(t *testing.T) TodoRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository tests in short mode")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("todos_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Todo{}))

	return NewGormTodoRepository(db)
}

func TestGormTodoRepository(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	resetTable := func(t *testing.T) {
		t.Helper()
		require.NoError(t, repo.Reset(ctx))
	}

	t.Run("create and find", func(t *testing.T) {
		resetTable(t)

		todo := &domain.Todo{Title: "Buy milk"}
		require.NoError(t, repo.Create(ctx, todo))
		require.NotZero(t, todo.ID)

		found, err := repo.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", found.Title)
		assert.False(t, found.Completed)
		assert.False(t, found.CreatedAt.IsZero())
		assert.False(t, found.UpdatedAt.Before(found.CreatedAt))
	})

	t.Run("find by missing id returns record not found", func(t *testing.T) {
		resetTable(t)

		_, err := repo.FindByID(ctx, 42)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("create many and fetch recent", func(t *testing.T) {
		resetTable(t)

		count, err := repo.CreateMany(ctx, []domain.Todo{
			{Title: "first"}, {Title: "second"}, {Title: "third"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		recent, err := repo.FindRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "third", recent[0].Title)
		assert.Equal(t, "second", recent[1].Title)
	})

	t.Run("update by id set reports affected rows", func(t *testing.T) {
		resetTable(t)

		_, err := repo.CreateMany(ctx, []domain.Todo{{Title: "a"}, {Title: "b"}})
		require.NoError(t, err)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		ids := []uint{all[0].ID, all[1].ID, 999999}

		count, err := repo.UpdateByIDs(ctx, ids, map[string]any{
			"completed":  true,
			"updated_at": time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		existing, err := repo.FindByIDs(ctx, ids, "")
		require.NoError(t, err)
		assert.Len(t, existing, 2)
		for _, todo := range existing {
			assert.True(t, todo.Completed)
		}
	})

	t.Run("delete by id set", func(t *testing.T) {
		resetTable(t)

		_, err := repo.CreateMany(ctx, []domain.Todo{{Title: "a"}, {Title: "b"}})
		require.NoError(t, err)
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)

		count, err := repo.DeleteByIDs(ctx, []uint{all[0].ID, all[1].ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		remaining, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		resetTable(t)

		todo := &domain.Todo{Title: "Original"}
		require.NoError(t, repo.Create(ctx, todo))

		sentinel := errors.New("abort")
		err := repo.Transaction(ctx, func(tx TodoRepository) error {
			if _, err := tx.UpdateByIDs(ctx, []uint{todo.ID}, map[string]any{"title": "mutated"}); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		found, err := repo.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", found.Title)
	})

	t.Run("transaction commits on success", func(t *testing.T) {
		resetTable(t)

		todo := &domain.Todo{Title: "Original"}
		require.NoError(t, repo.Create(ctx, todo))

		err := repo.Transaction(ctx, func(tx TodoRepository) error {
			_, err := tx.UpdateByIDs(ctx, []uint{todo.ID}, map[string]any{"title": "mutated"})
			return err
		})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "mutated", found.Title)
	})

	t.Run("reset restarts the id sequence", func(t *testing.T) {
		resetTable(t)

		require.NoError(t, repo.Create(ctx, &domain.Todo{Title: "a"}))
		require.NoError(t, repo.Create(ctx, &domain.Todo{Title: "b"}))
		require.NoError(t, repo.Reset(ctx))

		todo := &domain.Todo{Title: "fresh"}
		require.NoError(t, repo.Create(ctx, todo))
		assert.Equal(t, uint(1), todo.ID)
	})
}
