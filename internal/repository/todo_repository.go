package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/giogio-dev/todo-service/internal/domain"
)

// TodoRepository defines the data operations the service layer needs.
// Implementations must make Transaction hand back a repository bound
// to the transaction, commit when fn returns nil, and roll back when
// fn returns an error.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	CreateMany(ctx context.Context, todos []domain.Todo) (int64, error)
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	FindAll(ctx context.Context) ([]domain.Todo, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Todo, error)
	FindByIDs(ctx context.Context, ids []uint, order string) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	UpdateByIDs(ctx context.Context, ids []uint, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	Reset(ctx context.Context) error
	Transaction(ctx context.Context, fn func(TodoRepository) error) error
}

// gormTodoRepository implements TodoRepository using GORM.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// CreateMany inserts all rows in one statement and reports how many
// were inserted. Generated keys are not read back here; callers
// re-fetch by recency inside the same transaction.
func (r *gormTodoRepository) CreateMany(ctx context.Context, todos []domain.Todo) (int64, error) {
	result := r.db.WithContext(ctx).Create(&todos)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// FindAll returns every todo, newest first.
func (r *gormTodoRepository) FindAll(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// FindRecent returns the most recently inserted rows.
func (r *gormTodoRepository) FindRecent(ctx context.Context, limit int) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByIDs returns the rows whose IDs are in the given set. The order
// clause is passed through verbatim; empty means ascending by ID.
func (r *gormTodoRepository) FindByIDs(ctx context.Context, ids []uint, order string) ([]domain.Todo, error) {
	if order == "" {
		order = "id ASC"
	}
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order(order).Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

// UpdateByIDs applies the field map to every row in the ID set and
// reports the number of rows actually touched.
func (r *gormTodoRepository) UpdateByIDs(ctx context.Context, ids []uint, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Todo{}).Where("id IN ?", ids).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Todo{}, id).Error
}

func (r *gormTodoRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Todo{})
	return result.RowsAffected, result.Error
}

// Reset wipes the table and restarts the ID sequence at 1.
func (r *gormTodoRepository) Reset(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("TRUNCATE TABLE todos RESTART IDENTITY").Error; err != nil {
		return fmt.Errorf("reset todos table: %w", err)
	}
	return nil
}

// Transaction runs fn against a repository bound to a database
// transaction. A nil return commits; any error rolls back.
func (r *gormTodoRepository) Transaction(ctx context.Context, fn func(TodoRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTodoRepository{db: tx})
	})
}
