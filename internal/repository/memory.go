package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/giogio-dev/todo-service/internal/domain"
)

// memoryTodoRepository is a map-backed TodoRepository used by the
// service and server tests. Transaction emulates rollback by
// snapshotting state before fn runs and restoring it on error, so the
// all-or-nothing contracts can be exercised without a database.
type memoryTodoRepository struct {
	mu     sync.Mutex
	todos  map[uint]domain.Todo
	nextID uint
}

// NewMemoryTodoRepository creates an empty in-memory repository.
func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{
		todos:  make(map[uint]domain.Todo),
		nextID: 1,
	}
}

func (r *memoryTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(todo)
	return nil
}

func (r *memoryTodoRepository) CreateMany(ctx context.Context, todos []domain.Todo) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range todos {
		r.insert(&todos[i])
	}
	return int64(len(todos)), nil
}

func (r *memoryTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &todo, nil
}

func (r *memoryTodoRepository) FindAll(ctx context.Context) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todos := r.all()
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID > todos[j].ID })
	return todos, nil
}

func (r *memoryTodoRepository) FindRecent(ctx context.Context, limit int) ([]domain.Todo, error) {
	todos, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit < len(todos) {
		todos = todos[:limit]
	}
	return todos, nil
}

func (r *memoryTodoRepository) FindByIDs(ctx context.Context, ids []uint, order string) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todos := make([]domain.Todo, 0, len(ids))
	for _, id := range ids {
		if todo, ok := r.todos[id]; ok {
			todos = append(todos, todo)
		}
	}
	if order == "updated_at DESC" {
		sort.Slice(todos, func(i, j int) bool { return todos[i].UpdatedAt.After(todos[j].UpdatedAt) })
	} else {
		sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	}
	return todos, nil
}

func (r *memoryTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[todo.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	todo.UpdatedAt = time.Now()
	r.todos[todo.ID] = *todo
	return nil
}

func (r *memoryTodoRepository) UpdateByIDs(ctx context.Context, ids []uint, fields map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		todo, ok := r.todos[id]
		if !ok {
			continue
		}
		if title, ok := fields["title"].(string); ok {
			todo.Title = title
		}
		if completed, ok := fields["completed"].(bool); ok {
			todo.Completed = completed
		}
		if updatedAt, ok := fields["updated_at"].(time.Time); ok {
			todo.UpdatedAt = updatedAt
		}
		r.todos[id] = todo
		count++
	}
	return count, nil
}

func (r *memoryTodoRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func (r *memoryTodoRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		if _, ok := r.todos[id]; ok {
			delete(r.todos, id)
			count++
		}
	}
	return count, nil
}

func (r *memoryTodoRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos = make(map[uint]domain.Todo)
	r.nextID = 1
	return nil
}

func (r *memoryTodoRepository) Transaction(ctx context.Context, fn func(TodoRepository) error) error {
	r.mu.Lock()
	snapshot := make(map[uint]domain.Todo, len(r.todos))
	for id, todo := range r.todos {
		snapshot[id] = todo
	}
	snapshotNextID := r.nextID
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.todos = snapshot
		r.nextID = snapshotNextID
		r.mu.Unlock()
		return err
	}
	return nil
}

// insert assigns the next ID and both timestamps; callers hold the lock.
func (r *memoryTodoRepository) insert(todo *domain.Todo) {
	now := time.Now()
	todo.ID = r.nextID
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.nextID++
	r.todos[todo.ID] = *todo
}

func (r *memoryTodoRepository) all() []domain.Todo {
	todos := make([]domain.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}
	return todos
}
