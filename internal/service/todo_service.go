package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/giogio-dev/todo-service/internal/domain"
	"github.com/giogio-dev/todo-service/internal/repository"
)

// --- Request DTOs ---

// CreateTodoRequest is the body of POST /todo. Only the title is
// accepted; completed always starts false.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

// BulkCreateItem is one element of the POST /todos body.
type BulkCreateItem struct {
	Title     string `json:"title"`
	Completed *bool  `json:"completed"`
}

// UpdateTodoRequest holds the partial-update fields. Pointers
// distinguish an omitted field from its zero value.
type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// BulkUpdateRequest is the body of PATCH /todos.
type BulkUpdateRequest struct {
	IDs       []int64 `json:"ids"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// --- Response DTOs ---

// TodoResponse is the wire representation of a todo.
type TodoResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Envelope wraps every single- and bulk-item success response.
// Count always equals len(Data).
type Envelope struct {
	Count   int            `json:"count"`
	Data    []TodoResponse `json:"data"`
	Message string         `json:"message"`
}

// --- Service Interface ---

// TodoService contains the core todo logic: normalization, the CRUD
// operations, and the bulk reconciliation algorithm. It signals typed
// errors (domain.NotFoundError) and never swallows store failures.
type TodoService interface {
	GetTodo(ctx context.Context, id uint) (*Envelope, error)
	ListTodos(ctx context.Context) ([]TodoResponse, error)
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*Envelope, error)
	UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*Envelope, error)
	DeleteTodo(ctx context.Context, id uint) (*Envelope, error)

	BulkCreate(ctx context.Context, items []BulkCreateItem) (*Envelope, error)
	BulkUpdate(ctx context.Context, req BulkUpdateRequest) (*Envelope, error)
	BulkDelete(ctx context.Context, ids []int64) (*Envelope, error)

	Seed(ctx context.Context) error
	Reset(ctx context.Context) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates the todo service on top of a repository.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

// --- Single-item operations ---

func (s *todoService) GetTodo(ctx context.Context, id uint) (*Envelope, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("Todo with ID %d not found", id)
		}
		return nil, fmt.Errorf("fetch todo %d: %w", id, err)
	}
	return envelope([]domain.Todo{*todo}, "Successfully fetched todo"), nil
}

func (s *todoService) ListTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	return toResponses(todos), nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*Envelope, error) {
	todo := &domain.Todo{
		Title:     strings.TrimSpace(req.Title),
		Completed: false,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return envelope([]domain.Todo{*todo}, "Successfully created todo"), nil
}

// UpdateTodo applies a partial update inside one transaction so the
// exists-check and the mutation are atomic with respect to concurrent
// deletes.
func (s *todoService) UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*Envelope, error) {
	var updated domain.Todo
	err := s.repo.Transaction(ctx, func(tx repository.TodoRepository) error {
		todo, err := tx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundf("Todo with ID %d not found", id)
			}
			return fmt.Errorf("fetch todo %d for update: %w", id, err)
		}

		if req.Title != nil {
			todo.Title = strings.TrimSpace(*req.Title)
		}
		if req.Completed != nil {
			todo.Completed = *req.Completed
		}

		if err := tx.Update(ctx, todo); err != nil {
			return fmt.Errorf("update todo %d: %w", id, err)
		}
		updated = *todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelope([]domain.Todo{updated}, "Successfully updated todo"), nil
}

// DeleteTodo removes one row and returns its pre-deletion content.
func (s *todoService) DeleteTodo(ctx context.Context, id uint) (*Envelope, error) {
	var deleted domain.Todo
	err := s.repo.Transaction(ctx, func(tx repository.TodoRepository) error {
		todo, err := tx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundf("Todo with ID %d not found", id)
			}
			return fmt.Errorf("fetch todo %d for deletion: %w", id, err)
		}

		if err := tx.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}
		deleted = *todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelope([]domain.Todo{deleted}, "Successfully deleted todo"), nil
}

// --- Bulk operations ---

// BulkCreate inserts all items in one transaction. The bulk insert
// does not return generated keys, so the created rows are re-fetched
// by recency inside the same transaction.
func (s *todoService) BulkCreate(ctx context.Context, items []BulkCreateItem) (*Envelope, error) {
	todos := make([]domain.Todo, 0, len(items))
	for _, item := range items {
		completed := false
		if item.Completed != nil {
			completed = *item.Completed
		}
		todos = append(todos, domain.Todo{
			Title:     strings.TrimSpace(item.Title),
			Completed: completed,
		})
	}

	var created []domain.Todo
	var count int64
	err := s.repo.Transaction(ctx, func(tx repository.TodoRepository) error {
		var err error
		count, err = tx.CreateMany(ctx, todos)
		if err != nil {
			return fmt.Errorf("create todos: %w", err)
		}
		created, err = tx.FindRecent(ctx, int(count))
		if err != nil {
			return fmt.Errorf("fetch created todos: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelope(created, fmt.Sprintf("Successfully created %d todos", count)), nil
}

// BulkUpdate applies the supplied fields to every requested ID, then
// reconciles the affected-row count against the deduplicated ID set.
// On any mismatch the transaction rolls back and the missing IDs are
// reported; a partially applied bulk update never commits.
func (s *todoService) BulkUpdate(ctx context.Context, req BulkUpdateRequest) (*Envelope, error) {
	ids := dedupeIDs(req.IDs)

	fields := map[string]any{"updated_at": time.Now()}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}

	var updated []domain.Todo
	var count int64
	err := s.repo.Transaction(ctx, func(tx repository.TodoRepository) error {
		var err error
		count, err = tx.UpdateByIDs(ctx, ids, fields)
		if err != nil {
			return fmt.Errorf("update todos: %w", err)
		}

		if count != int64(len(ids)) {
			existing, err := tx.FindByIDs(ctx, ids, "")
			if err != nil {
				return fmt.Errorf("fetch existing todos: %w", err)
			}
			missing := missingIDs(ids, existing)
			return domain.NotFoundf("Update failed. Missing IDs: %s", joinIDs(missing))
		}

		updated, err = tx.FindByIDs(ctx, ids, "updated_at DESC")
		if err != nil {
			return fmt.Errorf("fetch updated todos: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelope(updated, fmt.Sprintf("Successfully updated %d todos", count)), nil
}

// BulkDelete removes every requested ID, all-or-nothing: the rows are
// fetched first and nothing is deleted unless the whole set exists.
func (s *todoService) BulkDelete(ctx context.Context, rawIDs []int64) (*Envelope, error) {
	ids := dedupeIDs(rawIDs)

	var deleted []domain.Todo
	var count int64
	err := s.repo.Transaction(ctx, func(tx repository.TodoRepository) error {
		found, err := tx.FindByIDs(ctx, ids, "")
		if err != nil {
			return fmt.Errorf("fetch todos for deletion: %w", err)
		}

		if len(found) != len(ids) {
			missing := missingIDs(ids, found)
			return domain.NotFoundf("Delete failed. Missing IDs: %s", joinIDs(missing))
		}

		count, err = tx.DeleteByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete todos: %w", err)
		}
		deleted = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envelope(deleted, fmt.Sprintf("Successfully deleted %d todos", count)), nil
}

// --- Maintenance operations ---

// Seed inserts the fixture rows used by the e2e suites.
func (s *todoService) Seed(ctx context.Context) error {
	fixtures := []domain.Todo{
		{Title: "Go to Italy", Completed: true},
		{Title: "Join Passione", Completed: false},
		{Title: "Find the arrow", Completed: false},
	}
	if _, err := s.repo.CreateMany(ctx, fixtures); err != nil {
		return fmt.Errorf("seed todos: %w", err)
	}
	return nil
}

// Reset wipes the table and restarts the ID sequence.
func (s *todoService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset todos: %w", err)
	}
	return nil
}

// --- Helpers ---

func envelope(todos []domain.Todo, message string) *Envelope {
	return &Envelope{
		Count:   len(todos),
		Data:    toResponses(todos),
		Message: message,
	}
}

func toResponses(todos []domain.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, TodoResponse{
			ID:        todo.ID,
			Title:     todo.Title,
			Completed: todo.Completed,
			CreatedAt: todo.CreatedAt.Format(time.RFC3339),
			UpdatedAt: todo.UpdatedAt.Format(time.RFC3339),
		})
	}
	return responses
}

// dedupeIDs keeps the first occurrence of each ID, preserving request
// order. IDs are validated to the positive 32-bit range before the
// service runs, so the uint conversion is safe.
func dedupeIDs(ids []int64) []uint {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, uint(id))
	}
	return unique
}

// missingIDs returns the requested IDs that are absent from found,
// in request order.
func missingIDs(requested []uint, found []domain.Todo) []uint {
	existing := make(map[uint]struct{}, len(found))
	for _, todo := range found {
		existing[todo.ID] = struct{}{}
	}
	missing := make([]uint, 0, len(requested))
	for _, id := range requested {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ", ")
}
