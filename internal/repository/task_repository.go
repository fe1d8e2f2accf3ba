package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tasktrack/tasktrack/internal/apperr"
	"github.com/tasktrack/tasktrack/internal/models"
	"github.com/tasktrack/tasktrack/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskFilter narrows List. Zero values mean "any".
type TaskFilter struct {
	Status   string // types.StatusAll, StatusCompleted or StatusPending
	Priority int
	Category string
	Sort     string // types.SortPriority (default) or types.SortCreatedAt
}

// TaskPatch lists the fields to change; nil pointers are left untouched.
type TaskPatch struct {
	Title    *string
	Done     *bool
	Priority *int
	Category *string
	DueDate  *time.Time
	Tags     *[]string
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Done == nil && p.Priority == nil &&
		p.Category == nil && p.DueDate == nil && p.Tags == nil
}

// TaskRepository is the task store. Every method takes the owner id
// explicitly; a task owned by someone else behaves as if it did not exist.
type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

func (r *TaskRepository) List(ctx context.Context, ownerID uint, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	switch filter.Status {
	case types.StatusCompleted:
		query = query.Where("done = ?", true)
	case types.StatusPending:
		query = query.Where("(done = ? OR done IS NULL)", false)
	}

	if filter.Priority != 0 {
		query = query.Where("priority = ?", filter.Priority)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	switch filter.Sort {
	case types.SortCreatedAt, types.SortNewest:
		query = query.Order("created_at DESC").Order("id DESC")
	default:
		query = query.Order("priority ASC").Order("created_at ASC").Order("id ASC")
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Update applies patch in a single UPDATE statement and returns the stored row.
func (r *TaskRepository) Update(ctx context.Context, ownerID, taskID uint, patch TaskPatch) (*models.Task, error) {
	updates := map[string]interface{}{"updated_at": r.now()}

	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Done != nil {
		updates["done"] = *patch.Done
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*patch.Tags)
	}

	return r.updateColumns(ctx, ownerID, taskID, updates)
}

// Toggle flips done atomically; a NULL done counts as false.
func (r *TaskRepository) Toggle(ctx context.Context, ownerID, taskID uint) (*models.Task, error) {
	return r.updateColumns(ctx, ownerID, taskID, map[string]interface{}{
		"done":       gorm.Expr("NOT COALESCE(done, ?)", false),
		"updated_at": r.now(),
	})
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) updateColumns(ctx context.Context, ownerID, taskID uint, updates map[string]interface{}) (*models.Task, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", taskID, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}

	return r.Get(ctx, ownerID, taskID)
}
