package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tasktrack/tasktrack/internal/apperr"
	"github.com/tasktrack/tasktrack/internal/models"
	"github.com/tasktrack/tasktrack/internal/repository"
	"github.com/tasktrack/tasktrack/internal/types"
)

// ListParams are the raw query parameters of a task listing.
type ListParams struct {
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=all completed pending"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=1 2 3"`
	Category string `form:"category" json:"category"`
	Sort     string `form:"sort" json:"sort" validate:"omitempty,oneof=priority created_at newest"`
}

type CreateTaskInput struct {
	Title    string
	Priority *int
	Category *string
	DueDate  *time.Time
	Tags     []string
}

type UpdateTaskInput struct {
	Title    *string
	Done     *bool
	Priority *int
	Category *string
	DueDate  *time.Time
	Tags     *[]string
}

type TaskService struct {
	tasks *repository.TaskRepository
	log   *slog.Logger
}

func NewTaskService(tasks *repository.TaskRepository, log *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

func (s *TaskService) List(ctx context.Context, ownerID uint, params ListParams) ([]models.Task, error) {
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))
	params.Sort = strings.ToLower(strings.TrimSpace(params.Sort))
	params.Priority = strings.TrimSpace(params.Priority)

	if err := validateStruct(params); err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{
		Status:   params.Status,
		Category: strings.TrimSpace(params.Category),
		Sort:     params.Sort,
	}
	if params.Priority != "" {
		filter.Priority, _ = strconv.Atoi(params.Priority)
	}

	return s.tasks.List(ctx, ownerID, filter)
}

// Create stores a new task owned by ownerID. A missing or out-of-range
// priority becomes medium, a missing category becomes "general".
func (s *TaskService) Create(ctx context.Context, ownerID uint, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.NewValidationError("title", "can't be blank")
	}

	priority := types.DefaultPriority
	if in.Priority != nil && types.ValidPriority(*in.Priority) {
		priority = *in.Priority
	}

	category := types.DefaultCategory
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		category = strings.TrimSpace(*in.Category)
	}

	task := &models.Task{
		OwnerID:  ownerID,
		Title:    title,
		Priority: priority,
		Category: category,
		DueDate:  in.DueDate,
		Tags:     NormalizeTags(in.Tags),
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "task created", "user_id", ownerID, "task_id", task.ID)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID uint) (*models.Task, error) {
	return s.tasks.Get(ctx, ownerID, taskID)
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID uint, in UpdateTaskInput) (*models.Task, error) {
	verr := &apperr.ValidationError{}
	patch := repository.TaskPatch{
		Done:    in.Done,
		DueDate: in.DueDate,
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			verr.Add("title", "can't be blank")
		}
		patch.Title = &title
	}

	if in.Priority != nil {
		if !types.ValidPriority(*in.Priority) {
			verr.Add("priority", "must be one of 1, 2, 3")
		}
		patch.Priority = in.Priority
	}

	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			verr.Add("category", "can't be blank")
		}
		patch.Category = &category
	}

	if in.Tags != nil {
		tags := NormalizeTags(*in.Tags)
		patch.Tags = &tags
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Nothing to change: answer with the stored row and keep updated_at.
	if patch.IsEmpty() {
		return s.tasks.Get(ctx, ownerID, taskID)
	}

	return s.tasks.Update(ctx, ownerID, taskID, patch)
}

func (s *TaskService) Toggle(ctx context.Context, ownerID, taskID uint) (*models.Task, error) {
	return s.tasks.Toggle(ctx, ownerID, taskID)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return err
	}

	s.log.DebugContext(ctx, "task deleted", "user_id", ownerID, "task_id", taskID)
	return nil
}

// NormalizeTags trims every tag and drops empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
