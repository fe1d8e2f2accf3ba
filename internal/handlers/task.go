package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/services"
	"github.com/tasktrack/tasktrack/internal/types"
	"github.com/tasktrack/tasktrack/internal/utils"
)

type CreateTaskRequest struct {
	Title    string          `json:"title"`
	Priority *types.Priority `json:"priority"`
	Category *string         `json:"category"`
	DueDate  *types.DueDate  `json:"due_date"`
	Tags     []string        `json:"tags"`
}

// UpdateTaskRequest fields are all optional; absent fields keep their value.
type UpdateTaskRequest struct {
	Title    *string         `json:"title"`
	Done     *bool           `json:"done"`
	Priority *types.Priority `json:"priority"`
	Category *string         `json:"category"`
	DueDate  *types.DueDate  `json:"due_date"`
	Tags     *[]string       `json:"tags"`
}

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var params services.ListParams

	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tasks, err := h.tasks.List(ctx.Request.Context(), userID, params)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponses(tasks))
}

func (h *TaskHandler) GetTask(ctx *gin.Context) {
	userID, taskID, ok := h.ids(ctx)
	if !ok {
		return
	}

	task, err := h.tasks.Get(ctx.Request.Context(), userID, taskID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func (h *TaskHandler) CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if !utils.BindJSON(ctx, &body) {
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), userID, services.CreateTaskInput{
		Title:    body.Title,
		Priority: body.Priority.Ptr(),
		Category: body.Category,
		DueDate:  body.DueDate.Ptr(),
		Tags:     body.Tags,
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(ctx *gin.Context) {
	userID, taskID, ok := h.ids(ctx)
	if !ok {
		return
	}

	var body UpdateTaskRequest

	if !utils.BindJSON(ctx, &body) {
		return
	}

	task, err := h.tasks.Update(ctx.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Title:    body.Title,
		Done:     body.Done,
		Priority: body.Priority.Ptr(),
		Category: body.Category,
		DueDate:  body.DueDate.Ptr(),
		Tags:     body.Tags,
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func (h *TaskHandler) ToggleTask(ctx *gin.Context) {
	userID, taskID, ok := h.ids(ctx)
	if !ok {
		return
	}

	task, err := h.tasks.Toggle(ctx.Request.Context(), userID, taskID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(ctx *gin.Context) {
	userID, taskID, ok := h.ids(ctx)
	if !ok {
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), userID, taskID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ids resolves the caller and the :id param, writing the error response itself.
// A malformed id is reported as 404, the same as a task that is not visible.
func (h *TaskHandler) ids(ctx *gin.Context) (uint, uint, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, 0, false
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return 0, 0, false
	}

	return userID, taskID, true
}
