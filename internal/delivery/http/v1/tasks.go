package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"task-api/internal/models"
	"task-api/internal/repository"
	"task-api/internal/services"
)

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      int64      `json:"userId"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		UserID:      task.OwnerID,
	}
}

type taskPageResponse struct {
	Content       []taskResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int64          `json:"totalPages"`
}

func newTaskPageResponse(page *repository.TaskPage) taskPageResponse {
	content := make([]taskResponse, len(page.Tasks))
	for i, task := range page.Tasks {
		content[i] = newTaskResponse(task)
	}

	var totalPages int64
	if page.Size > 0 {
		totalPages = (page.TotalElements + int64(page.Size) - 1) / int64(page.Size)
	}

	return taskPageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    totalPages,
	}
}

type taskRequest struct {
	Title       string               `json:"title" binding:"required,min=3,max=200"`
	Description string               `json:"description" binding:"omitempty,max=2000"`
	Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time           `json:"dueDate"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortBindingError(c, err)
		return
	}

	task, err := h.tasks.Create(c, services.CreateTaskParams{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	var statusFilter *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			h.logger.Error().
				Str("status", raw).
				Msg("invalid status filter")
			abort(c, newBadRequestError("invalid status filter"))
			return
		}
		statusFilter = &status
	}

	page, err := parseUintQuery(c, "page", 0)
	if err != nil {
		abort(c, newBadRequestError("invalid page parameter"))
		return
	}
	size, err := parseUintQuery(c, "size", 10)
	if err != nil || size == 0 {
		abort(c, newBadRequestError("invalid size parameter"))
		return
	}

	result, err := h.tasks.ListByOwner(c, services.ListTasksParams{
		OwnerID:   user.ID,
		Status:    statusFilter,
		Page:      page,
		Size:      size,
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		Direction: c.DefaultQuery("direction", "DESC"),
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskPageResponse(result))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	task, err := h.tasks.GetByID(c, taskID, user.ID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	var req taskRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortBindingError(c, err)
		return
	}

	task, err := h.tasks.Update(c, services.UpdateTaskParams{
		TaskID:      taskID,
		RequesterID: user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	err = h.tasks.Delete(c, taskID, user.ID)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	h.logger.Error().
		Err(err).
		Msg("task operation failed")
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newBadRequestError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAccessDenied):
		abort(c, newBadRequestError(services.ErrTaskAccessDenied.Error()))
	case errors.Is(err, services.ErrOwnerNotFound):
		abort(c, newBadRequestError(services.ErrOwnerNotFound.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func parseTaskID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func parseUintQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("invalid query parameter")
	}
	return value, nil
}
