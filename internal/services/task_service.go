package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"task-api/internal/models"
	"task-api/internal/repository"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	users  repository.UserStore
	tasks  repository.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	users repository.UserStore,
	tasks repository.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		users:  users,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	_, err := s.users.GetByID(ctx, params.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error().
				Int64("owner_id", params.OwnerID).
				Msg("task owner not found")
			return nil, ErrOwnerNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select owner")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		Description: params.Description,
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}

	err = s.tasks.Create(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("owner_id", task.OwnerID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListByOwner(ctx context.Context, params ListTasksParams) (*repository.TaskPage, error) {
	// Anything that is not explicitly ascending sorts descending.
	descending := !strings.EqualFold(params.Direction, "ASC")

	page, err := s.tasks.ListByOwner(ctx, repository.ListOptions{
		OwnerID:    params.OwnerID,
		Status:     params.Status,
		Page:       params.Page,
		Size:       params.Size,
		SortBy:     params.SortBy,
		Descending: descending,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("owner_id", params.OwnerID).
			Msg("failed to list tasks")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(page.Tasks)).
		Int64("owner_id", params.OwnerID).
		Msg("listed tasks")
	return page, nil
}

func (s *taskServiceImpl) GetByID(ctx context.Context, taskID, requesterID int64) (*models.Task, error) {
	task, err := s.authorize(ctx, taskID, requesterID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("fetched task")
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.authorize(ctx, params.TaskID, params.RequesterID)
	if err != nil {
		return nil, err
	}

	task.Title = params.Title
	task.Description = params.Description
	task.DueDate = params.DueDate
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, taskID, requesterID int64) error {
	_, err := s.authorize(ctx, taskID, requesterID)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Msg("deleted task")
	return nil
}

// authorize loads the task and checks ownership. The existence check
// runs first so a nonexistent id never reveals that access would have
// been denied.
func (s *taskServiceImpl) authorize(ctx context.Context, taskID, requesterID int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			s.logger.Debug().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	if task.OwnerID != requesterID {
		s.logger.Error().
			Int64("task_id", taskID).
			Int64("owner_id", task.OwnerID).
			Int64("requester_id", requesterID).
			Msg("task access denied")
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}
