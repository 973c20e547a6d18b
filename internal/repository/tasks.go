package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"task-api/internal/models"
)

// sortColumns maps API-level sort field names to table columns.
// ORDER BY cannot be parameterized, so only values from this map
// ever reach the query text.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

type pgTaskStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskStore(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskStore {
	return &pgTaskStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *pgTaskStore) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (owner_id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			s.logger.Error().
				Int64("owner_id", task.OwnerID).
				Msg("task owner does not exist")
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Int64("owner_id", task.OwnerID).
		Msg("inserted task")

	return nil
}

func (s *pgTaskStore) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task := &models.Task{ID: id}

	const selectTaskByIDQuery = `
SELECT owner_id,
       title,
       description,
       status,
       priority,
       due_date,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task by id")

	return task, nil
}

func (s *pgTaskStore) ListByOwner(ctx context.Context, opts ListOptions) (*TaskPage, error) {
	where := "WHERE owner_id = $1"
	args := []any{opts.OwnerID}
	if opts.Status != nil {
		where += " AND status = $2"
		args = append(args, *opts.Status)
	}

	countQuery := "SELECT count(*) FROM tasks " + where

	var total int64
	err := s.pgPool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("owner_id", opts.OwnerID).
			Msg("failed to count tasks by owner")
		return nil, err
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	selectQuery := fmt.Sprintf(`
SELECT id,
       title,
       description,
       status,
       priority,
       due_date,
       created_at,
       updated_at
FROM tasks
%s
ORDER BY %s %s
LIMIT $%d OFFSET $%d
`, where, column, direction, len(args)+1, len(args)+2)

	args = append(args, opts.Size, opts.Page*opts.Size)

	rows, err := s.pgPool.Query(ctx, selectQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("owner_id", opts.OwnerID).
			Msg("failed to select tasks by owner")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, opts.Size)
	for rows.Next() {
		task := &models.Task{OwnerID: opts.OwnerID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("owner_id", opts.OwnerID).
		Msg("selected tasks by owner")

	return &TaskPage{
		Tasks:         tasks,
		TotalElements: total,
		Page:          opts.Page,
		Size:          opts.Size,
	}, nil
}

func (s *pgTaskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    due_date = $5,
    updated_at = $6
WHERE id = $7
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	return nil
}

func (s *pgTaskStore) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")

	return nil
}
