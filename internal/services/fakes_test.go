package services

import (
	"context"
	"sort"

	"task-api/internal/models"
	"task-api/internal/repository"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeTaskStore struct {
	nextID int64
	tasks  map[int64]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*models.Task)}
}

func (s *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	s.nextID++
	task.ID = s.nextID
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *fakeTaskStore) ListByOwner(_ context.Context, opts repository.ListOptions) (*repository.TaskPage, error) {
	matched := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.OwnerID != opts.OwnerID {
			continue
		}
		if opts.Status != nil && task.Status != *opts.Status {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}

	// Creation-time ordering is all the service tests rely on.
	sort.Slice(matched, func(i, j int) bool {
		if opts.Descending {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := opts.Page * opts.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.Size
	if end > len(matched) {
		end = len(matched)
	}

	return &repository.TaskPage{
		Tasks:         matched[start:end],
		TotalElements: total,
		Page:          opts.Page,
		Size:          opts.Size,
	}, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
