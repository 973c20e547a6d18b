package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"task-api/internal/models"
)

func newTestTaskService(t *testing.T) (TaskService, *fakeUserStore, *fakeTaskStore) {
	t.Helper()
	users := newFakeUserStore()
	tasks := newFakeTaskStore()
	return NewTaskService(zerolog.Nop(), users, tasks), users, tasks
}

func mustCreateUser(t *testing.T, users *fakeUserStore, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestTaskServiceCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	owner := mustCreateUser(t, users, "alice@x.com")

	task, err := svc.Create(ctx, CreateTaskParams{
		OwnerID: owner.ID,
		Title:   "Buy milk",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if task.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", task.Status, models.StatusPending)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want %q", task.Priority, models.PriorityMedium)
	}
	if task.ID == 0 {
		t.Error("created task has no id")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v on creation", task.CreatedAt, task.UpdatedAt)
	}
}

func TestTaskServiceCreateExplicitFields(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	owner := mustCreateUser(t, users, "alice@x.com")

	status := models.StatusInProgress
	priority := models.PriorityHigh
	due := time.Now().Add(48 * time.Hour)

	task, err := svc.Create(ctx, CreateTaskParams{
		OwnerID:     owner.ID,
		Title:       "Ship release",
		Description: "cut the tag",
		Status:      &status,
		Priority:    &priority,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if task.Status != models.StatusInProgress {
		t.Errorf("status = %q, want %q", task.Status, models.StatusInProgress)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want %q", task.Priority, models.PriorityHigh)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("dueDate = %v, want %v", task.DueDate, due)
	}
}

func TestTaskServiceCreateOwnerNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestTaskService(t)

	_, err := svc.Create(ctx, CreateTaskParams{
		OwnerID: 42,
		Title:   "Buy milk",
	})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("Create error = %v, want ErrOwnerNotFound", err)
	}
}

func TestTaskServiceOwnershipChecks(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	alice := mustCreateUser(t, users, "alice@x.com")
	bob := mustCreateUser(t, users, "bob@x.com")

	task, err := svc.Create(ctx, CreateTaskParams{
		OwnerID: alice.ID,
		Title:   "Buy milk",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name        string
		taskID      int64
		requesterID int64
		wantErr     error
	}{
		{"owner reads own task", task.ID, alice.ID, nil},
		{"other user denied", task.ID, bob.ID, ErrTaskAccessDenied},
		// A nonexistent id reports not-found before any
		// ownership consideration, for every requester.
		{"missing task for owner", task.ID + 100, alice.ID, ErrTaskNotFound},
		{"missing task for other user", task.ID + 100, bob.ID, ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, getErr := svc.GetByID(ctx, tt.taskID, tt.requesterID)
			if !errors.Is(getErr, tt.wantErr) {
				t.Errorf("GetByID error = %v, want %v", getErr, tt.wantErr)
			}

			_, updateErr := svc.Update(ctx, UpdateTaskParams{
				TaskID:      tt.taskID,
				RequesterID: tt.requesterID,
				Title:       "Buy oat milk",
			})
			if !errors.Is(updateErr, tt.wantErr) {
				t.Errorf("Update error = %v, want %v", updateErr, tt.wantErr)
			}

			if tt.wantErr != nil {
				deleteErr := svc.Delete(ctx, tt.taskID, tt.requesterID)
				if !errors.Is(deleteErr, tt.wantErr) {
					t.Errorf("Delete error = %v, want %v", deleteErr, tt.wantErr)
				}
			}
		})
	}
}

func TestTaskServicePartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	owner := mustCreateUser(t, users, "alice@x.com")

	created, err := svc.Create(ctx, CreateTaskParams{
		OwnerID:     owner.ID,
		Title:       "Buy milk",
		Description: "two liters",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only the title is supplied: status and priority keep their
	// stored values, the description is overwritten.
	updated, err := svc.Update(ctx, UpdateTaskParams{
		TaskID:      created.ID,
		RequesterID: owner.ID,
		Title:       "Buy oat milk",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "Buy oat milk" {
		t.Errorf("title = %q, want %q", updated.Title, "Buy oat milk")
	}
	if updated.Status != models.StatusPending {
		t.Errorf("status = %q, want preserved %q", updated.Status, models.StatusPending)
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want preserved %q", updated.Priority, models.PriorityMedium)
	}
	if updated.Description != "" {
		t.Errorf("description = %q, want cleared", updated.Description)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}

	status := models.StatusCompleted
	updated, err = svc.Update(ctx, UpdateTaskParams{
		TaskID:      created.ID,
		RequesterID: owner.ID,
		Title:       "Buy oat milk",
		Status:      &status,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusCompleted)
	}
}

func TestTaskServiceListByOwner(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	alice := mustCreateUser(t, users, "alice@x.com")
	bob := mustCreateUser(t, users, "bob@x.com")

	done := models.StatusCompleted
	for _, tc := range []struct {
		owner  int64
		title  string
		status *models.TaskStatus
	}{
		{alice.ID, "first", nil},
		{alice.ID, "second", &done},
		{alice.ID, "third", nil},
		{bob.ID, "bobs task", nil},
	} {
		if _, err := svc.Create(ctx, CreateTaskParams{
			OwnerID: tc.owner,
			Title:   tc.title,
			Status:  tc.status,
		}); err != nil {
			t.Fatalf("Create(%q): %v", tc.title, err)
		}
		time.Sleep(time.Millisecond)
	}

	page, err := svc.ListByOwner(ctx, ListTasksParams{
		OwnerID:   alice.ID,
		Page:      0,
		Size:      10,
		SortBy:    "createdAt",
		Direction: "DESC",
	})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if page.TotalElements != 3 {
		t.Fatalf("total = %d, want 3", page.TotalElements)
	}
	for _, task := range page.Tasks {
		if task.OwnerID != alice.ID {
			t.Errorf("task %d belongs to %d, expected only alice's tasks", task.ID, task.OwnerID)
		}
	}
	if page.Tasks[0].Title != "third" {
		t.Errorf("descending sort: first task = %q, want %q", page.Tasks[0].Title, "third")
	}

	filtered, err := svc.ListByOwner(ctx, ListTasksParams{
		OwnerID:   alice.ID,
		Status:    &done,
		Page:      0,
		Size:      10,
		Direction: "DESC",
	})
	if err != nil {
		t.Fatalf("ListByOwner with filter: %v", err)
	}
	if len(filtered.Tasks) != 1 || filtered.Tasks[0].Title != "second" {
		t.Errorf("status filter returned %d tasks, want exactly %q", len(filtered.Tasks), "second")
	}

	paged, err := svc.ListByOwner(ctx, ListTasksParams{
		OwnerID:   alice.ID,
		Page:      1,
		Size:      2,
		Direction: "ASC",
	})
	if err != nil {
		t.Fatalf("ListByOwner page 1: %v", err)
	}
	if len(paged.Tasks) != 1 || paged.Tasks[0].Title != "third" {
		t.Errorf("page 1 of size 2 = %d tasks, want the single remaining task", len(paged.Tasks))
	}
}

func TestTaskServiceDirectionFallback(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	alice := mustCreateUser(t, users, "alice@x.com")

	for _, title := range []string{"older", "newer"} {
		if _, err := svc.Create(ctx, CreateTaskParams{OwnerID: alice.ID, Title: title}); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
		time.Sleep(time.Millisecond)
	}

	// Unrecognized direction strings are not an error: they sort descending.
	for _, direction := range []string{"DESC", "desc", "sideways", ""} {
		page, err := svc.ListByOwner(ctx, ListTasksParams{
			OwnerID:   alice.ID,
			Page:      0,
			Size:      10,
			Direction: direction,
		})
		if err != nil {
			t.Fatalf("ListByOwner(direction=%q): %v", direction, err)
		}
		if page.Tasks[0].Title != "newer" {
			t.Errorf("direction %q: first task = %q, want %q", direction, page.Tasks[0].Title, "newer")
		}
	}

	asc, err := svc.ListByOwner(ctx, ListTasksParams{
		OwnerID:   alice.ID,
		Page:      0,
		Size:      10,
		Direction: "asc",
	})
	if err != nil {
		t.Fatalf("ListByOwner(asc): %v", err)
	}
	if asc.Tasks[0].Title != "older" {
		t.Errorf("case-insensitive asc: first task = %q, want %q", asc.Tasks[0].Title, "older")
	}
}

func TestTaskServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestTaskService(t)
	owner := mustCreateUser(t, users, "alice@x.com")

	task, err := svc.Create(ctx, CreateTaskParams{
		OwnerID: owner.ID,
		Title:   "Buy milk",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err = svc.Delete(ctx, task.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err = svc.GetByID(ctx, task.ID, owner.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrTaskNotFound", err)
	}
}
