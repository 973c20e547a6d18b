package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"task-api/internal/models"
)

// Exercises the full register -> create -> list -> delete flow the
// way a client would drive it through both services.
func TestRegisterAndTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	tasks := newFakeTaskStore()
	tokens := newTestTokenService(time.Hour)
	authSvc := NewAuthService(zerolog.Nop(), users, tokens)
	taskSvc := NewTaskService(zerolog.Nop(), users, tasks)

	registered, err := authSvc.Register(ctx, RegisterParams{
		Name:     "alice",
		Email:    "alice@x.com",
		Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	authenticated, err := authSvc.Authenticate(ctx, registered.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	task, err := taskSvc.Create(ctx, CreateTaskParams{
		OwnerID: authenticated.ID,
		Title:   "Buy milk",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != models.StatusPending || task.Priority != models.PriorityMedium {
		t.Errorf("defaults not applied: status=%q priority=%q", task.Status, task.Priority)
	}

	page, err := taskSvc.ListByOwner(ctx, ListTasksParams{
		OwnerID:   authenticated.ID,
		Page:      0,
		Size:      10,
		SortBy:    "createdAt",
		Direction: "DESC",
	})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if page.TotalElements != 1 || page.Tasks[0].ID != task.ID {
		t.Fatalf("listing does not contain exactly the created task: total=%d", page.TotalElements)
	}

	if err = taskSvc.Delete(ctx, task.ID, authenticated.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err = taskSvc.GetByID(ctx, task.ID, authenticated.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrTaskNotFound", err)
	}
}
