package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"item-service.com/item-service/internal/constants"
)

func TestJobRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	id := uuid.NewString()
	job, err := repo.CreateJob(ctx, id)
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}
	if job.ID != id {
		t.Errorf("expected caller-generated id %s, got %s", id, job.ID)
	}
	if job.Status != constants.JobPending {
		t.Errorf("expected status PENDING, got %s", job.Status)
	}

	fetched, err := repo.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if fetched == nil || fetched.Status != constants.JobPending {
		t.Error("expected a PENDING job on fetch")
	}

	missing, err := repo.GetJob(ctx, "missing-id")
	if err != nil {
		t.Fatalf("missing job must not be an error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for a missing job")
	}
}

func TestJobRepository_StatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	job, err := repo.CreateJob(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	running, err := repo.UpdateJobStatus(ctx, job.ID, constants.JobRunning, "", "")
	if err != nil {
		t.Fatalf("failed to mark running: %v", err)
	}
	if running.Status != constants.JobRunning {
		t.Errorf("expected RUNNING, got %s", running.Status)
	}
	if running.ItemID != nil || running.ErrorMessage != nil {
		t.Error("RUNNING must not carry a result or an error")
	}

	itemID := uuid.NewString()
	completed, err := repo.UpdateJobStatus(ctx, job.ID, constants.JobCompleted, itemID, "")
	if err != nil {
		t.Fatalf("failed to mark completed: %v", err)
	}
	if completed.Status != constants.JobCompleted {
		t.Errorf("expected COMPLETED, got %s", completed.Status)
	}
	if completed.ItemID == nil || *completed.ItemID != itemID {
		t.Error("expected result item id on completion")
	}

	fetched, _ := repo.GetJob(ctx, job.ID)
	if fetched.Status != constants.JobCompleted {
		t.Errorf("expected persisted COMPLETED, got %s", fetched.Status)
	}
	if fetched.ItemID == nil || *fetched.ItemID != itemID {
		t.Error("expected persisted result item id")
	}
}

func TestJobRepository_FailureRecordsMessage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	job, _ := repo.CreateJob(ctx, uuid.NewString())

	failed, err := repo.UpdateJobStatus(ctx, job.ID, constants.JobFailed, "", "title is required")
	if err != nil {
		t.Fatalf("failed to mark failed: %v", err)
	}
	if failed.Status != constants.JobFailed {
		t.Errorf("expected FAILED, got %s", failed.Status)
	}
	if failed.ErrorMessage == nil || *failed.ErrorMessage != "title is required" {
		t.Error("expected error message on failure")
	}
	if failed.ItemID != nil {
		t.Error("failed job must not carry a result item id")
	}
}

func TestJobRepository_UpdateMissingJobIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)

	job, err := repo.UpdateJobStatus(context.Background(), "missing-id", constants.JobCompleted, "", "")
	if err != nil {
		t.Fatalf("updating a missing job must be tolerated: %v", err)
	}
	if job != nil {
		t.Error("expected nil job for a missing id")
	}
}

func TestJobRepository_DeleteTerminalBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	oldCompleted, _ := repo.CreateJob(ctx, uuid.NewString())
	repo.UpdateJobStatus(ctx, oldCompleted.ID, constants.JobCompleted, uuid.NewString(), "")
	oldRunning, _ := repo.CreateJob(ctx, uuid.NewString())
	repo.UpdateJobStatus(ctx, oldRunning.ID, constants.JobRunning, "", "")
	recent, _ := repo.CreateJob(ctx, uuid.NewString())
	repo.UpdateJobStatus(ctx, recent.ID, constants.JobFailed, "", "boom")

	stale := time.Now().UTC().Add(-48 * time.Hour)
	for _, id := range []string{oldCompleted.ID, oldRunning.ID} {
		if err := db.Table("jobs").Where("id = ?", id).Update("updated_at", stale).Error; err != nil {
			t.Fatalf("failed to age job: %v", err)
		}
	}

	removed, err := repo.DeleteTerminalBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("failed to collect terminal jobs: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected exactly the aged terminal job collected, got %d", removed)
	}

	if job, _ := repo.GetJob(ctx, oldCompleted.ID); job != nil {
		t.Error("aged terminal job must be collected")
	}
	if job, _ := repo.GetJob(ctx, oldRunning.ID); job == nil {
		t.Error("RUNNING job must never be collected")
	}
	if job, _ := repo.GetJob(ctx, recent.ID); job == nil {
		t.Error("recent terminal job must be kept")
	}
}
