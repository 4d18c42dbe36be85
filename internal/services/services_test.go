package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"item-service.com/item-service/internal/constants"
	dto "item-service.com/item-service/internal/data_models"
	apperrors "item-service.com/item-service/internal/errors"
	model "item-service.com/item-service/internal/models"
	"item-service.com/item-service/internal/queue"
	repository "item-service.com/item-service/internal/repositories"
)

// mockTokenManager is a simple in-memory token manager for testing
type mockTokenManager struct {
	mu     sync.Mutex
	tokens int
}

func newMockTokenManager(capacity int) *mockTokenManager {
	return &mockTokenManager{tokens: capacity}
}

func (m *mockTokenManager) AcquireToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens <= 0 {
		return queue.ErrNoTokenAvailable
	}
	m.tokens--
	return nil
}

func (m *mockTokenManager) ReleaseToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens++
	return nil
}

func (m *mockTokenManager) InitializeTokens(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = count
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Category{}, &model.Item{}, &model.Job{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestService(t *testing.T, capacity, workers, queueSize int) (*ItemService, *PoolService, *repository.ItemRepository, *repository.JobRepository) {
	db := setupTestDB(t)
	itemRepo := repository.NewItemRepository(db)
	jobRepo := repository.NewJobRepository(db)
	tokenManager := newMockTokenManager(capacity)

	pool := NewPoolService(tokenManager, itemRepo, jobRepo, workers, queueSize, 10*time.Second, 24*time.Hour)
	service := NewItemService(tokenManager, itemRepo, jobRepo, pool)

	return service, pool, itemRepo, jobRepo
}

func validPayload(title string) dto.ItemCreate {
	desc := "test item"
	return dto.ItemCreate{
		Title:           title,
		Description:     &desc,
		Condition:       constants.ConditionGood,
		TransactionType: constants.TransactionSale,
		Price:           49.50,
		ImageURLs:       []string{"https://example.com/a.jpg"},
	}
}

func pollJob(t *testing.T, service *ItemService, jobID string, deadline time.Duration) *model.Job {
	t.Helper()

	limit := time.Now().Add(deadline)
	for time.Now().Before(limit) {
		job, err := service.GetJob(context.Background(), jobID)
		if err != nil {
			t.Fatalf("failed to poll job: %v", err)
		}
		if job != nil && job.Status.Terminal() {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatalf("job %s did not reach a terminal state within %v", jobID, deadline)
	return nil
}

func TestItemService_SubmitCreationStaysPendingWithoutWorkers(t *testing.T) {
	service, pool, _, _ := newTestService(t, 10, 0, 10)
	defer pool.Shutdown(context.Background())

	job, err := service.SubmitCreation(context.Background(), validPayload("Sofa"))
	if err != nil {
		t.Fatalf("failed to submit creation: %v", err)
	}
	if job.Status != constants.JobPending {
		t.Errorf("expected PENDING on acceptance, got %s", job.Status)
	}

	fetched, err := service.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if fetched.Status != constants.JobPending {
		t.Errorf("job must stay PENDING until a worker picks it up, got %s", fetched.Status)
	}
	if fetched.ItemID != nil || fetched.ErrorMessage != nil {
		t.Error("a PENDING job must carry neither a result nor an error")
	}
}

func TestItemService_SubmitCreationCompletes(t *testing.T) {
	service, pool, itemRepo, _ := newTestService(t, 10, 2, 10)
	defer pool.Shutdown(context.Background())
	ctx := context.Background()

	payload := validPayload("Sofa")
	job, err := service.SubmitCreation(ctx, payload)
	if err != nil {
		t.Fatalf("failed to submit creation: %v", err)
	}

	done := pollJob(t, service, job.ID, 5*time.Second)
	if done.Status != constants.JobCompleted {
		t.Fatalf("expected COMPLETED, got %s", done.Status)
	}
	if done.ItemID == nil {
		t.Fatal("completed job must carry the item id")
	}
	if done.ErrorMessage != nil {
		t.Error("completed job must not carry an error message")
	}

	item, err := itemRepo.GetItem(ctx, *done.ItemID)
	if err != nil || item == nil {
		t.Fatalf("materialized item must exist: %v", err)
	}
	if item.Title != payload.Title || item.Price != payload.Price {
		t.Errorf("materialized item does not match payload: %+v", item)
	}

	// Terminal state never reverts.
	time.Sleep(50 * time.Millisecond)
	again, _ := service.GetJob(ctx, job.ID)
	if again.Status != constants.JobCompleted {
		t.Errorf("terminal state reverted to %s", again.Status)
	}
}

func TestItemService_MaterializationFailureIsCaptured(t *testing.T) {
	service, pool, _, _ := newTestService(t, 10, 1, 10)
	defer pool.Shutdown(context.Background())

	// Empty title slips past the boundary here on purpose: the worker
	// re-validates the snapshot and must fail the job, not panic.
	payload := validPayload("")
	job, err := service.SubmitCreation(context.Background(), payload)
	if err != nil {
		t.Fatalf("submission itself must succeed: %v", err)
	}

	done := pollJob(t, service, job.ID, 5*time.Second)
	if done.Status != constants.JobFailed {
		t.Fatalf("expected FAILED, got %s", done.Status)
	}
	if done.ErrorMessage == nil || *done.ErrorMessage == "" {
		t.Error("failed job must carry an error message")
	}
	if done.ItemID != nil {
		t.Error("failed job must not carry an item id")
	}
}

func TestItemService_SubmitCreationQueueFull(t *testing.T) {
	service, pool, _, _ := newTestService(t, 0, 0, 10)
	defer pool.Shutdown(context.Background())

	_, err := service.SubmitCreation(context.Background(), validPayload("Sofa"))
	if !errors.Is(err, apperrors.ErrJobQueueFull) {
		t.Fatalf("expected queue-full error with no tokens, got %v", err)
	}
}

func TestItemService_FullChannelFailsJob(t *testing.T) {
	service, pool, _, jobRepo := newTestService(t, 10, 0, 1)
	defer pool.Shutdown(context.Background())
	ctx := context.Background()

	// First submission occupies the only queue slot (no workers drain it).
	if _, err := service.SubmitCreation(ctx, validPayload("First")); err != nil {
		t.Fatalf("first submission must succeed: %v", err)
	}

	_, err := service.SubmitCreation(ctx, validPayload("Second"))
	if !errors.Is(err, apperrors.ErrJobQueueFull) {
		t.Fatalf("expected queue-full error, got %v", err)
	}

	// The rejected submission must leave a FAILED job behind.
	jobs, err := jobRepo.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("failed to list jobs: %v", err)
	}

	failed := 0
	for _, j := range jobs {
		if j.Status == constants.JobFailed {
			failed++
			if j.ErrorMessage == nil || *j.ErrorMessage == "" {
				t.Error("rejected job must record why it failed")
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly one FAILED job, got %d", failed)
	}
}

func TestItemService_TokenReleasedAfterMaterialization(t *testing.T) {
	service, pool, _, _ := newTestService(t, 1, 1, 10)
	defer pool.Shutdown(context.Background())
	ctx := context.Background()

	job, err := service.SubmitCreation(ctx, validPayload("First"))
	if err != nil {
		t.Fatalf("first submission must succeed: %v", err)
	}
	pollJob(t, service, job.ID, 5*time.Second)

	// The single token is released after the job finishes, so a second
	// submission eventually gets through.
	deadline := time.Now().Add(5 * time.Second)
	for {
		_, err = service.SubmitCreation(ctx, validPayload("Second"))
		if err == nil {
			return
		}
		if !errors.Is(err, apperrors.ErrJobQueueFull) {
			t.Fatalf("unexpected error: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("token was never released back to the pool")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
