package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"item-service.com/item-service/internal/constants"
	dto "item-service.com/item-service/internal/data_models"
	apperrors "item-service.com/item-service/internal/errors"
	model "item-service.com/item-service/internal/models"
	"item-service.com/item-service/internal/queue"
	repository "item-service.com/item-service/internal/repositories"
)

// ItemService is the job orchestrator plus the synchronous item operations.
// Creation never happens on the request path: SubmitCreation opens a PENDING
// job and hands a payload snapshot to the worker pool.
type ItemService struct {
	items        *repository.ItemRepository
	jobs         *repository.JobRepository
	pool         *PoolService
	tokenManager queue.TokenManager
}

func NewItemService(
	tokenManager queue.TokenManager,
	items *repository.ItemRepository,
	jobs *repository.JobRepository,
	pool *PoolService,
) *ItemService {
	return &ItemService{
		items:        items,
		jobs:         jobs,
		pool:         pool,
		tokenManager: tokenManager,
	}
}

func (s *ItemService) SubmitCreation(ctx context.Context, in dto.ItemCreate) (*model.Job, error) {
	if err := s.acquireQueueToken(ctx); err != nil {
		return nil, err
	}

	job, err := s.jobs.CreateJob(ctx, uuid.NewString())
	if err != nil {
		s.releaseQueueToken(ctx)
		return nil, err
	}

	if ok := s.pool.Enqueue(job.ID, in); !ok {
		_, _ = s.jobs.UpdateJobStatus(ctx, job.ID, constants.JobFailed, "", "job queue is full")
		s.releaseQueueToken(ctx)
		return nil, apperrors.ErrJobQueueFull
	}

	return job, nil
}

func (s *ItemService) acquireQueueToken(ctx context.Context) error {
	if err := s.tokenManager.AcquireToken(ctx); err != nil {
		if errors.Is(err, queue.ErrNoTokenAvailable) {
			return apperrors.ErrJobQueueFull
		}
		return err
	}
	return nil
}

func (s *ItemService) releaseQueueToken(ctx context.Context) {
	_ = s.tokenManager.ReleaseToken(ctx)
}

func (s *ItemService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return s.jobs.GetJob(ctx, id)
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return s.items.GetItem(ctx, id)
}

func (s *ItemService) ListItems(ctx context.Context, filter repository.ItemFilter) ([]model.Item, error) {
	return s.items.ListFiltered(ctx, filter)
}

func (s *ItemService) UpdateItem(
	ctx context.Context,
	id string,
	in dto.ItemUpdate,
	expected time.Time,
) (*model.Item, error) {
	return s.items.UpdateWithLock(ctx, id, in, expected)
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	return s.items.DeleteItem(ctx, id)
}
