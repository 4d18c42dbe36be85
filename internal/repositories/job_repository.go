package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"item-service.com/item-service/internal/constants"
	model "item-service.com/item-service/internal/models"
)

type JobRepository struct {
	*Repository[model.Job]
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{
		Repository: NewRepository[model.Job](db),
		db:         db,
	}
}

// CreateJob inserts a new PENDING job. The id is caller-generated because
// it has to be handed back to the client before the job ever runs.
func (r *JobRepository) CreateJob(ctx context.Context, id string) (*model.Job, error) {
	now := time.Now().UTC()
	job := &model.Job{
		ID:        id,
		Status:    constants.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *JobRepository) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return r.Get(ctx, id)
}

// UpdateJobStatus overwrites the status and conditionally sets the result
// item id and error message. A missing job is a tolerated no-op: the
// background worker calling this has nobody left to report the miss to.
func (r *JobRepository) UpdateJobStatus(
	ctx context.Context,
	id string,
	status constants.JobStatus,
	resultItemID string,
	errorMessage string,
) (*model.Job, error) {
	job, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	fields := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if resultItemID != "" {
		fields["item_id"] = resultItemID
	}
	if errorMessage != "" {
		fields["error_message"] = errorMessage
	}

	if err := r.Updates(ctx, job, fields); err != nil {
		return nil, err
	}

	job.Status = status
	if resultItemID != "" {
		job.ItemID = &resultItemID
	}
	if errorMessage != "" {
		job.ErrorMessage = &errorMessage
	}
	return job, nil
}

// DeleteTerminalBefore removes COMPLETED and FAILED jobs last touched
// before the cutoff. PENDING and RUNNING jobs are never collected.
func (r *JobRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]constants.JobStatus{constants.JobCompleted, constants.JobFailed}, cutoff).
		Delete(&model.Job{})
	return res.RowsAffected, res.Error
}
