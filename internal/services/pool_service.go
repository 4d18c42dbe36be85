package services

import (
	"context"
	"log"
	"sync"
	"time"

	"item-service.com/item-service/internal/constants"
	dto "item-service.com/item-service/internal/data_models"
	"item-service.com/item-service/internal/http/validators"
	"item-service.com/item-service/internal/queue"
	repository "item-service.com/item-service/internal/repositories"
)

type jobRequest struct {
	jobID   string
	payload dto.ItemCreate
}

// PoolService materializes creation jobs on a fixed set of workers reading
// from a bounded queue. Each job gets exactly one terminal transition:
// COMPLETED with the item id, or FAILED with the error message. A retention
// loop collects terminal jobs once they age out.
type PoolService struct {
	queue        chan jobRequest
	wg           sync.WaitGroup
	janitorWG    sync.WaitGroup
	items        *repository.ItemRepository
	jobs         *repository.JobRepository
	tokenManager queue.TokenManager
	jobTimeout   time.Duration
	retention    time.Duration
	janitorStop  chan struct{}
}

func NewPoolService(
	tokenManager queue.TokenManager,
	items *repository.ItemRepository,
	jobs *repository.JobRepository,
	workers int,
	queueSize int,
	jobTimeout time.Duration,
	retention time.Duration,
) *PoolService {
	p := &PoolService{
		queue:        make(chan jobRequest, queueSize),
		items:        items,
		jobs:         jobs,
		tokenManager: tokenManager,
		jobTimeout:   jobTimeout,
		retention:    retention,
		janitorStop:  make(chan struct{}),
	}

	p.janitorWG.Add(1)
	go p.retentionLoop()

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

// Enqueue hands a snapshot of the payload to the pool. Returns false when
// the queue is full; the caller decides how to fail the job.
func (p *PoolService) Enqueue(jobID string, payload dto.ItemCreate) bool {
	select {
	case p.queue <- jobRequest{jobID: jobID, payload: payload.Clone()}:
		return true
	default:
		return false
	}
}

func (p *PoolService) worker(workerID int) {
	defer p.wg.Done()

	log.Printf("worker %d started", workerID)

	for req := range p.queue {
		p.materialize(workerID, req)
	}

	log.Printf("worker %d stopped", workerID)
}

// materialize runs out-of-band; the client has already received 202. Every
// failure ends up in the job record, never re-raised.
func (p *PoolService) materialize(workerID int, req jobRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()
	defer p.releaseQueueToken(workerID)

	if _, err := p.jobs.UpdateJobStatus(ctx, req.jobID, constants.JobRunning, "", ""); err != nil {
		log.Printf("worker %d: failed to mark job %s running: %v", workerID, req.jobID, err)
		p.failJob(workerID, req.jobID, err)
		return
	}

	if err := validators.ValidateItemCreate(&req.payload); err != nil {
		p.failJob(workerID, req.jobID, err)
		return
	}

	item, err := p.items.CreateItem(ctx, req.payload)
	if err != nil {
		p.failJob(workerID, req.jobID, err)
		return
	}

	if _, err := p.jobs.UpdateJobStatus(context.Background(), req.jobID, constants.JobCompleted, item.ID, ""); err != nil {
		log.Printf("worker %d: failed to complete job %s: %v", workerID, req.jobID, err)
		return
	}

	log.Printf("worker %d completed job %s (item %s)", workerID, req.jobID, item.ID)
}

// failJob writes the terminal FAILED state with a fresh context so a job
// that failed by timeout can still be recorded.
func (p *PoolService) failJob(workerID int, jobID string, cause error) {
	if _, err := p.jobs.UpdateJobStatus(context.Background(), jobID, constants.JobFailed, "", cause.Error()); err != nil {
		log.Printf("worker %d: failed to mark job %s failed: %v", workerID, jobID, err)
	}
}

func (p *PoolService) releaseQueueToken(workerID int) {
	if p.tokenManager == nil {
		return
	}

	if err := p.tokenManager.ReleaseToken(context.Background()); err != nil {
		log.Printf("worker %d: failed to release queue token: %v", workerID, err)
	}
}

func (p *PoolService) retentionLoop() {
	defer p.janitorWG.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.collectExpiredJobs()
		case <-p.janitorStop:
			return
		}
	}
}

func (p *PoolService) collectExpiredJobs() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-p.retention)
	removed, err := p.jobs.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		log.Printf("retention: failed to collect terminal jobs: %v", err)
		return
	}

	if removed > 0 {
		log.Printf("retention: collected %d terminal jobs", removed)
	}
}

func (p *PoolService) Shutdown(ctx context.Context) {
	close(p.janitorStop)
	p.janitorWG.Wait()
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("worker pool shut down cleanly")
	case <-ctx.Done():
		log.Println("worker pool shutdown timed out")
	}
}
