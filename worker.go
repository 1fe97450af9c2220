package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"goflare.io/storefront/models"
)

const workerQueueSize = 1000

type EventProcessor interface {
	ProcessEvent(ctx context.Context, event *models.CartEvent) error
}

// WorkerPool runs cart events through a processor off the caller's goroutine.
type WorkerPool struct {
	tasks     chan func()
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	logger    *zap.Logger
	processor EventProcessor
}

func NewWorkerPool(size int, processor EventProcessor, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}

	wp := &WorkerPool{
		tasks:     make(chan func(), workerQueueSize),
		logger:    logger,
		processor: processor,
	}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}

	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

// Submit queues event for processing. Events submitted after Shutdown are dropped.
func (wp *WorkerPool) Submit(ctx context.Context, event *models.CartEvent) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		wp.logger.Warn("worker pool closed, dropping event",
			zap.String("outcome", string(event.Outcome)),
			zap.Int("product_id", event.ProductID))
		return
	}

	wp.tasks <- func() {
		if err := wp.processor.ProcessEvent(ctx, event); err != nil {
			wp.logger.Error("Failed to process event",
				zap.Error(err),
				zap.String("outcome", string(event.Outcome)),
				zap.String("operation", event.Operation),
				zap.Int("product_id", event.ProductID))
		}
	}
}

// Shutdown stops accepting events and waits for queued ones to finish.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.tasks)
	}
	wp.mu.Unlock()

	wp.wg.Wait()
}
