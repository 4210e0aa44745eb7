// Package worker реализует пул воркеров для асинхронной обработки объявлений.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ошибки
var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Job представляет задачу для обработки
type Job struct {
	UpdateID int
	ChatID   int64
	Kind     string
	Handler  func(ctx context.Context) error
}

// Stats снимок метрик пула
type Stats struct {
	Workers        int           `json:"workers"`
	ProcessedJobs  int64         `json:"processed_jobs"`
	FailedJobs     int64         `json:"failed_jobs"`
	DroppedJobs    int64         `json:"dropped_jobs"`
	QueueLength    int           `json:"queue_length"`
	ProcessingTime time.Duration `json:"processing_time_ns"`
}

// Pool пул воркеров с ограниченной очередью
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger

	mu      sync.RWMutex
	stopped bool

	metricsMu      sync.Mutex
	processedJobs  int64
	failedJobs     int64
	droppedJobs    int64
	processingTime time.Duration
}

// NewPool создает новый пул воркеров
func NewPool(workers int, queueSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start запускает воркеры
func (p *Pool) Start() {
	p.logger.Info("Starting worker pool", zap.Int("workers", p.workers), zap.Int("queue_size", cap(p.jobQueue)))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop отменяет контекст задач, закрывает очередь и ждет завершения воркеров.
// Задачи, оставшиеся в очереди, отбрасываются.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.logger.Info("Stopping worker pool")
	p.cancel()
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Submit добавляет задачу в очередь без блокировки
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobQueue <- job:
		return nil
	default:
		p.metricsMu.Lock()
		p.droppedJobs++
		p.metricsMu.Unlock()
		return ErrQueueFull
	}
}

// worker основной цикл воркера
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				p.logger.Debug("Worker stopping", zap.Int("worker_id", id))
				return
			}
			if p.ctx.Err() != nil {
				continue
			}
			p.processJob(job, id)

		case <-p.ctx.Done():
			p.logger.Debug("Worker context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// processJob выполняет задачу, паника считается ошибкой задачи
func (p *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()
	fields := []zap.Field{
		zap.Int("worker_id", workerID),
		zap.Int("update_id", job.UpdateID),
		zap.Int64("chat_id", job.ChatID),
		zap.String("kind", job.Kind),
	}

	p.logger.Debug("Processing job", fields...)

	err := p.run(job)
	duration := time.Since(startTime)

	p.metricsMu.Lock()
	if err != nil {
		p.failedJobs++
	} else {
		p.processedJobs++
	}
	p.processingTime += duration
	p.metricsMu.Unlock()

	if err != nil {
		p.logger.Error("Job processing failed", append(fields, zap.Error(err))...)
		return
	}
	p.logger.Debug("Job processed successfully", append(fields, zap.Duration("duration", duration))...)
}

func (p *Pool) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Handler(p.ctx)
}

// Stats возвращает текущие метрики
func (p *Pool) Stats() Stats {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()

	return Stats{
		Workers:        p.workers,
		ProcessedJobs:  p.processedJobs,
		FailedJobs:     p.failedJobs,
		DroppedJobs:    p.droppedJobs,
		QueueLength:    len(p.jobQueue),
		ProcessingTime: p.processingTime,
	}
}
