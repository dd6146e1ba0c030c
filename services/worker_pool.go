package services

import (
	"context"
	"sync"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/config"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Job is one background upload.
type Job struct {
	// Name is a descriptive name for logging purposes
	Name string
	// Execute sends the files; ctx expires after the configured job timeout
	Execute func(ctx context.Context) error
}

// WorkerPool runs photo uploads on a bounded set of workers so a burst of
// submissions cannot open unbounded connections to the backend.
type WorkerPool struct {
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	metrics  *workerPoolMetrics
	config   config.WorkerPoolConfig
	mu       sync.Mutex
	running  bool
	stopped  bool
}

type workerPoolMetrics struct {
	queueDepth    prometheus.Gauge
	activeWorkers prometheus.Gauge
	completedJobs prometheus.Counter
	droppedJobs   prometheus.Counter
	errorCount    prometheus.Counter
	jobDuration   prometheus.Histogram
}

// Singleton pattern for metrics (avoid double registration in tests).
var (
	wpMetricsInstance *workerPoolMetrics
	wpMetricsOnce     sync.Once
)

func newWorkerPoolMetrics() *workerPoolMetrics {
	wpMetricsOnce.Do(func() {
		wpMetricsInstance = &workerPoolMetrics{
			queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "console_upload_queue_depth",
				Help: "Current number of uploads waiting for a worker",
			}),
			activeWorkers: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "console_upload_active_workers",
				Help: "Current number of workers sending an upload",
			}),
			completedJobs: promauto.NewCounter(prometheus.CounterOpts{
				Name: "console_upload_completed_total",
				Help: "Total number of finished uploads",
			}),
			droppedJobs: promauto.NewCounter(prometheus.CounterOpts{
				Name: "console_upload_dropped_total",
				Help: "Total number of uploads refused because the queue was full",
			}),
			errorCount: promauto.NewCounter(prometheus.CounterOpts{
				Name: "console_upload_errors_total",
				Help: "Total number of uploads that returned an error",
			}),
			jobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "console_upload_duration_seconds",
				Help:    "Time taken to send one upload",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
			}),
		}
	})
	return wpMetricsInstance
}

// NewWorkerPool creates a pool. It must be started with Start() before
// jobs are accepted.
func NewWorkerPool(cfg config.WorkerPoolConfig) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		jobQueue: make(chan Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.GetLogger().Named("upload-pool"),
		metrics:  newWorkerPoolMetrics(),
		config:   cfg,
	}
}

// Start launches the workers. Calling it more than once is a no-op.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running || wp.stopped {
		wp.logger.Warn("Upload pool already started")
		return
	}
	wp.running = true

	wp.logger.Infow("Starting upload pool",
		"maxWorkers", wp.config.MaxWorkers,
		"queueSize", wp.config.QueueSize)

	for i := 0; i < wp.config.MaxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker drains the queue until it is closed by Shutdown.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.executeJob(id, job)
	}
	wp.logger.Debugw("Worker stopped", "workerId", id)
}

func (wp *WorkerPool) executeJob(workerID int, job Job) {
	wp.metrics.activeWorkers.Inc()
	wp.metrics.queueDepth.Dec()
	defer wp.metrics.activeWorkers.Dec()

	start := time.Now()
	jobCtx := wp.ctx
	if timeout := wp.config.JobTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(wp.ctx, timeout)
		defer cancel()
	}

	if err := job.Execute(jobCtx); err != nil {
		wp.logger.Warnw("Upload failed",
			"job", job.Name,
			"workerId", workerID,
			"error", err,
			"duration", time.Since(start))
		wp.metrics.errorCount.Inc()
	} else {
		wp.logger.Debugw("Upload completed",
			"job", job.Name,
			"workerId", workerID,
			"duration", time.Since(start))
	}

	wp.metrics.jobDuration.Observe(time.Since(start).Seconds())
	wp.metrics.completedJobs.Inc()
}

// Submit queues a job without blocking. It returns false when the queue is
// full or the pool is not running.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		wp.logger.Warnw("Upload refused - pool not running", "job", job.Name)
		return false
	}
	select {
	case wp.jobQueue <- job:
		wp.metrics.queueDepth.Inc()
		return true
	default:
		wp.metrics.droppedJobs.Inc()
		wp.logger.Warnw("Upload dropped - queue full",
			"job", job.Name,
			"queueSize", wp.config.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued and in-flight uploads.
// When ctx expires first the remaining jobs are cancelled and ctx.Err() is
// returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return nil
	}
	wp.running = false
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.logger.Info("Draining upload pool...")

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.logger.Info("Upload pool drained")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.logger.Warn("Upload pool shutdown timed out - cancelling remaining uploads")
		return ctx.Err()
	}
}

// QueueDepth returns the number of uploads waiting for a worker.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.jobQueue)
}

func (wp *WorkerPool) IsRunning() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.running
}
