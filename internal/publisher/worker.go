package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/north-cloud/moderation/internal/database"
	"github.com/jonesrussell/north-cloud/moderation/internal/domain"
	"github.com/jonesrussell/north-cloud/moderation/internal/logger"
	"github.com/jonesrussell/north-cloud/moderation/internal/telemetry"
)

const (
	defaultWorkers     = 2
	defaultQueueSize   = 256
	defaultPostTimeout = 10 * time.Second
	recordTimeout      = 5 * time.Second
)

// Job is a single publish request for approved content.
type Job struct {
	ContentID string
	Content   string
}

// WorkerConfig holds configuration options
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	PostTimeout    time.Duration
	PostsPerSecond float64
}

// Worker drains a bounded queue of publish jobs through the poster. Enqueue
// never blocks the moderation request path; when the queue is full the job
// is dropped and counted.
type Worker struct {
	poster Poster
	posts  *database.SocialPostRepository
	logger logger.Logger
	tracer trace.Tracer
	tel    *telemetry.Provider

	queue       chan Job
	workers     int
	postTimeout time.Duration
	limiter     *rate.Limiter

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// NewWorker creates a publish worker pool.
func NewWorker(
	poster Poster,
	posts *database.SocialPostRepository,
	cfg WorkerConfig,
	tel *telemetry.Provider,
	log logger.Logger,
) *Worker {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.PostTimeout <= 0 {
		cfg.PostTimeout = defaultPostTimeout
	}
	if cfg.PostsPerSecond <= 0 {
		cfg.PostsPerSecond = 1
	}

	return &Worker{
		poster:      poster,
		posts:       posts,
		logger:      log,
		tracer:      otel.Tracer("publish-worker"),
		tel:         tel,
		queue:       make(chan Job, cfg.QueueSize),
		workers:     cfg.Workers,
		postTimeout: cfg.PostTimeout,
		limiter:     rate.NewLimiter(rate.Limit(cfg.PostsPerSecond), 1),
		stopChan:    make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}

	w.logger.Info("publish worker started",
		logger.Int("workers", w.workers),
		logger.Int("queue_size", cap(w.queue)))
}

// Stop gracefully stops the worker, waiting for in-flight jobs and
// draining whatever is still queued.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("publish worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Enqueue schedules a publish job without blocking. It reports whether the
// job was accepted.
func (w *Worker) Enqueue(job Job) bool {
	select {
	case w.queue <- job:
		w.tel.Metrics.PublishQueueDepth.Set(float64(len(w.queue)))
		return true
	default:
		w.tel.Metrics.PublishDropped.Inc()
		w.logger.Warn("publish queue full, dropping job",
			logger.String("content_id", job.ContentID))
		return false
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case job := <-w.queue:
			w.tel.Metrics.PublishQueueDepth.Set(float64(len(w.queue)))
			w.publishOne(ctx, job)
		case <-w.stopChan:
			w.drain(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

// drain publishes the jobs still queued at shutdown. Workers race over the
// shared channel, so each job is taken exactly once.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case job := <-w.queue:
			w.tel.Metrics.PublishQueueDepth.Set(float64(len(w.queue)))
			w.publishOne(ctx, job)
		default:
			return
		}
	}
}

func (w *Worker) publishOne(ctx context.Context, job Job) {
	ctx, span := w.tracer.Start(ctx, "publisher.post",
		trace.WithAttributes(
			attribute.String("content_id", job.ContentID),
		))
	defer span.End()

	if err := w.limiter.Wait(ctx); err != nil {
		w.logger.Debug("rate limiter interrupted", logger.Error(err))
		return
	}

	postCtx, cancel := context.WithTimeout(ctx, w.postTimeout)
	defer cancel()

	results := w.poster.Post(postCtx, job.Content)
	for _, r := range results {
		w.tel.RecordPublish(r.Platform, r.Success)
		if !r.Success {
			w.logger.Warn("platform post failed",
				logger.String("content_id", job.ContentID),
				logger.String("platform", r.Platform),
				logger.String("message", r.Message))
		}
	}

	w.record(ctx, job, results)
}

// record persists the per-platform outcomes. A storage failure is logged
// only; the posts already happened.
func (w *Worker) record(ctx context.Context, job Job, results []domain.PostResult) {
	platforms := make([]string, 0, len(results))
	for _, r := range results {
		platforms = append(platforms, r.Platform)
	}

	platformsJSON, err := json.Marshal(platforms)
	if err != nil {
		w.logger.Error("failed to marshal platforms", logger.Error(err))
		return
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		w.logger.Error("failed to marshal publish results", logger.Error(err))
		return
	}

	recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := w.posts.Create(recordCtx, &domain.SocialPostRecord{
		PostID:    uuid.NewString(),
		ContentID: job.ContentID,
		Platforms: platformsJSON,
		Results:   resultsJSON,
		PostedAt:  time.Now().UTC(),
	}); err != nil {
		w.logger.Error("failed to record publish outcome",
			logger.String("content_id", job.ContentID),
			logger.Error(err))
	}
}
