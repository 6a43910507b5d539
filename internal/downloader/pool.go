package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"instaviewer/pkg/instagram"
	"instaviewer/pkg/logger"
	"instaviewer/pkg/metadata"
	"instaviewer/pkg/ratelimit"
)

// DownloadJob is one media item of one post
type DownloadJob struct {
	Post     instagram.Post
	Category instagram.Category
	Index    int
	Filename string
}

// Item returns the media item the job downloads
func (j DownloadJob) Item() instagram.MediaItem {
	return j.Post.Media[j.Index]
}

// DownloadResult is the outcome of a DownloadJob
type DownloadResult struct {
	Job      DownloadJob
	Path     string
	Skipped  bool
	Success  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// MediaDownloader fetches the bytes of a media item
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, item instagram.MediaItem) ([]byte, error)
}

// MediaStorage persists downloaded media
type MediaStorage interface {
	Path(username, filename string) string
	Exists(username, filename string) bool
	Save(r io.Reader, username, filename string) (string, int64, error)
}

// Jobs expands posts into one job per media item. Carousel items after the
// first get an index suffix so their filenames do not collide. Names only
// depend on the posts, so a rerun finds the files it saved before.
func Jobs(posts []instagram.Post, category instagram.Category) []DownloadJob {
	var jobs []DownloadJob
	used := make(map[string]bool)
	for p, post := range posts {
		base := post.Username + "_" + postKey(post, p)
		if used[base] {
			base = fmt.Sprintf("%s_p%d", base, p+1)
		}
		used[base] = true

		for i, item := range post.Media {
			name := base
			if i > 0 {
				name = fmt.Sprintf("%s_%d", base, i+1)
			}
			name += "." + item.Type.Extension()
			jobs = append(jobs, DownloadJob{Post: post, Category: category, Index: i, Filename: name})
		}
	}
	return jobs
}

// postKey identifies a post in a filename: shortcode, then id, then
// timestamp, then its position in the list.
func postKey(post instagram.Post, position int) string {
	for _, key := range []string{post.Shortcode, post.ID, post.Timestamp.ValueOrZero()} {
		if key = safeName(key); key != "" {
			return key
		}
	}
	return fmt.Sprintf("%d", position+1)
}

// safeName keeps letters, digits, dots, dashes and underscores
func safeName(s string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '-'
	}, strings.TrimSpace(s)), "-.")
}

// WorkerPool downloads media concurrently
type WorkerPool struct {
	numWorkers    int
	jobQueue      chan DownloadJob
	resultQueue   chan DownloadResult
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	client        MediaDownloader
	storage       MediaStorage
	rateLimiter   ratelimit.Limiter
	writeMetadata bool
	logger        logger.Logger
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops the
// workers after their current job.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	client MediaDownloader,
	storage MediaStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan DownloadJob, numWorkers*2),
		resultQueue: make(chan DownloadResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log.WithField("component", "downloader"),
	}
}

// WriteMetadata enables JSON sidecars next to each saved file
func (wp *WorkerPool) WriteMetadata(enabled bool) {
	wp.writeMetadata = enabled
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	logger.LogComponentStart(wp.logger, "worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"metadata":    wp.writeMetadata,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for queued jobs to finish and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit queues job, blocking while the queue is full
func (wp *WorkerPool) Submit(job DownloadJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results delivers one DownloadResult per processed job
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		if wp.ctx.Err() != nil {
			// Drain so Submit never blocks on a dead pool
			continue
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
		}
	}
}

func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}
	username := job.Post.Username

	if wp.storage.Exists(username, job.Filename) {
		if wp.writeMetadata {
			wp.repairMetadata(job, wp.storage.Path(username, job.Filename))
		}
		logger.LogDownload(wp.logger, username, job.Filename, 0, true, nil)
		result.Skipped = true
		result.Success = true
		result.Duration = time.Since(start)
		return result
	}

	if !wp.rateLimiter.Allow() {
		waitStart := time.Now()
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			result.Error = fmt.Errorf("rate limit wait: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		logger.LogRateLimit(wp.logger, job.Item().URL, time.Since(waitStart))
	}

	data, err := wp.client.DownloadMedia(wp.ctx, job.Item())
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)
		logger.LogDownload(wp.logger.WithField("worker_id", workerID), username, job.Filename, 0, false, result.Error)
		return result
	}

	path, n, err := wp.storage.Save(bytes.NewReader(data), username, job.Filename)
	if err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)
		logger.LogDownload(wp.logger.WithField("worker_id", workerID), username, job.Filename, int64(len(data)), false, result.Error)
		return result
	}

	if wp.writeMetadata {
		wp.saveMetadata(job, path, n)
	}

	result.Path = path
	result.Size = n
	result.Success = true
	result.Duration = time.Since(start)
	logger.LogDownload(wp.logger, username, path, n, false, nil)

	return result
}

func (wp *WorkerPool) saveMetadata(job DownloadJob, path string, size int64) {
	meta := metadata.FromPost(job.Post, job.Category, job.Index, size)
	if err := meta.Save(path); err != nil {
		wp.logger.WithError(err).WarnWithFields("Failed to write metadata", map[string]interface{}{
			"path": path,
		})
	}
}

// repairMetadata rewrites the sidecar of an already saved file when it is
// missing or unreadable
func (wp *WorkerPool) repairMetadata(job DownloadJob, path string) {
	if metadata.Exists(path) {
		if _, err := metadata.Load(path); err == nil {
			return
		}
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	wp.saveMetadata(job, path, size)
}

// Summary totals a batch of results
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
	Errors     []error
}

// Add folds r into the totals
func (s *Summary) Add(r DownloadResult) {
	switch {
	case r.Error != nil:
		s.Failed++
		s.Errors = append(s.Errors, fmt.Errorf("%s: %w", r.Job.Filename, r.Error))
	case r.Skipped:
		s.Skipped++
	default:
		s.Downloaded++
		s.Bytes += r.Size
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d downloaded (%s), %d skipped, %d failed",
		s.Downloaded, humanize.Bytes(uint64(s.Bytes)), s.Skipped, s.Failed)
}

// Run downloads every job and returns the totals. progress, when non-nil,
// is called for each result as it arrives.
func Run(pool *WorkerPool, jobs []DownloadJob, progress func(DownloadResult)) Summary {
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	var summary Summary
	for r := range pool.Results() {
		summary.Add(r)
		if progress != nil {
			progress(r)
		}
	}
	return summary
}
