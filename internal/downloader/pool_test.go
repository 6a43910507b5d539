package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaviewer/pkg/instagram"
	"instaviewer/pkg/logger"
	"instaviewer/pkg/metadata"
	"instaviewer/pkg/ratelimit"
	"instaviewer/pkg/storage"
)

// MockClient counts downloads and can fail on demand
type MockClient struct {
	delay   time.Duration
	err     error
	counter int32
	active  int32
	peak    int32
}

func (m *MockClient) DownloadMedia(ctx context.Context, item instagram.MediaItem) ([]byte, error) {
	atomic.AddInt32(&m.counter, 1)
	n := atomic.AddInt32(&m.active, 1)
	defer atomic.AddInt32(&m.active, -1)
	for {
		p := atomic.LoadInt32(&m.peak)
		if n <= p || atomic.CompareAndSwapInt32(&m.peak, p, n) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return []byte("media:" + item.URL), nil
}

func (m *MockClient) Count() int {
	return int(atomic.LoadInt32(&m.counter))
}

// MockStorage keeps saved files in memory
type MockStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{saved: make(map[string][]byte)}
}

func (m *MockStorage) Path(username, filename string) string {
	return username + "/" + filename
}

func (m *MockStorage) Exists(username, filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saved[username+"/"+filename]
	return ok
}

func (m *MockStorage) Save(r io.Reader, username, filename string) (string, int64, error) {
	if m.saveErr != nil {
		return "", 0, m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := username + "/" + filename
	m.saved[key] = data
	return key, int64(len(data)), nil
}

func (m *MockStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func testPosts(n int) []instagram.Post {
	posts := make([]instagram.Post, n)
	for i := range posts {
		posts[i] = instagram.Post{
			ID:        fmt.Sprint(i),
			Shortcode: fmt.Sprintf("code%d", i),
			Username:  "alice",
			Media: []instagram.MediaItem{{
				Type: instagram.MediaTypeImage,
				URL:  fmt.Sprintf("https://cdn.example.com/%d.jpg", i),
			}},
		}
	}
	return posts
}

func newPool(t *testing.T, workers int, client MediaDownloader, store MediaStorage) *WorkerPool {
	t.Helper()
	return NewWorkerPool(context.Background(), workers, client, store, ratelimit.NewTokenBucket(100, time.Second), logger.NewTestLogger())
}

func TestJobs(t *testing.T) {
	post := instagram.Post{
		Shortcode: "Cabc",
		Username:  "alice",
		Media: []instagram.MediaItem{
			{Type: instagram.MediaTypeImage, URL: "https://cdn/1.jpg"},
			{Type: instagram.MediaTypeVideo, URL: "https://cdn/2.mp4"},
			{Type: instagram.MediaTypeImage, URL: "https://cdn/3.jpg"},
		},
	}

	jobs := Jobs([]instagram.Post{post}, instagram.CategoryPosts)
	require.Len(t, jobs, 3)

	names := []string{jobs[0].Filename, jobs[1].Filename, jobs[2].Filename}
	assert.Equal(t, []string{"alice_Cabc.jpg", "alice_Cabc_2.mp4", "alice_Cabc_3.jpg"}, names)
	assert.Equal(t, "https://cdn/2.mp4", jobs[1].Item().URL)
	assert.Equal(t, instagram.CategoryPosts, jobs[2].Category)
}

func TestJobsWithoutShortcode(t *testing.T) {
	image := []instagram.MediaItem{{Type: instagram.MediaTypeImage, URL: "https://cdn/s.jpg"}}
	posts := []instagram.Post{
		{ID: "s1", Username: "alice", Media: image},
		{ID: "s2", Username: "alice", Media: image},
		{ID: "s3", Username: "alice", Media: image},
		{Username: "alice", Timestamp: null.StringFrom("2024-01-02T03:04:05Z"), Media: image},
		{Username: "alice", Media: image},
		{ID: "s1", Username: "alice", Media: image},
	}

	jobs := Jobs(posts, instagram.CategoryStories)
	require.Len(t, jobs, 6)

	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Filename
	}
	assert.Equal(t, []string{
		"alice_s1.jpg",
		"alice_s2.jpg",
		"alice_s3.jpg",
		"alice_2024-01-02T03-04-05Z.jpg",
		"alice_5.jpg",
		"alice_s1_p6.jpg",
	}, names)

	// Names must not change between runs
	again := Jobs(posts, instagram.CategoryStories)
	for i := range jobs {
		assert.Equal(t, jobs[i].Filename, again[i].Filename)
	}
}

func TestWorkerPoolDownloadsAll(t *testing.T) {
	client := &MockClient{delay: 5 * time.Millisecond}
	store := NewMockStorage()
	pool := newPool(t, 3, client, store)

	summary := Run(pool, Jobs(testPosts(10), instagram.CategoryPosts), nil)

	assert.Equal(t, 10, summary.Downloaded)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 10, client.Count())
	assert.Equal(t, 10, store.Len())
	assert.Positive(t, summary.Bytes)
	assert.LessOrEqual(t, int(atomic.LoadInt32(&client.peak)), 3)
}

func TestWorkerPoolSkipsExisting(t *testing.T) {
	client := &MockClient{}
	store := NewMockStorage()
	store.saved["alice/alice_code0.jpg"] = []byte("old")

	var skipped []string
	summary := Run(newPool(t, 2, client, store), Jobs(testPosts(3), instagram.CategoryPosts), func(r DownloadResult) {
		if r.Skipped {
			skipped = append(skipped, r.Job.Filename)
		}
	})

	assert.Equal(t, []string{"alice_code0.jpg"}, skipped)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 2, client.Count())
}

func TestWorkerPoolReportsFailures(t *testing.T) {
	client := &MockClient{err: errors.New("proxy unavailable")}
	log := logger.NewTestLogger()
	pool := NewWorkerPool(context.Background(), 2, client, NewMockStorage(), ratelimit.NewTokenBucket(10, time.Second), log)

	summary := Run(pool, Jobs(testPosts(4), instagram.CategoryReels), nil)

	assert.Equal(t, 4, summary.Failed)
	require.Len(t, summary.Errors, 4)
	assert.ErrorContains(t, summary.Errors[0], "proxy unavailable")
	assert.True(t, log.HasMessage("Download failed"))
}

func TestWorkerPoolSaveFailure(t *testing.T) {
	store := NewMockStorage()
	store.saveErr = errors.New("disk full")

	summary := Run(newPool(t, 1, &MockClient{}, store), Jobs(testPosts(2), instagram.CategoryPosts), nil)

	assert.Equal(t, 2, summary.Failed)
	assert.ErrorContains(t, summary.Errors[0], "save failed")
}

func TestWorkerPoolWritesMetadata(t *testing.T) {
	dir := t.TempDir()
	manager, err := storage.NewManager(dir, true)
	require.NoError(t, err)

	pool := newPool(t, 2, &MockClient{}, manager)
	pool.WriteMetadata(true)

	summary := Run(pool, Jobs(testPosts(2), instagram.CategoryStories), nil)
	require.Equal(t, 2, summary.Downloaded)

	path := filepath.Join(dir, "alice", "alice_code1.jpg")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "media:https://cdn.example.com/1.jpg", string(data))

	meta, err := metadata.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "code1", meta.Shortcode)
	assert.Equal(t, "stories", meta.Category)
	assert.Equal(t, int64(len(data)), meta.FileSize)
}

func TestWorkerPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &MockClient{}
	pool := NewWorkerPool(ctx, 2, client, NewMockStorage(), ratelimit.NewTokenBucket(10, time.Second), nil)

	summary := Run(pool, Jobs(testPosts(5), instagram.CategoryPosts), nil)

	assert.Zero(t, summary.Downloaded)
	assert.Zero(t, client.Count())
}

func TestSummaryString(t *testing.T) {
	var s Summary
	s.Add(DownloadResult{Success: true, Size: 1500})
	s.Add(DownloadResult{Success: true, Skipped: true})
	s.Add(DownloadResult{Error: errors.New("boom")})

	assert.Equal(t, "1 downloaded (1.5 kB), 1 skipped, 1 failed", s.String())
}

func TestWorkerPoolDefaults(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, &MockClient{}, NewMockStorage(), ratelimit.PerMinute(1), logger.NewNopLogger())
	assert.Equal(t, 1, pool.numWorkers)
	assert.Equal(t, 2, cap(pool.jobQueue))
}

func TestWorkerPoolRepairsMetadataOfSkippedFiles(t *testing.T) {
	dir := t.TempDir()
	posts := testPosts(3)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "alice"), 0755))
	for _, name := range []string{"alice_code0.jpg", "alice_code1.jpg", "alice_code2.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", name), []byte("saved"), 0644))
	}

	// code0 has a valid sidecar, code1 a corrupt one, code2 none
	valid := metadata.FromPost(posts[0], instagram.CategoryPosts, 0, 5)
	valid.Caption = null.StringFrom("keep me")
	require.NoError(t, valid.Save(filepath.Join(dir, "alice", "alice_code0.jpg")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "alice_code1.jpg.json"), []byte("{broken"), 0644))

	manager, err := storage.NewManager(dir, true)
	require.NoError(t, err)

	client := &MockClient{}
	pool := newPool(t, 2, client, manager)
	pool.WriteMetadata(true)
	summary := Run(pool, Jobs(posts, instagram.CategoryPosts), nil)

	assert.Equal(t, 3, summary.Skipped)
	assert.Zero(t, client.Count())

	kept, err := metadata.Load(filepath.Join(dir, "alice", "alice_code0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", kept.Caption.String)

	for _, name := range []string{"alice_code1.jpg", "alice_code2.jpg"} {
		meta, err := metadata.Load(filepath.Join(dir, "alice", name))
		require.NoError(t, err, name)
		assert.Equal(t, int64(5), meta.FileSize)
		assert.Equal(t, "alice", meta.Username)
	}
}
