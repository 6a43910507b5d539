package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaviewer/pkg/config"
	errs "instaviewer/pkg/errors"
	"instaviewer/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *logger.TestLogger) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	client := NewClient(&config.APIConfig{BaseURL: server.URL + "/api", UserAgent: "instaviewer-test"}, log)
	return client, log
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(&config.APIConfig{}, logger.NewNopLogger())
	assert.Equal(t, config.DefaultBaseURL, client.BaseURL())
	assert.Zero(t, client.httpClient.Timeout)
}

func TestFetchProfile(t *testing.T) {
	var gotQuery, gotUA string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stalk/profile", r.URL.Path)
		gotQuery = r.URL.Query().Get("username")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"followers_count": 650000000}`)
	})

	profile, err := client.FetchProfile(context.Background(), "cristiano")
	require.NoError(t, err)

	assert.Equal(t, "cristiano", gotQuery)
	assert.Equal(t, "instaviewer-test", gotUA)
	assert.Equal(t, "cristiano", profile.Username)
	assert.Equal(t, int64(650000000), profile.FollowersCount)
	assert.Equal(t, int64(0), profile.PostsCount)
	assert.False(t, profile.IsPrivate)
}

func TestConfiguredHeaders(t *testing.T) {
	var gotClient, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClient = r.Header.Get("X-Client")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"username": "alice"}`)
	}))
	defer server.Close()

	client := NewClient(&config.APIConfig{
		BaseURL:   server.URL + "/api",
		UserAgent: "instaviewer-test",
		Headers:   map[string]string{"X-Client": "cli", "User-Agent": "override"},
	}, logger.NewTestLogger())

	_, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "cli", gotClient)
	assert.Equal(t, "override", gotUA)
}

func TestFetchProfileErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantType    errs.ErrorType
		wantMessage string
	}{
		{"message field", http.StatusNotFound, `{"message":"not found"}`, errs.ErrorTypeNotFound, "not found"},
		{"no message", http.StatusTooManyRequests, `{"error":"slow down"}`, errs.ErrorTypeRateLimit, "Could not load profile: 429"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, errs.ErrorTypeServerError, "Could not load profile: 502"},
		{"empty message", http.StatusForbidden, `{"message":""}`, errs.ErrorTypeHTTP, "Could not load profile: 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.FetchProfile(context.Background(), "ghost")
			require.Error(t, err)

			var apiErr *errs.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Code)
			assert.Equal(t, tt.wantMessage, errs.UserMessage(err, "fallback"))
			assert.True(t, errs.IsFetchFailure(err))
			assert.NotEmpty(t, log.GetMessages())
		})
	}
}

func TestFetchProfileInvalidJSON(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"username": "trunc`)
	})

	_, err := client.FetchProfile(context.Background(), "alice")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeParsing, apiErr.Type)
	assert.True(t, log.HasMessage("failed to parse JSON response"))
}

func TestFetchProfileNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(&config.APIConfig{BaseURL: url}, logger.NewTestLogger())
	_, err := client.FetchProfile(context.Background(), "alice")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeNetwork, apiErr.Type)
}

func TestFetchCategory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stalk/stories":
			fmt.Fprint(w, `{"posts": [{"id": "s1", "mediaUrls": ["https://cdn/s1.jpg"]}]}`)
		case "/api/stalk/reels":
			fmt.Fprint(w, `{"posts": [{"id": "r1", "username": "other", "mediaUrls": [{"type": "video", "url": "https://cdn/r1.mp4"}]}]}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	stories, err := client.FetchStories(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "alice", stories[0].Username)

	reels, err := client.FetchReels(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, reels, 1)
	assert.Equal(t, "other", reels[0].Username)

	_, err = client.FetchHighlights(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, "Could not load highlights: 500", errs.UserMessage(err, ""))
}

func TestDownloadMediaFallsBackThroughCandidates(t *testing.T) {
	var proxyHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/media":
			proxyHits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		case "/cdn/v.mp4":
			w.Write([]byte("video-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(&config.APIConfig{BaseURL: server.URL + "/api"}, logger.NewTestLogger())
	data, err := client.DownloadMedia(context.Background(), MediaItem{Type: MediaTypeVideo, URL: server.URL + "/cdn/v.mp4"})
	require.NoError(t, err)

	assert.Equal(t, "video-bytes", string(data))
	assert.Equal(t, int32(1), proxyHits.Load())
}

func TestDownloadMediaAllCandidatesFail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.DownloadMedia(context.Background(), MediaItem{URL: "http://127.0.0.1:1/a.jpg"})
	require.Error(t, err)

	_, err = client.DownloadMedia(context.Background(), MediaItem{})
	assert.True(t, errs.IsValidation(err))
}

func TestContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProfile(ctx, "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
