package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "instaviewer/pkg/errors"
)

func TestNormalizePostsStoriesFallback(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		category Category
		wantIDs  []string
	}{
		{
			name:     "stories key",
			body:     `{"stories": [{"id": "s1", "mediaUrls": [{"type": "image", "url": "https://cdn/s1.jpg"}]}], "posts": [{"id": "p1", "mediaUrls": ["https://cdn/p1.jpg"]}]}`,
			category: CategoryStories,
			wantIDs:  []string{"s1"},
		},
		{
			name:     "posts fallback",
			body:     `{"posts": [{"id": "p1", "mediaUrls": ["https://cdn/p1.jpg"]}]}`,
			category: CategoryStories,
			wantIDs:  []string{"p1"},
		},
		{
			name:     "non-array stories falls back",
			body:     `{"stories": null, "posts": [{"id": "p1", "mediaUrls": ["https://cdn/p1.jpg"]}]}`,
			category: CategoryStories,
			wantIDs:  []string{"p1"},
		},
		{
			name:     "empty stories array is authoritative",
			body:     `{"stories": [], "posts": [{"id": "p1", "mediaUrls": ["https://cdn/p1.jpg"]}]}`,
			category: CategoryStories,
			wantIDs:  []string{},
		},
		{
			name:     "reels ignore stories key",
			body:     `{"stories": [{"id": "s1", "mediaUrls": ["https://cdn/s1.jpg"]}], "posts": [{"id": "r1", "mediaUrls": ["https://cdn/r1.mp4"]}]}`,
			category: CategoryReels,
			wantIDs:  []string{"r1"},
		},
		{
			name:     "missing list",
			body:     `{}`,
			category: CategoryHighlights,
			wantIDs:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := NormalizePosts([]byte(tt.body), tt.category)
			require.NoError(t, err)
			ids := make([]string, 0, len(posts))
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestNormalizePostsAliases(t *testing.T) {
	body := `{"posts": [{
		"pk": 3141592653589793,
		"code": "CxYz",
		"owner": {"username": "natgeo"},
		"media_urls": [
			{"type": "video", "url": "https://cdn/v.mp4", "thumbnail_url": "https://cdn/v.jpg"},
			{"is_video": false, "display_url": "https://cdn/i.jpg"}
		],
		"caption": {"text": "sunrise"},
		"taken_at": 1700000000,
		"like_count": 10,
		"comment_count": 2
	}]}`

	posts, err := NormalizePosts([]byte(body), CategoryPosts)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "3141592653589793", p.ID)
	assert.Equal(t, "CxYz", p.Shortcode)
	assert.Equal(t, "natgeo", p.Username)
	require.Len(t, p.Media, 2)
	assert.Equal(t, MediaTypeVideo, p.Media[0].Type)
	assert.Equal(t, "https://cdn/v.jpg", p.Media[0].ThumbnailURL.ValueOrZero())
	assert.Equal(t, MediaTypeImage, p.Media[1].Type)
	assert.Equal(t, "https://cdn/i.jpg", p.Media[1].URL)
	assert.Equal(t, "sunrise", p.Caption.ValueOrZero())
	assert.Equal(t, "2023-11-14T22:13:20Z", p.Timestamp.ValueOrZero())
	assert.Equal(t, int64(10), p.LikeCount.ValueOrZero())
	assert.Equal(t, int64(2), p.CommentCount.ValueOrZero())
}

func TestNormalizePostsOptionalFieldsAbsent(t *testing.T) {
	posts, err := NormalizePosts([]byte(`{"posts": [{"id": "1", "url": "https://cdn/clip.mp4?sig=1"}]}`), CategoryReels)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, MediaTypeVideo, p.Media[0].Type)
	assert.False(t, p.Caption.Valid)
	assert.False(t, p.Timestamp.Valid)
	assert.False(t, p.LikeCount.Valid)
	assert.False(t, p.CommentCount.Valid)
}

func TestNormalizePostsDropsEntriesWithoutMedia(t *testing.T) {
	body := `{"posts": [
		{"id": "empty", "mediaUrls": []},
		{"id": "blank", "mediaUrls": [{"type": "image", "url": ""}, "  "]},
		{"id": "none"},
		"not an object",
		{"id": "ok", "media": [{"type": "image", "url": "https://cdn/ok.jpg"}]}
	]}`

	posts, err := NormalizePosts([]byte(body), CategoryHighlights)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "ok", posts[0].ID)
	assert.NotEmpty(t, posts[0].Media)
}

func TestNormalizePostsInvalidJSON(t *testing.T) {
	_, err := NormalizePosts([]byte(`{"posts": [`), CategoryPosts)
	require.Error(t, err)
	assert.True(t, errs.IsFetchFailure(err))
}
