package instagram

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
)

// MediaType is the kind of a single media item
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Extension returns the file extension used when saving this media type
func (t MediaType) Extension() string {
	if t == MediaTypeVideo {
		return "mp4"
	}
	return "jpg"
}

// Category is one of the four content groupings of a profile
type Category string

const (
	CategoryStories    Category = "stories"
	CategoryPosts      Category = "posts"
	CategoryReels      Category = "reels"
	CategoryHighlights Category = "highlights"
)

// Categories lists every category in display order
var Categories = []Category{CategoryStories, CategoryPosts, CategoryReels, CategoryHighlights}

// ParseCategory converts user input into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want stories, posts, reels or highlights)", s)
}

// Title returns the display label of the category
func (c Category) Title() string {
	switch c {
	case CategoryStories:
		return "Stories"
	case CategoryPosts:
		return "Posts"
	case CategoryReels:
		return "Reels"
	case CategoryHighlights:
		return "Highlights"
	}
	return string(c)
}

// Profile is the canonical identity and statistics of one account.
// A Profile is built fresh from every successful profile fetch.
type Profile struct {
	Username       string      `json:"username"`
	FullName       string      `json:"fullName"`
	Biography      string      `json:"biography"`
	ProfilePicURL  string      `json:"profilePicUrl"`
	PostsCount     int64       `json:"postsCount"`
	FollowersCount int64       `json:"followersCount"`
	FollowingCount int64       `json:"followingCount"`
	IsPrivate      bool        `json:"isPrivate"`
	IsVerified     bool        `json:"isVerified"`
	ExternalURL    null.String `json:"externalUrl"`
}

// MediaItem is a single image or video of a post
type MediaItem struct {
	Type         MediaType   `json:"type"`
	URL          string      `json:"url"`
	ThumbnailURL null.String `json:"thumbnailUrl"`
}

// IsVideo reports whether the item is a video
func (m MediaItem) IsVideo() bool {
	return m.Type == MediaTypeVideo
}

// Post is one story, feed post, reel or highlight entry. Media is never
// empty for posts produced by NormalizePosts.
type Post struct {
	ID           string      `json:"id"`
	Shortcode    string      `json:"shortcode"`
	Username     string      `json:"username"`
	Media        []MediaItem `json:"mediaUrls"`
	Caption      null.String `json:"caption"`
	Timestamp    null.String `json:"timestamp"`
	LikeCount    null.Int    `json:"likeCount"`
	CommentCount null.Int    `json:"commentCount"`
}

// Cover returns the first media item of the post
func (p Post) Cover() MediaItem {
	if len(p.Media) == 0 {
		return MediaItem{}
	}
	return p.Media[0]
}
