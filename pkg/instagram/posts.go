package instagram

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"

	errs "instaviewer/pkg/errors"
)

// Post field aliases, camelCase first
var (
	postIDPaths        = []string{"id", "pk"}
	postShortcodePaths = []string{"shortcode", "code"}
	postUsernamePaths  = []string{"username", "owner.username", "user.username"}
	postMediaPaths     = []string{"mediaUrls", "media_urls", "media"}
	postCaptionPaths   = []string{"caption", "caption.text"}
	postTimePaths      = []string{"timestamp", "taken_at"}
	postLikePaths      = []string{"likeCount", "like_count"}
	postCommentPaths   = []string{"commentCount", "comment_count"}

	mediaURLPaths   = []string{"url", "video_url", "display_url"}
	mediaThumbPaths = []string{"thumbnailUrl", "thumbnail_url"}
)

// NormalizePosts extracts the post list of a category response. Stories
// are read from "stories" and fall back to "posts" when that key is absent
// or not an array; every other category reads "posts". Entries without a
// usable media item are dropped. A missing list yields an empty slice.
func NormalizePosts(body []byte, category Category) ([]Post, error) {
	if !gjson.ValidBytes(body) {
		return nil, errs.New(errs.ErrorTypeParsing, 0, "invalid JSON in "+string(category)+" response")
	}
	root := gjson.ParseBytes(body)

	list := root.Get("posts")
	if category == CategoryStories {
		if stories := root.Get("stories"); stories.IsArray() {
			list = stories
		}
	}

	posts := make([]Post, 0)
	if !list.IsArray() {
		return posts, nil
	}

	for _, entry := range list.Array() {
		if !entry.IsObject() {
			continue
		}
		if post, ok := normalizePost(entry); ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func normalizePost(entry gjson.Result) (Post, bool) {
	post := Post{
		ID:        firstText(entry, postIDPaths),
		Shortcode: firstText(entry, postShortcodePaths),
		Username:  firstText(entry, postUsernamePaths),
	}

	if media, ok := first(entry, kindArray, postMediaPaths); ok {
		for _, item := range media.Array() {
			if m, ok := normalizeMedia(item); ok {
				post.Media = append(post.Media, m)
			}
		}
	} else if m, ok := normalizeMedia(entry); ok {
		// Single-media entries carry the url on the post itself
		post.Media = []MediaItem{m}
	}
	if len(post.Media) == 0 {
		return Post{}, false
	}

	if v, ok := first(entry, kindString, postCaptionPaths); ok {
		post.Caption = null.StringFrom(v.Str)
	}
	if v, ok := first(entry, kindString, postTimePaths); ok {
		post.Timestamp = null.StringFrom(v.Str)
	} else if v, ok := first(entry, kindNumber, postTimePaths); ok {
		post.Timestamp = null.StringFrom(time.Unix(v.Int(), 0).UTC().Format(time.RFC3339))
	}
	if v, ok := first(entry, kindNumber, postLikePaths); ok {
		post.LikeCount = null.IntFrom(count(v))
	}
	if v, ok := first(entry, kindNumber, postCommentPaths); ok {
		post.CommentCount = null.IntFrom(count(v))
	}

	return post, true
}

// normalizeMedia accepts either an object with a url or a bare URL string
func normalizeMedia(item gjson.Result) (MediaItem, bool) {
	if item.Type == gjson.String {
		u := strings.TrimSpace(item.Str)
		if u == "" {
			return MediaItem{}, false
		}
		return MediaItem{Type: guessMediaType(u), URL: u}, true
	}
	if !item.IsObject() {
		return MediaItem{}, false
	}

	u, ok := first(item, kindString, mediaURLPaths)
	if !ok {
		return MediaItem{}, false
	}
	m := MediaItem{URL: u.Str, Type: MediaTypeImage}

	switch {
	case strings.EqualFold(item.Get("type").Str, string(MediaTypeVideo)):
		m.Type = MediaTypeVideo
	case item.Get("is_video").Bool() || item.Get("isVideo").Bool():
		m.Type = MediaTypeVideo
	case !item.Get("type").Exists():
		m.Type = guessMediaType(u.Str)
	}

	if thumb, ok := first(item, kindString, mediaThumbPaths); ok {
		m.ThumbnailURL = null.StringFrom(thumb.Str)
	}
	return m, true
}

func guessMediaType(u string) MediaType {
	path := u
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if strings.HasSuffix(strings.ToLower(path), ".mp4") {
		return MediaTypeVideo
	}
	return MediaTypeImage
}

// kindArray is only used for post lists, never for profile fields
const kindArray valueKind = -1

func first(obj gjson.Result, kind valueKind, paths []string) (gjson.Result, bool) {
	for _, path := range paths {
		v := obj.Get(path)
		if kind == kindArray {
			if v.IsArray() {
				return v, true
			}
			continue
		}
		if matches(v, kind) {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// firstText returns the first non-empty string or number at paths as text.
// Numeric ids are kept verbatim.
func firstText(obj gjson.Result, paths []string) string {
	for _, path := range paths {
		v := obj.Get(path)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return ""
}
