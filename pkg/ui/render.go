package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"instaviewer/pkg/instagram"
)

// RenderProfile writes a profile card
func RenderProfile(w io.Writer, p instagram.Profile) {
	name := "@" + p.Username
	if p.IsVerified {
		name += " " + Cyan("✓")
	}
	if p.IsPrivate {
		name += " " + Dim("(private)")
	}
	fmt.Fprintln(w, Bold(name))
	if p.FullName != "" {
		fmt.Fprintln(w, p.FullName)
	}
	fmt.Fprintf(w, "%s posts  %s followers  %s following\n",
		Yellow(instagram.FormatCount(p.PostsCount)),
		Yellow(instagram.FormatCount(p.FollowersCount)),
		Yellow(instagram.FormatCount(p.FollowingCount)))
	if p.Biography != "" {
		fmt.Fprintln(w, Dim(p.Biography))
	}
	if p.ExternalURL.Valid {
		fmt.Fprintln(w, Cyan(p.ExternalURL.String))
	}
	fmt.Fprintln(w, Dim(instagram.ProfilePageURL(p.Username)))
}

// RenderPosts writes one block per post of category
func RenderPosts(w io.Writer, category instagram.Category, posts []instagram.Post) {
	fmt.Fprintf(w, "%s (%d)\n", Magenta(category.Title()), len(posts))
	if len(posts) == 0 {
		fmt.Fprintln(w, Dim("  No "+strings.ToLower(category.Title())+" available"))
		return
	}

	for i, post := range posts {
		fmt.Fprintf(w, "%3d. %s\n", i+1, PostSummary(post))
		if link := instagram.PostURL(post.Shortcode); link != "" {
			fmt.Fprintf(w, "     %s\n", Dim(link))
		}
	}
}

// PostSummary is a one-line description of post
func PostSummary(post instagram.Post) string {
	parts := []string{mediaLabel(post)}

	if post.LikeCount.Valid {
		parts = append(parts, "♥ "+instagram.FormatCount(post.LikeCount.Int64))
	}
	if post.CommentCount.Valid {
		parts = append(parts, "💬 "+instagram.FormatCount(post.CommentCount.Int64))
	}
	if when := RelativeTime(post.Timestamp.ValueOrZero()); when != "" {
		parts = append(parts, when)
	}
	if caption := Truncate(post.Caption.ValueOrZero(), 60); caption != "" {
		parts = append(parts, caption)
	}
	return strings.Join(parts, " · ")
}

func mediaLabel(post instagram.Post) string {
	kind := "image"
	if post.Cover().IsVideo() {
		kind = "video"
	}
	if n := len(post.Media); n > 1 {
		return fmt.Sprintf("%s +%d", kind, n-1)
	}
	return kind
}

// RelativeTime renders an RFC 3339 timestamp as "3 days ago". Unparseable
// values are returned unchanged.
func RelativeTime(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

// Truncate flattens s to one line of at most n runes
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if n > 1 && len(runes) > n {
		return string(runes[:n-1]) + "…"
	}
	return s
}

// RenderPopular lists the suggested profiles
func RenderPopular(w io.Writer, profiles []instagram.PopularProfile) {
	for _, p := range profiles {
		fmt.Fprintf(w, "%-16s %-20s %s\n", Cyan("@"+p.Username), p.Name, Dim(p.Category))
	}
}

// RenderHistory lists recent searches, most recent first
func RenderHistory(w io.Writer, usernames []string) {
	if len(usernames) == 0 {
		fmt.Fprintln(w, Dim("No recent searches"))
		return
	}
	for i, u := range usernames {
		fmt.Fprintf(w, "%d. @%s\n", i+1, u)
	}
}
