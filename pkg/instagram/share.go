package instagram

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SharePlatform is a destination for sharing a post
type SharePlatform string

const (
	ShareFacebook SharePlatform = "facebook"
	ShareWhatsApp SharePlatform = "whatsapp"
	ShareLinkedIn SharePlatform = "linkedin"
	ShareCopy     SharePlatform = "copy"
)

// SharePlatforms lists the platforms in menu order
var SharePlatforms = []SharePlatform{ShareFacebook, ShareWhatsApp, ShareLinkedIn, ShareCopy}

// ShareURL returns the link that shares post on platform. ShareCopy returns
// the plain post URL.
func ShareURL(platform SharePlatform, post Post) (string, error) {
	postURL := PostURL(post.Shortcode)
	if postURL == "" {
		return "", fmt.Errorf("post %q has no shortcode to share", post.ID)
	}

	switch platform {
	case ShareCopy:
		return postURL, nil
	case ShareFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(postURL), nil
	case ShareWhatsApp:
		text := fmt.Sprintf("Check out this Instagram post by @%s %s", post.Username, postURL)
		return "https://api.whatsapp.com/send?text=" + url.QueryEscape(text), nil
	case ShareLinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(postURL), nil
	}
	return "", fmt.Errorf("unknown share platform %q", platform)
}

// DownloadFilename names a saved media item <username>_<shortcode>.<ext>.
// Posts without a shortcode use the current unix time in milliseconds.
func DownloadFilename(post Post, item MediaItem) string {
	id := post.Shortcode
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return fmt.Sprintf("%s_%s.%s", post.Username, id, item.Type.Extension())
}

// MediaCandidates returns the URLs to try for item, best first: proxied
// url, raw url, proxied thumbnail, raw thumbnail. Empty and duplicate
// entries are skipped.
func MediaCandidates(baseURL string, item MediaItem) []string {
	thumb := item.ThumbnailURL.ValueOrZero()
	raw := []string{
		ProxiedURL(baseURL, item.URL),
		item.URL,
		ProxiedURL(baseURL, thumb),
		thumb,
	}

	seen := make(map[string]bool, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, u := range raw {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		candidates = append(candidates, u)
	}
	return candidates
}
