package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// ProfileEndpoint returns profile-shaped JSON
	ProfileEndpoint = "/stalk/profile"

	// MediaProxyEndpoint streams media on behalf of the caller
	MediaProxyEndpoint = "/media"

	// InstagramURL is the public web host used for share links
	InstagramURL = "https://www.instagram.com"

	proxiedMarker = "/api/media?url="
)

// ProfileURL constructs the profile endpoint URL for username
func ProfileURL(baseURL, username string) string {
	params := url.Values{}
	params.Set("username", username)
	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), ProfileEndpoint, params.Encode())
}

// CategoryURL constructs the content endpoint URL of a category
func CategoryURL(baseURL string, category Category, username string) string {
	params := url.Values{}
	params.Set("username", username)
	return fmt.Sprintf("%s/stalk/%s?%s", strings.TrimRight(baseURL, "/"), category, params.Encode())
}

// ProxiedURL rewrites a media URL to go through the media proxy.
//
// Empty input yields "". URLs already pointing at a media proxy are
// returned unchanged. Input that is not http(s) is percent-decoded once and
// accepted only if the decoded value is http(s); anything else yields "".
func ProxiedURL(baseURL, raw string) string {
	if raw == "" {
		return ""
	}
	base := strings.TrimRight(baseURL, "/")
	if strings.Contains(raw, proxiedMarker) || strings.HasPrefix(raw, base+MediaProxyEndpoint+"?url=") {
		return raw
	}

	target := raw
	if !isHTTP(raw) {
		decoded, err := url.PathUnescape(raw)
		if err != nil || !isHTTP(decoded) {
			return ""
		}
		target = decoded
	}

	return fmt.Sprintf("%s%s?url=%s", base, MediaProxyEndpoint, url.QueryEscape(target))
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// PostURL constructs the public URL of a post
func PostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", InstagramURL, shortcode)
}

// ProfilePageURL constructs the public profile page URL
func ProfilePageURL(username string) string {
	if username == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", InstagramURL, username)
}
