package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"instaviewer/pkg/config"
	errs "instaviewer/pkg/errors"
	"instaviewer/pkg/logger"
)

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

// Client talks to the upstream data API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates an API client. A zero timeout leaves requests
// unbounded.
func NewClient(cfg *config.APIConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	headers := map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    headers,
		baseURL:    baseURL,
		logger:     log.WithField("component", "api"),
	}
	for key, value := range cfg.Headers {
		c.SetHeader(key, value)
	}
	return c
}

// BaseURL returns the API root the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, 0, "Network error: the server could not be reached", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)
	return resp, nil
}

// get performs a GET request. Non-2xx responses become typed errors whose
// message is the body's "message" field, or fallback when there is none.
func (c *Client) get(ctx context.Context, url, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, 0, fmt.Sprintf("failed to create request: %v", err), err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.statusError(url, resp.StatusCode, body, fallback)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, resp.StatusCode,
			"Network error: the response was interrupted", err)
	}
	return body, nil
}

// statusError builds the error for a non-success response
func (c *Client) statusError(url string, status int, body []byte, fallback string) error {
	message := fmt.Sprintf("%s: %d", fallback, status)
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.Str != "" {
			message = m.Str
		}
	}

	errorType := errs.TypeForStatus(status)
	fields := map[string]interface{}{
		"status":  status,
		"url":     url,
		"message": message,
	}
	if errorType == errs.ErrorTypeServerError {
		c.logger.ErrorWithFields("upstream server error", fields)
	} else {
		c.logger.WarnWithFields("upstream request rejected", fields)
	}

	return errs.New(errorType, status, message)
}

// getJSON is get plus a check that the body decodes as JSON
func (c *Client) getJSON(ctx context.Context, url, fallback string) ([]byte, error) {
	body, err := c.get(ctx, url, fallback)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"body_preview": preview,
		})
		return nil, errs.New(errs.ErrorTypeParsing, http.StatusOK, "Invalid response from server")
	}
	return body, nil
}

// FetchProfile fetches and normalizes the profile of username
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	url := ProfileURL(c.baseURL, username)
	c.logger.DebugWithFields("fetching profile", map[string]interface{}{
		"username": username,
	})

	body, err := c.getJSON(ctx, url, "Could not load profile")
	if err != nil {
		return nil, err
	}

	profile := NormalizeProfile(body, username)
	return &profile, nil
}

// FetchCategory fetches and normalizes the posts of one category
func (c *Client) FetchCategory(ctx context.Context, category Category, username string) ([]Post, error) {
	url := CategoryURL(c.baseURL, category, username)
	c.logger.DebugWithFields("fetching category", map[string]interface{}{
		"username": username,
		"category": string(category),
	})

	body, err := c.getJSON(ctx, url, "Could not load "+strings.ToLower(category.Title()))
	if err != nil {
		return nil, err
	}

	posts, err := NormalizePosts(body, category)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Username == "" {
			posts[i].Username = username
		}
	}

	c.logger.DebugWithFields("fetched category", map[string]interface{}{
		"username": username,
		"category": string(category),
		"count":    len(posts),
	})
	return posts, nil
}

// FetchStories fetches the stories of username
func (c *Client) FetchStories(ctx context.Context, username string) ([]Post, error) {
	return c.FetchCategory(ctx, CategoryStories, username)
}

// FetchPosts fetches the feed posts of username
func (c *Client) FetchPosts(ctx context.Context, username string) ([]Post, error) {
	return c.FetchCategory(ctx, CategoryPosts, username)
}

// FetchReels fetches the reels of username
func (c *Client) FetchReels(ctx context.Context, username string) ([]Post, error) {
	return c.FetchCategory(ctx, CategoryReels, username)
}

// FetchHighlights fetches the highlights of username
func (c *Client) FetchHighlights(ctx context.Context, username string) ([]Post, error) {
	return c.FetchCategory(ctx, CategoryHighlights, username)
}

// DownloadMedia fetches the bytes of item, walking MediaCandidates until
// one succeeds. The last failure is returned when all of them fail.
func (c *Client) DownloadMedia(ctx context.Context, item MediaItem) ([]byte, error) {
	candidates := MediaCandidates(c.baseURL, item)
	if len(candidates) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, 0, "media item has no URL")
	}

	var lastErr error
	for _, u := range candidates {
		data, err := c.get(ctx, u, "Could not download media")
		if err == nil {
			c.logger.DebugWithFields("downloaded media", map[string]interface{}{
				"url":   u,
				"bytes": len(data),
			})
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.WithError(err).DebugWithFields("media candidate failed", map[string]interface{}{
			"url": u,
		})
	}
	return nil, lastErr
}
