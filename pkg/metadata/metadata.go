package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"instaviewer/pkg/instagram"
)

// MediaMetadata is the JSON sidecar written next to a downloaded file
type MediaMetadata struct {
	// Identifiers
	ID        string `json:"id"`
	Shortcode string `json:"shortcode"`
	Username  string `json:"username"`
	Category  string `json:"category"`
	PostURL   string `json:"post_url,omitempty"`

	// Media
	Type     instagram.MediaType `json:"type"`
	Index    int                 `json:"index"`
	MediaURL string              `json:"media_url"`
	FileSize int64               `json:"file_size,omitempty"`

	// Timestamps
	TakenAt      null.String `json:"taken_at"`
	DownloadedAt time.Time   `json:"downloaded_at"`

	// Content
	Caption      null.String `json:"caption"`
	LikeCount    null.Int    `json:"like_count"`
	CommentCount null.Int    `json:"comment_count"`
}

// FromPost builds the sidecar for media item index of post
func FromPost(post instagram.Post, category instagram.Category, index int, fileSize int64) *MediaMetadata {
	meta := &MediaMetadata{
		ID:           post.ID,
		Shortcode:    post.Shortcode,
		Username:     post.Username,
		Category:     string(category),
		PostURL:      instagram.PostURL(post.Shortcode),
		Index:        index,
		FileSize:     fileSize,
		TakenAt:      post.Timestamp,
		DownloadedAt: time.Now().UTC(),
		Caption:      post.Caption,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
	}

	if index >= 0 && index < len(post.Media) {
		meta.Type = post.Media[index].Type
		meta.MediaURL = post.Media[index].URL
	}

	return meta
}

// Save writes the metadata next to mediaPath
func (m *MediaMetadata) Save(mediaPath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(mediaPath+".json", data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// Load reads the sidecar of mediaPath
func Load(mediaPath string) (*MediaMetadata, error) {
	data, err := os.ReadFile(mediaPath + ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta MediaMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// FormattedCaption returns the caption on one line, cut to maxLength runes
func (m *MediaMetadata) FormattedCaption(maxLength int) string {
	caption := strings.Join(strings.Fields(m.Caption.ValueOrZero()), " ")
	runes := []rune(caption)
	if maxLength > 3 && len(runes) > maxLength {
		return string(runes[:maxLength-3]) + "..."
	}
	return caption
}

// Exists reports whether mediaPath already has a sidecar
func Exists(mediaPath string) bool {
	_, err := os.Stat(mediaPath + ".json")
	return err == nil
}

// CleanOrphaned removes sidecars whose media file is gone
func CleanOrphaned(directory string) (int, error) {
	removed := 0
	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		mediaPath := strings.TrimSuffix(path, ".json")
		if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove orphaned metadata %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	return removed, err
}
