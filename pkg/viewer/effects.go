package viewer

import (
	"instaviewer/pkg/instagram"
)

// Effect is a side effect requested by Reduce
type Effect interface {
	isEffect()
}

// FetchProfile requests the profile of Username
type FetchProfile struct {
	Session  string
	Username string
}

// FetchCategory requests the posts of one category. Preload marks the
// stories fetch issued right after the profile loads.
type FetchCategory struct {
	Session  string
	Username string
	Category instagram.Category
	Preload  bool
}

// RecordHistory adds Username to the recent searches
type RecordHistory struct {
	Username string
}

// Notice is a user-visible message. Category is empty for search-level
// notices.
type Notice struct {
	Category instagram.Category
	Text     string
}

// Notify shows a Notice
type Notify struct {
	Notice
}

// Log level names used by the Log effect
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log writes a diagnostic line
type Log struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Err     error
}

func (FetchProfile) isEffect()  {}
func (FetchCategory) isEffect() {}
func (RecordHistory) isEffect() {}
func (Notify) isEffect()        {}
func (Log) isEffect()           {}
