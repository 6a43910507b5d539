package viewer

import (
	"github.com/google/uuid"

	"instaviewer/pkg/instagram"
)

// Event is an input to Reduce
type Event interface {
	isEvent()
}

// SearchStarted begins a new session for a validated username
type SearchStarted struct {
	Session  string
	Username string
}

// ProfileLoaded carries a successful profile fetch
type ProfileLoaded struct {
	Session string
	Profile instagram.Profile
}

// ProfileFailed carries a failed profile fetch
type ProfileFailed struct {
	Session string
	Err     error
}

// TabSelected is a click on a content tab
type TabSelected struct {
	Category instagram.Category
}

// CategoryLoaded carries a successful category fetch
type CategoryLoaded struct {
	Session  string
	Category instagram.Category
	Posts    []instagram.Post
}

// CategoryFailed carries a failed category fetch
type CategoryFailed struct {
	Session  string
	Category instagram.Category
	Preload  bool
	Err      error
}

func (SearchStarted) isEvent()  {}
func (ProfileLoaded) isEvent()  {}
func (ProfileFailed) isEvent()  {}
func (TabSelected) isEvent()    {}
func (CategoryLoaded) isEvent() {}
func (CategoryFailed) isEvent() {}

// NewSearch stamps a search for username with a fresh session id
func NewSearch(username string) SearchStarted {
	return SearchStarted{Session: uuid.NewString(), Username: username}
}
