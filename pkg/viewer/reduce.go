package viewer

import (
	"strings"

	errs "instaviewer/pkg/errors"
	"instaviewer/pkg/instagram"
)

const profileFallback = "Could not load profile"

// Reduce applies ev to s and returns the next state with the effects to
// run. s is never modified.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SearchStarted:
		return startSearch(s, e)
	case ProfileLoaded:
		return profileLoaded(s, e)
	case ProfileFailed:
		return profileFailed(s, e)
	case TabSelected:
		return selectTab(s, e)
	case CategoryLoaded:
		return categoryLoaded(s, e)
	case CategoryFailed:
		return categoryFailed(s, e)
	}
	return s, nil
}

// startSearch resets every bucket and loading flag and asks for the
// profile. The stories preload waits for the profile to succeed.
func startSearch(s State, e SearchStarted) (State, []Effect) {
	next := NewState()
	next.Session = e.Session
	next.Username = e.Username
	next.Searching = true

	return next, []Effect{
		Log{Level: LevelInfo, Message: "search started", Fields: map[string]interface{}{
			"username": e.Username,
			"session":  e.Session,
		}},
		FetchProfile{Session: e.Session, Username: e.Username},
	}
}

func profileLoaded(s State, e ProfileLoaded) (State, []Effect) {
	if stale(s, e.Session) {
		return s, []Effect{discarded(s, e.Session, "profile")}
	}

	next := s.clone()
	profile := e.Profile
	next.Profile = &profile
	next.Searching = false
	next.loading[instagram.CategoryStories] = true

	effects := []Effect{
		RecordHistory{Username: s.Username},
		FetchCategory{
			Session:  s.Session,
			Username: s.Username,
			Category: instagram.CategoryStories,
			Preload:  true,
		},
	}

	// A tab picked while the profile was loading is fetched now
	if tab := s.ActiveTab; tab != instagram.CategoryStories && len(s.cache[tab]) == 0 {
		next.loading[tab] = true
		effects = append(effects, FetchCategory{Session: s.Session, Username: s.Username, Category: tab})
	}
	return next, effects
}

func profileFailed(s State, e ProfileFailed) (State, []Effect) {
	if stale(s, e.Session) {
		return s, []Effect{discarded(s, e.Session, "profile")}
	}

	next := s.clone()
	next.Searching = false
	next.Profile = nil

	return next, []Effect{
		Log{Level: LevelError, Message: "profile fetch failed", Err: e.Err, Fields: map[string]interface{}{
			"username": s.Username,
		}},
		Notify{Notice{Text: errs.UserMessage(e.Err, profileFallback)}},
	}
}

// selectTab always switches tabs. It fetches only once the profile has
// loaded and the bucket is empty and not already loading; a tab chosen
// during the profile fetch is picked up by profileLoaded.
func selectTab(s State, e TabSelected) (State, []Effect) {
	next := s.clone()
	next.ActiveTab = e.Category

	if !s.Active() || len(s.cache[e.Category]) > 0 || s.loading[e.Category] {
		return next, nil
	}

	next.loading[e.Category] = true
	return next, []Effect{
		FetchCategory{Session: s.Session, Username: s.Username, Category: e.Category},
	}
}

func categoryLoaded(s State, e CategoryLoaded) (State, []Effect) {
	if stale(s, e.Session) {
		return s, []Effect{discarded(s, e.Session, string(e.Category))}
	}

	next := s.clone()
	posts := make([]instagram.Post, len(e.Posts))
	copy(posts, e.Posts)
	next.cache[e.Category] = posts
	next.loading[e.Category] = false

	return next, []Effect{
		Log{Level: LevelDebug, Message: "category loaded", Fields: map[string]interface{}{
			"username": s.Username,
			"category": string(e.Category),
			"count":    len(posts),
		}},
	}
}

// categoryFailed leaves the bucket empty so a later selection retries.
// A failed stories preload is only logged.
func categoryFailed(s State, e CategoryFailed) (State, []Effect) {
	if stale(s, e.Session) {
		return s, []Effect{discarded(s, e.Session, string(e.Category))}
	}

	next := s.clone()
	next.loading[e.Category] = false

	fields := map[string]interface{}{
		"username": s.Username,
		"category": string(e.Category),
	}
	if e.Preload {
		return next, []Effect{
			Log{Level: LevelWarn, Message: "stories preload failed", Err: e.Err, Fields: fields},
		}
	}

	return next, []Effect{
		Log{Level: LevelError, Message: "category fetch failed", Err: e.Err, Fields: fields},
		Notify{Notice{
			Category: e.Category,
			Text:     "Could not load " + strings.ToLower(e.Category.Title()),
		}},
	}
}

func stale(s State, session string) bool {
	return session != s.Session
}

func discarded(s State, session, what string) Effect {
	return Log{Level: LevelDebug, Message: "discarded stale result", Fields: map[string]interface{}{
		"result":          what,
		"session":         session,
		"current_session": s.Session,
	}}
}
