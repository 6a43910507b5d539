// Package viewer holds the search and tab state of the profile viewer.
//
// All transitions go through Reduce, a pure function from a State and an
// Event to the next State and the Effects the caller must run. Effects
// produce further Events (fetch results) which are fed back into Reduce.
// Session runs this loop synchronously; the terminal UI runs effects as
// commands on its own event loop.
package viewer

import (
	"instaviewer/pkg/instagram"
)

// State is the viewer state for one search session
type State struct {
	// Session stamps every fetch of the current search. Results carrying a
	// different stamp belong to an earlier search and are discarded.
	Session   string
	Username  string
	Searching bool
	Profile   *instagram.Profile
	ActiveTab instagram.Category

	cache   map[instagram.Category][]instagram.Post
	loading map[instagram.Category]bool
}

// NewState returns the state before any search
func NewState() State {
	return State{
		ActiveTab: instagram.CategoryStories,
		cache:     emptyCache(),
		loading:   make(map[instagram.Category]bool, len(instagram.Categories)),
	}
}

func emptyCache() map[instagram.Category][]instagram.Post {
	cache := make(map[instagram.Category][]instagram.Post, len(instagram.Categories))
	for _, c := range instagram.Categories {
		cache[c] = []instagram.Post{}
	}
	return cache
}

// Posts returns the cached posts of a category
func (s State) Posts(c instagram.Category) []instagram.Post {
	return s.cache[c]
}

// Count returns the number of cached posts of a category
func (s State) Count(c instagram.Category) int {
	return len(s.cache[c])
}

// Loading reports whether a fetch for c is outstanding
func (s State) Loading(c instagram.Category) bool {
	return s.loading[c]
}

// Active reports whether a profile is loaded and tabs can be fetched
func (s State) Active() bool {
	return s.Profile != nil
}

// clone copies the maps so a reduction never mutates its input
func (s State) clone() State {
	next := s
	next.cache = make(map[instagram.Category][]instagram.Post, len(s.cache))
	for k, v := range s.cache {
		next.cache[k] = v
	}
	next.loading = make(map[instagram.Category]bool, len(s.loading))
	for k, v := range s.loading {
		next.loading[k] = v
	}
	return next
}
