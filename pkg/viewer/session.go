package viewer

import (
	"context"
	"sync"

	"instaviewer/pkg/history"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/logger"
)

// Fetcher retrieves profiles and category posts
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*instagram.Profile, error)
	FetchCategory(ctx context.Context, category instagram.Category, username string) ([]instagram.Post, error)
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Runner executes effects against real collaborators
type Runner struct {
	Fetcher  Fetcher
	History  history.Store
	Notifier Notifier
	Logger   logger.Logger
}

// Run executes eff and returns the follow-up event, if any
func (r Runner) Run(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case FetchProfile:
		profile, err := r.Fetcher.FetchProfile(ctx, e.Username)
		if err != nil {
			return ProfileFailed{Session: e.Session, Err: err}
		}
		return ProfileLoaded{Session: e.Session, Profile: *profile}

	case FetchCategory:
		posts, err := r.Fetcher.FetchCategory(ctx, e.Category, e.Username)
		if err != nil {
			return CategoryFailed{Session: e.Session, Category: e.Category, Preload: e.Preload, Err: err}
		}
		return CategoryLoaded{Session: e.Session, Category: e.Category, Posts: posts}

	case RecordHistory:
		if r.History != nil {
			r.History.Add(e.Username)
		}

	case Notify:
		if r.Notifier != nil {
			r.Notifier.Notify(e.Notice)
		}

	case Log:
		r.log(e)
	}
	return nil
}

func (r Runner) log(e Log) {
	if r.Logger == nil {
		return
	}
	l := r.Logger.WithError(e.Err)
	switch e.Level {
	case LevelDebug:
		l.DebugWithFields(e.Message, e.Fields)
	case LevelWarn:
		l.WarnWithFields(e.Message, e.Fields)
	case LevelError:
		l.ErrorWithFields(e.Message, e.Fields)
	default:
		l.InfoWithFields(e.Message, e.Fields)
	}
}

// Session drives Reduce synchronously: every effect is run before Dispatch
// returns and the events it produces are reduced in order.
type Session struct {
	mu     sync.Mutex
	state  State
	runner Runner
}

// NewSession creates a session over runner
func NewSession(runner Runner) *Session {
	if runner.History == nil {
		runner.History = history.Nop{}
	}
	return &Session{state: NewState(), runner: runner}
}

// State returns a snapshot of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search validates raw and starts a search. Validation errors are returned
// to the caller and never reach the notifier.
func (s *Session) Search(ctx context.Context, raw string) error {
	username, err := instagram.ParseUsername(raw)
	if err != nil {
		return err
	}
	s.Dispatch(ctx, NewSearch(username))
	return nil
}

// SelectTab switches to category, fetching it if needed
func (s *Session) SelectTab(ctx context.Context, category instagram.Category) {
	s.Dispatch(ctx, TabSelected{Category: category})
}

// Dispatch reduces ev and runs the resulting effects until no events are
// left. Fetches run without holding the state lock.
func (s *Session) Dispatch(ctx context.Context, ev Event) {
	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		s.mu.Lock()
		var effects []Effect
		s.state, effects = Reduce(s.state, next)
		s.mu.Unlock()

		for _, eff := range effects {
			if follow := s.runner.Run(ctx, eff); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
}
