package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"instaviewer/pkg/config"
	"instaviewer/pkg/history"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/logger"
	"instaviewer/pkg/viewer"
)

const (
	toastTTL  = 4 * time.Second
	maxToasts = 3
)

type focus int

const (
	focusSearch focus = iota
	focusContent
)

// Options configures the interactive viewer
type Options struct {
	Fetcher viewer.Fetcher
	History history.Store
	Logger  logger.Logger
	// BaseURL is used to build media proxy links in the detail pane
	BaseURL string
	// Username, when set, is searched as soon as the program starts
	Username string
}

// toast is a transient notice shown at the bottom of the screen
type toast struct {
	Category instagram.Category
	Text     string
	Expires  time.Time
}

// suggestion is one row of the dropdown under the search box
type suggestion struct {
	Username string
	Label    string
	Recent   bool
}

// Model is the bubbletea model of the viewer
type Model struct {
	ctx     context.Context
	state   viewer.State
	runner  viewer.Runner
	history history.Store
	baseURL string
	initial string
	now     func() time.Time

	// Search box
	input    textinput.Model
	inputErr string
	focus    focus
	recent   []string
	cursor   int

	// Content
	selected   int
	showDetail bool

	spinner  spinner.Model
	toasts   []toast
	width    int
	height   int
	showHelp bool
}

// NewModel creates the viewer model
func NewModel(ctx context.Context, opts Options) *Model {
	store := opts.History
	if store == nil {
		store = history.Nop{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	base := opts.BaseURL
	if base == "" {
		base = config.DefaultBaseURL
	}

	ti := textinput.New()
	ti.Placeholder = "Enter an Instagram username"
	ti.Prompt = "@ "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	return &Model{
		ctx:   ctx,
		state: viewer.NewState(),
		runner: viewer.Runner{
			Fetcher: opts.Fetcher,
			History: store,
			Logger:  log.WithField("component", "tui"),
		},
		history: store,
		baseURL: base,
		initial: opts.Username,
		now:     time.Now,
		input:   ti,
		focus:   focusSearch,
		recent:  store.Read(),
		spinner: s,
	}
}

// searchMsg asks the model to search username
type searchMsg struct {
	Username string
}

// Init starts the spinner and the initial search, if any
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.initial != "" {
		username := m.initial
		cmds = append(cmds, func() tea.Msg { return searchMsg{Username: username} })
	}
	return tea.Batch(cmds...)
}

// State returns the current viewer state
func (m *Model) State() viewer.State {
	return m.state
}

// suggestions lists recent searches followed by the popular profiles not
// already among them
func (m *Model) suggestions() []suggestion {
	seen := make(map[string]bool, len(m.recent))
	list := make([]suggestion, 0, len(m.recent)+len(instagram.PopularProfiles))
	for _, u := range m.recent {
		seen[strings.ToLower(u)] = true
		list = append(list, suggestion{Username: u, Label: "@" + u, Recent: true})
	}
	for _, p := range instagram.PopularProfiles {
		if seen[strings.ToLower(p.Username)] {
			continue
		}
		list = append(list, suggestion{Username: p.Username, Label: "@" + p.Username + "  " + p.Name})
	}
	return list
}

// showSuggestions reports whether the dropdown is open
func (m *Model) showSuggestions() bool {
	return m.focus == focusSearch && m.input.Value() == ""
}

// selectedPost returns the highlighted post of the active tab
func (m *Model) selectedPost() (instagram.Post, bool) {
	posts := m.state.Posts(m.state.ActiveTab)
	if m.selected < 0 || m.selected >= len(posts) {
		return instagram.Post{}, false
	}
	return posts[m.selected], true
}

// pruneToasts drops expired toasts
func (m *Model) pruneToasts() {
	now := m.now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *Model) addToast(n viewer.Notice) {
	m.toasts = append(m.toasts, toast{Category: n.Category, Text: n.Text, Expires: m.now().Add(toastTTL)})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}
