package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	errs "instaviewer/pkg/errors"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/viewer"
)

// resultMsg carries the event produced by a fetch
type resultMsg struct {
	Event viewer.Event
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		m.pruneToasts()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchMsg:
		return m, m.search(msg.Username)

	case resultMsg:
		return m, m.dispatch(msg.Event)
	}

	return m, nil
}

// search validates raw and starts a new search. Validation errors stay
// inline under the search box.
func (m *Model) search(raw string) tea.Cmd {
	username, err := instagram.ParseUsername(raw)
	if err != nil {
		m.inputErr = errs.UserMessage(err, err.Error())
		m.focus = focusSearch
		return m.input.Focus()
	}

	m.inputErr = ""
	m.input.SetValue(username)
	m.input.Blur()
	m.focus = focusContent
	m.cursor = 0
	m.selected = 0
	m.showDetail = false

	return m.dispatch(viewer.NewSearch(username))
}

// dispatch reduces ev. Fetches become commands whose results come back as
// resultMsg; every other effect runs inline.
func (m *Model) dispatch(ev viewer.Event) tea.Cmd {
	var effects []viewer.Effect
	m.state, effects = viewer.Reduce(m.state, ev)

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case viewer.Notify:
			m.addToast(e.Notice)
		case viewer.FetchProfile, viewer.FetchCategory:
			cmds = append(cmds, m.fetch(eff))
		case viewer.RecordHistory:
			m.runner.Run(m.ctx, e)
			m.recent = m.history.Read()
		default:
			m.runner.Run(m.ctx, eff)
		}
	}

	m.clampSelection()
	return tea.Batch(cmds...)
}

func (m *Model) fetch(eff viewer.Effect) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		if ev := runner.Run(ctx, eff); ev != nil {
			return resultMsg{Event: ev}
		}
		return nil
	}
}

func (m *Model) selectTab(c instagram.Category) tea.Cmd {
	if c != m.state.ActiveTab {
		m.selected = 0
		m.showDetail = false
	}
	return m.dispatch(viewer.TabSelected{Category: c})
}

func (m *Model) shiftTab(delta int) tea.Cmd {
	n := len(instagram.Categories)
	idx := 0
	for i, c := range instagram.Categories {
		if c == m.state.ActiveTab {
			idx = i
		}
	}
	return m.selectTab(instagram.Categories[((idx+delta)%n+n)%n])
}

func (m *Model) clampSelection() {
	n := len(m.state.Posts(m.state.ActiveTab))
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if n == 0 {
		m.showDetail = false
	}
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusSearch
	m.showDetail = false
	m.cursor = 0
	m.input.Reset()
	return m.input.Focus()
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus == focusSearch {
		return m, m.handleSearchKey(msg)
	}
	return m, m.handleContentKey(msg)
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if m.showSuggestions() {
			list := m.suggestions()
			if m.cursor < len(list) {
				return m.search(list[m.cursor].Username)
			}
		}
		return m.search(m.input.Value())

	case "up":
		if m.showSuggestions() && m.cursor > 0 {
			m.cursor--
		}
		return nil

	case "down":
		if m.showSuggestions() && m.cursor < len(m.suggestions())-1 {
			m.cursor++
		}
		return nil

	case "ctrl+x":
		m.history.Clear()
		m.recent = m.history.Read()
		m.cursor = 0
		return nil

	case "esc", "tab":
		if m.state.Profile != nil || m.state.Searching {
			m.focus = focusContent
			m.input.Blur()
		}
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.inputErr = ""
		m.cursor = 0
	}
	return cmd
}

func (m *Model) handleContentKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit

	case "/", "s":
		return m.focusInput()

	case "?":
		m.showHelp = !m.showHelp

	case "1", "2", "3", "4":
		return m.selectTab(instagram.Categories[msg.String()[0]-'1'])

	case "right", "l", "tab":
		return m.shiftTab(1)

	case "left", "h", "shift+tab":
		return m.shiftTab(-1)

	case "down", "j":
		if m.selected < len(m.state.Posts(m.state.ActiveTab))-1 {
			m.selected++
		}

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "enter":
		if _, ok := m.selectedPost(); ok {
			m.showDetail = !m.showDetail
		}

	case "esc":
		m.showDetail = false
	}
	return nil
}
