package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"instaviewer/pkg/instagram"
	"instaviewer/pkg/ui"
)

const logo = "◎ InstaViewer"

// View renders the entire TUI
func (m *Model) View() string {
	var sections []string

	sections = append(sections, logoStyle.Render(logo), m.renderSearch())

	if m.showSuggestions() {
		sections = append(sections, m.renderSuggestions())
	}

	switch {
	case m.state.Searching:
		sections = append(sections, fmt.Sprintf("%s Loading @%s…", m.spinner.View(), m.state.Username))
	case m.state.Profile != nil:
		sections = append(sections, m.renderProfile(), m.renderTabs(), m.renderContent())
	}

	if len(m.toasts) > 0 {
		sections = append(sections, m.renderToasts())
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render(m.helpLine()))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m *Model) renderSearch() string {
	box := m.input.View()
	if m.inputErr != "" {
		box = lipgloss.JoinVertical(lipgloss.Left, box, errorStyle.Render(m.inputErr))
	}
	return box
}

func (m *Model) renderSuggestions() string {
	list := m.suggestions()
	var lines []string

	header := func(title string) {
		lines = append(lines, labelStyle.Render(title))
	}

	for i, s := range list {
		if i == 0 && s.Recent {
			header("Recent searches " + dimStyle.Render("(ctrl+x to clear)"))
		}
		if !s.Recent && (i == 0 || list[i-1].Recent) {
			header("Popular profiles")
		}

		style := itemStyle
		marker := "  "
		if i == m.cursor {
			style = selectedItemStyle
			marker = "› "
		}
		lines = append(lines, style.Render(marker+s.Label))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderProfile() string {
	p := m.state.Profile

	name := lipgloss.NewStyle().Bold(true).Render("@" + p.Username)
	if p.IsVerified {
		name += " " + verifiedStyle.Render("✓")
	}
	if p.IsPrivate {
		name += " " + dimStyle.Render("private")
	}

	lines := []string{name}
	if p.FullName != "" {
		lines = append(lines, p.FullName)
	}
	lines = append(lines, fmt.Sprintf("%s %s   %s %s   %s %s",
		valueStyle.Render(instagram.FormatCount(p.PostsCount)), labelStyle.Render("posts"),
		valueStyle.Render(instagram.FormatCount(p.FollowersCount)), labelStyle.Render("followers"),
		valueStyle.Render(instagram.FormatCount(p.FollowingCount)), labelStyle.Render("following")))
	if p.Biography != "" {
		lines = append(lines, dimStyle.Render(p.Biography))
	}
	if p.ExternalURL.Valid {
		lines = append(lines, verifiedStyle.Render(p.ExternalURL.String))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(instagram.Categories))
	for i, c := range instagram.Categories {
		label := fmt.Sprintf("%d %s", i+1, c.Title())
		switch {
		case m.state.Loading(c):
			label += " " + m.spinner.View()
		case m.state.Count(c) > 0:
			label += fmt.Sprintf(" (%d)", m.state.Count(c))
		}

		style := tabStyle
		if c == m.state.ActiveTab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderContent() string {
	c := m.state.ActiveTab
	posts := m.state.Posts(c)

	if m.state.Loading(c) {
		return fmt.Sprintf("%s Loading %s…", m.spinner.View(), strings.ToLower(c.Title()))
	}
	if len(posts) == 0 {
		return dimStyle.Render("No " + strings.ToLower(c.Title()) + " available")
	}

	lines := make([]string, 0, len(posts))
	for i, post := range posts {
		line := ui.Truncate(ui.PostSummary(post), 70)
		if i == m.selected {
			lines = append(lines, selectedItemStyle.Render("› "+line))
		} else {
			lines = append(lines, itemStyle.Render("  "+line))
		}
	}
	list := strings.Join(lines, "\n")

	if !m.showDetail {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderDetail())
}

func (m *Model) renderDetail() string {
	post, ok := m.selectedPost()
	if !ok {
		return ""
	}
	cover := post.Cover()

	lines := []string{titleStyle.Render(" " + m.state.ActiveTab.Title() + " ")}
	if link := instagram.PostURL(post.Shortcode); link != "" {
		lines = append(lines, labelStyle.Render("Link ")+link)
	}
	if post.Caption.Valid {
		lines = append(lines, ui.Truncate(post.Caption.String, 80))
	}
	if post.Timestamp.Valid {
		lines = append(lines, dimStyle.Render(ui.RelativeTime(post.Timestamp.String)))
	}
	lines = append(lines, labelStyle.Render("Save as ")+instagram.DownloadFilename(post, cover))

	lines = append(lines, "", labelStyle.Render("Media"))
	for i, u := range instagram.MediaCandidates(m.baseURL, cover) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d. %s", i+1, u)))
	}

	if post.Shortcode != "" {
		lines = append(lines, "", labelStyle.Render("Share"))
		for _, p := range instagram.SharePlatforms {
			if u, err := instagram.ShareURL(p, post); err == nil {
				lines = append(lines, fmt.Sprintf("%-9s %s", p, dimStyle.Render(u)))
			}
		}
	}

	return panelStyle.Width(60).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderToasts() string {
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, toastStyle.Render(t.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) helpLine() string {
	if m.focus == focusSearch {
		return "enter search • ↑/↓ suggestions • esc back • ctrl+c quit"
	}
	return "1-4/←/→ tabs • ↑/↓ select • enter details • / search • ? help • q quit"
}

func (m *Model) renderHelp() string {
	help := strings.Join([]string{
		labelStyle.Render("Search"),
		"  enter     search the typed username or the highlighted suggestion",
		"  ↑/↓       move through recent and popular profiles",
		"  ctrl+x    clear recent searches",
		"  esc/tab   back to the profile",
		labelStyle.Render("Profile"),
		"  1-4       stories, posts, reels, highlights",
		"  ←/→       previous/next tab",
		"  ↑/↓       select an item",
		"  enter     toggle media details and share links",
		"  /         new search",
		"  q         quit",
	}, "\n")
	return panelStyle.Render(help)
}
