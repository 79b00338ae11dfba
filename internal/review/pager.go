package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/wordwrap"
)

var (
	pagerTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	pagerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	pagerHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Show displays content in an interactive pager.
func Show(title, content string) error {
	prog := tea.NewProgram(
		&pagerModel{
			title:   title,
			content: content,
		},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := prog.Run()
	return err
}

// ShowLive displays content with live reload: the store directory is
// watched and renderFunc re-runs whenever any artifact file changes.
func ShowLive(title, storeDir string, renderFunc func() (string, error)) error {
	content, err := renderFunc()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not individual files: the answer slot is
	// replaced by rename and logs may not exist yet.
	if err := watcher.Add(storeDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch store directory: %w", err)
	}

	prog := tea.NewProgram(
		&pagerModel{
			title:      title,
			content:    content,
			live:       true,
			renderFunc: renderFunc,
			watcher:    watcher,
		},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = prog.Run()
	watcher.Close()
	return err
}

// storeChangedMsg is sent when any file in the store directory changes.
type storeChangedMsg struct{}

// pagerModel is the Bubble Tea model for the pager.
type pagerModel struct {
	viewport       viewport.Model
	title          string
	content        string
	wrappedContent string
	ready          bool
	live           bool
	renderFunc     func() (string, error)
	watcher        *fsnotify.Watcher
	follow         bool

	// Search state
	searching    bool
	searchInput  textinput.Model
	searchQuery  string
	searchLines  []int
	searchIndex  int
	searchFailed bool
}

func (m *pagerModel) Init() tea.Cmd {
	if m.live && m.watcher != nil {
		return m.watchStore()
	}
	return nil
}

// watchStore returns a command that waits for store changes.
func (m *pagerModel) watchStore() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					// Debounce: a round writes several files in a burst.
					time.Sleep(100 * time.Millisecond)
					return storeChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	if m.searching {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter":
				m.searchQuery = m.searchInput.Value()
				m.searching = false
				m.executeSearch()
				if len(m.searchLines) > 0 {
					m.jumpToMatch(0)
				}
				return m, nil
			case "esc", "ctrl+c":
				m.searching = false
				m.searchQuery = ""
				m.searchLines = nil
				m.searchFailed = false
				return m, nil
			}
		}
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case storeChangedMsg:
		if m.renderFunc != nil {
			if newContent, err := m.renderFunc(); err == nil {
				oldOffset := m.viewport.YOffset
				m.content = newContent
				m.wrappedContent = wrapContent(m.content, m.viewport.Width)
				m.viewport.SetContent(m.wrappedContent)

				if m.follow {
					m.viewport.GotoBottom()
				} else if oldOffset <= m.viewport.TotalLineCount() {
					m.viewport.YOffset = oldOffset
				}

				if m.searchQuery != "" {
					m.executeSearch()
				}
			}
		}
		cmds = append(cmds, m.watchStore())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.searchLines = nil
				m.searchFailed = false
			} else {
				return m, tea.Quit
			}
		case "g":
			m.follow = false
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "f", "F":
			// Follow mode pins the view to new content in live mode.
			if m.live {
				m.follow = !m.follow
				if m.follow {
					m.viewport.GotoBottom()
				}
			}
		case "/":
			m.searching = true
			m.searchInput = textinput.New()
			m.searchInput.Placeholder = "Search..."
			m.searchInput.Focus()
			m.searchInput.CharLimit = 100
			m.searchInput.Width = 40
			if m.searchQuery != "" {
				m.searchInput.SetValue(m.searchQuery)
			}
			return m, textinput.Blink
		case "n":
			if len(m.searchLines) > 0 {
				m.searchIndex = (m.searchIndex + 1) % len(m.searchLines)
				m.jumpToMatch(m.searchIndex)
			}
		case "N":
			if len(m.searchLines) > 0 {
				m.searchIndex--
				if m.searchIndex < 0 {
					m.searchIndex = len(m.searchLines) - 1
				}
				m.jumpToMatch(m.searchIndex)
			}
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 1

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.wrappedContent = wrapContent(m.content, msg.Width)
			m.viewport.SetContent(m.wrappedContent)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
			m.wrappedContent = wrapContent(m.content, msg.Width)
			m.viewport.SetContent(m.wrappedContent)
			if m.searchQuery != "" {
				m.executeSearch()
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// executeSearch finds all lines matching the query in wrapped content.
func (m *pagerModel) executeSearch() {
	m.searchLines = nil
	m.searchIndex = 0
	m.searchFailed = false

	if m.searchQuery == "" {
		return
	}

	query := strings.ToLower(m.searchQuery)
	for i, line := range strings.Split(m.wrappedContent, "\n") {
		if strings.Contains(strings.ToLower(line), query) {
			m.searchLines = append(m.searchLines, i)
		}
	}

	if len(m.searchLines) == 0 {
		m.searchFailed = true
	}
}

// jumpToMatch scrolls to the given match index, centered when possible.
func (m *pagerModel) jumpToMatch(index int) {
	if index < 0 || index >= len(m.searchLines) {
		return
	}

	targetOffset := m.searchLines[index] - m.viewport.Height/2
	if targetOffset < 0 {
		targetOffset = 0
	}
	maxOffset := m.viewport.TotalLineCount() - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if targetOffset > maxOffset {
		targetOffset = maxOffset
	}
	m.viewport.YOffset = targetOffset
}

func (m *pagerModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	title := pagerTitleStyle.Render(m.title)
	line := strings.Repeat("─", maxInt(0, m.viewport.Width-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, pagerInfoStyle.Render(line))

	percent := 100
	if m.viewport.TotalLineCount() > m.viewport.Height {
		percent = int(float64(m.viewport.YOffset) / float64(maxInt(1, m.viewport.TotalLineCount()-m.viewport.Height)) * 100)
		if percent > 100 {
			percent = 100
		}
	}
	info := fmt.Sprintf(" %d%% ", percent)

	var footer string
	if m.searching {
		searchPrompt := lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Render("/")
		footer = searchPrompt + m.searchInput.View()
	} else {
		var help string
		switch {
		case m.searchFailed:
			notFound := lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Render("Pattern not found")
			help = fmt.Sprintf(" %s │ /: search ", notFound)
		case len(m.searchLines) > 0:
			matchInfo := lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Render(fmt.Sprintf("[%d/%d]", m.searchIndex+1, len(m.searchLines)))
			help = fmt.Sprintf(" %s │ n/N: next/prev │ /: search │ esc: clear ", matchInfo)
		case m.live && m.follow:
			liveIndicator := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10")).
				Render("● FOLLOW")
			help = fmt.Sprintf(" %s │ q: quit │ f: unfollow │ /: search ", liveIndicator)
		case m.live:
			liveIndicator := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10")).
				Render("● LIVE")
			help = fmt.Sprintf(" %s │ q: quit │ /: search │ f: follow │ g/G: top/bottom ", liveIndicator)
		default:
			help = " q: quit │ /: search │ n/N: next/prev │ g/G: top/bottom "
		}

		footer = pagerHelpStyle.Render(help) +
			pagerInfoStyle.Render(strings.Repeat("─", maxInt(0, m.viewport.Width-lipgloss.Width(help)-lipgloss.Width(info)))) +
			pagerInfoStyle.Render(info)
	}

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// wrapContent wraps each line to fit within the given width, keeping the
// tool-call table's column indent on continuation lines.
func wrapContent(content string, width int) string {
	if width <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		if lipgloss.Width(line) <= width {
			result = append(result, line)
			continue
		}

		if strings.Contains(line, "│") {
			lastPipe := strings.LastIndex(line, "│")
			if lastPipe > 0 && lastPipe+len("│") < len(line) {
				prefix := line[:lastPipe+len("│")]
				prefixWidth := lipgloss.Width(prefix) + 1

				contentWidth := width - prefixWidth
				if contentWidth < 20 {
					contentWidth = 20
				}

				contentStart := lastPipe + len("│")
				for contentStart < len(line) && line[contentStart] == ' ' {
					contentStart++
				}

				wrapped := wordwrap.String(line[contentStart:], contentWidth)
				wrappedLines := strings.Split(wrapped, "\n")
				contIndent := strings.Repeat(" ", prefixWidth)

				result = append(result, line[:contentStart]+wrappedLines[0])
				for i := 1; i < len(wrappedLines); i++ {
					result = append(result, contIndent+wrappedLines[i])
				}
				continue
			}
		}

		wrapped := wordwrap.String(line, width)
		result = append(result, strings.Split(wrapped, "\n")...)
	}

	return strings.Join(result, "\n")
}
