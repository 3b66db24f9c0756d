package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/akowalsk/scopeview/pkg/capture"
	"github.com/akowalsk/scopeview/pkg/errors"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// captureEntry is one row of the picker: a capture file that parsed,
// or one that did not (Err set, not selectable).
type captureEntry struct {
	Path      string
	Name      string
	Channels  int
	Timestamp int64
	Err       error
}

// scanCaptures finds capture files in dir, newest acquisition first.
func scanCaptures(dir string) ([]captureEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	entries := make([]captureEntry, 0, len(paths))
	for _, p := range paths {
		e := captureEntry{Path: p, Name: filepath.Base(p)}
		if c, err := capture.Load(p); err != nil {
			e.Err = err
		} else {
			e.Name = c.Name
			e.Channels = len(c.Channels)
			e.Timestamp = c.Timestamp
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp > entries[j].Timestamp })
	return entries, nil
}

// pickCapture runs the interactive picker over dir. The empty string
// return means the user quit without selecting.
func pickCapture(dir string) (string, error) {
	entries, err := scanCaptures(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New(errors.ErrCodeCaptureNotFound, "no capture files in %s", dir)
	}

	model := newCaptureListModel(entries)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "capture picker")
	}
	m := final.(captureListModel)
	if m.Selected == nil {
		return "", nil
	}
	return m.Selected.Path, nil
}

// =============================================================================
// captureListModel - Interactive capture selection
// =============================================================================

// captureListModel is the bubbletea model for interactive capture selection.
type captureListModel struct {
	Entries  []captureEntry
	Cursor   int
	Selected *captureEntry
	Height   int
	Offset   int
}

func newCaptureListModel(entries []captureEntry) captureListModel {
	return captureListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m captureListModel) Init() tea.Cmd {
	return nil
}

func (m captureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			e := m.Entries[m.Cursor]
			if e.Err != nil {
				return m, nil
			}
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m captureListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Capture"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		channels := "—"
		acquired := "—"
		if e.Err == nil {
			channels = fmt.Sprintf("%d", e.Channels)
			acquired = formatRelativeTime(e.Timestamp)
		}

		rows = append(rows, []string{cursor, e.Name, filepath.Base(e.Path), channels, acquired})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Capture", "File", "Ch", "Acquired").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			e := m.Entries[actualIdx]
			isCurrent := actualIdx == m.Cursor

			if e.Err != nil {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if isCurrent {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(ts int64) string {
	if ts == 0 {
		return "—"
	}
	t := time.Unix(ts, 0)
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
