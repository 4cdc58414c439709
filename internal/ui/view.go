package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"todo/internal/tasks"
	"todo/internal/theme"
)

// Screen lines; mouse hit testing depends on these staying fixed.
const (
	lineTitle = iota
	lineFilters
	lineTheme
	lineInput
	lineGap
	listTop
)

// footerLines is the gap, prompt, status and help lines under the list.
const footerLines = 4

// rowChrome is the width of a row without its text: "> [ ] " and
// "  edit delete".
const rowChrome = 19

const (
	checkboxOff = "[ ]"
	checkboxOn  = "[x]"
	editLabel   = "edit"
	deleteLabel = "delete"
	addLabel    = "[ Add ]"
	themePrefix = "Theme: "
)

var titleCaser = cases.Title(language.English)

func label(s string) string {
	return titleCaser.String(s)
}

// span is a half-open column range carrying the value it selects.
type span struct {
	start, end int
	value      string
}

func (s span) contains(x int) bool {
	return x >= s.start && x < s.end
}

func hit(spans []span, x int) (string, bool) {
	for _, s := range spans {
		if s.contains(x) {
			return s.value, true
		}
	}
	return "", false
}

// layoutSpans renders each value with its style and records the columns
// it occupies, starting at column offset.
func layoutSpans(offset int, values []string, render func(string) string) (string, []span) {
	var b strings.Builder
	spans := make([]span, 0, len(values))
	x := offset
	for _, v := range values {
		cell := render(v)
		w := lipgloss.Width(cell)
		spans = append(spans, span{start: x, end: x + w, value: v})
		b.WriteString(cell)
		x += w
	}
	return b.String(), spans
}

func (m Model) filterBar() (string, []span) {
	values := make([]string, 0, 3)
	for _, f := range tasks.Filters() {
		values = append(values, string(f))
	}
	return layoutSpans(0, values, func(v string) string {
		if tasks.Filter(v) == m.filter {
			return m.styles.TabActive.Render(label(v))
		}
		return m.styles.Tab.Render(label(v))
	})
}

func (m Model) filterSpans() []span {
	_, spans := m.filterBar()
	return spans
}

func (m Model) themeBar() (string, []span) {
	bar, spans := layoutSpans(len(themePrefix), theme.Names(), func(v string) string {
		if v == m.themeName {
			return m.styles.TabActive.Render(label(v))
		}
		return m.styles.Tab.Render(label(v))
	})
	return m.styles.Subtle.Render(themePrefix) + bar, spans
}

func (m Model) themeSpans() []span {
	_, spans := m.themeBar()
	return spans
}

func (m Model) inputLine() string {
	return m.input.View() + "  " + m.styles.Button.Render(addLabel)
}

func (m Model) addButtonSpan() span {
	start := lipgloss.Width(m.input.View()) + 2
	return span{start: start, end: start + len(addLabel), value: "add"}
}

// rowLayout holds the clickable columns of one task row:
// "> [ ] text  edit delete".
type rowLayout struct {
	checkbox span
	text     span
	edit     span
	del      span
}

// rowText shortens the task text so the row buttons fit the window.
func (m Model) rowText(t tasks.Task) string {
	if m.width <= 0 {
		return t.Text
	}
	return ansi.Truncate(t.Text, max(m.width-rowChrome, 1), "…")
}

func (m Model) layoutRow(t tasks.Task) rowLayout {
	var l rowLayout
	x := 2
	l.checkbox = span{start: x, end: x + len(checkboxOff)}
	x = l.checkbox.end + 1
	l.text = span{start: x, end: x + lipgloss.Width(m.rowText(t))}
	x = l.text.end + 2
	l.edit = span{start: x, end: x + len(editLabel)}
	x = l.edit.end + 1
	l.del = span{start: x, end: x + len(deleteLabel)}
	return l
}

func (m Model) renderRow(i int, t tasks.Task) string {
	cursor := " "
	if m.cursor == i && m.mode == modeList {
		cursor = m.styles.Cursor.Render(">")
	}
	checkbox := checkboxOff
	if t.Completed {
		checkbox = checkboxOn
	}

	text := m.styles.Text
	switch {
	case m.drag.isDragging(t.ID):
		text = m.styles.Dragging
	case m.drag.isOver(t.ID):
		text = m.styles.DragOver
	case t.Completed:
		text = m.styles.Completed
	}

	var b strings.Builder
	b.WriteString(cursor)
	b.WriteString(" ")
	b.WriteString(checkbox)
	b.WriteString(" ")
	b.WriteString(text.Render(m.rowText(t)))
	b.WriteString("  ")
	b.WriteString(m.styles.Button.Render(editLabel))
	b.WriteString(" ")
	b.WriteString(m.styles.Button.Render(deleteLabel))
	return b.String()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Todo"))
	b.WriteString("\n")
	filters, _ := m.filterBar()
	b.WriteString(filters)
	b.WriteString("\n")
	themes, _ := m.themeBar()
	b.WriteString(themes)
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	b.WriteString("\n\n")

	b.WriteString(m.listView())
	b.WriteString("\n\n")
	if m.mode == modeEdit {
		b.WriteString(m.prompt.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.status))
	b.WriteString("\n")
	if m.drag.active {
		b.WriteString(m.help.View(dragKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// listView renders the rows, windowed through the list viewport once the
// terminal size is known.
func (m Model) listView() string {
	rows := make([]string, 0, len(m.visible))
	if len(m.visible) == 0 {
		rows = append(rows, m.styles.Subtle.Render(m.emptyMessage()))
	}
	for i, t := range m.visible {
		rows = append(rows, m.renderRow(i, t))
	}
	if m.list.Height <= 0 {
		return strings.Join(rows, "\n")
	}
	list := m.list
	list.SetContent(strings.Join(rows, "\n"))
	list.SetYOffset(m.list.YOffset)
	return list.View()
}

func (m Model) emptyMessage() string {
	switch m.filter {
	case tasks.FilterActive:
		return "Nothing left to do."
	case tasks.FilterCompleted:
		return "No completed tasks."
	default:
		return "No tasks yet. Press '" + m.keys.Add.Help().Key + "' to add one."
	}
}
