package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/tasks"
	"todo/internal/theme"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// pressState remembers where the left button went down so a release can
// be told apart from a drag.
type pressState struct {
	x, y  int
	id    int
	onRow bool
}

type Model struct {
	store     *tasks.Store
	kv        storage.KV
	themeKey  string
	log       *slog.Logger
	keys      keyMap
	help      help.Model
	styles    theme.Styles
	themeName string
	filter    tasks.Filter
	visible   []tasks.Task
	cursor    int
	width     int
	list      viewport.Model
	mode      mode
	input     textinput.Model
	prompt    textinput.Model
	editID    int
	drag      dragState
	press     *pressState
	status    string
}

// New loads the task list, restores the persisted theme and renders the
// "all" view.
func New(store *tasks.Store, kv storage.KV, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = 40

	pr := textinput.New()
	pr.Prompt = "Edit task: "
	pr.Width = 40

	m := Model{
		store:    store,
		kv:       kv,
		themeKey: theme.DefaultKey,
		log:      slog.Default(),
		keys:     newKeyMap(cfg.Keys),
		help:     help.New(),
		input:    ti,
		prompt:   pr,
		list:     viewport.New(0, 0),
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to move a task.", cfg.Keys.Add, displayKey(cfg.Keys.Toggle), cfg.Keys.Grab),
	}

	store.Load()
	m.restoreTheme(cfg.Theme)
	m.render(tasks.FilterAll)
	return m
}

// Run starts the interactive program with mouse motion reporting so rows
// can be dragged.
func Run(store *tasks.Store, kv storage.KV, cfg config.Config) error {
	program := tea.NewProgram(New(store, kv, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func (m *Model) restoreTheme(fallback string) {
	saved, ok, err := theme.Load(m.kv, m.themeKey)
	if err != nil {
		m.log.Warn("failed to read theme", "key", m.themeKey, "error", err)
	}
	if err != nil || !ok {
		if fallback == "" {
			fallback = theme.Light
		}
		m.themeName = fallback
		m.applyTheme(theme.Identifier(fallback))
		return
	}
	m.applyTheme(saved)
	if name, ok := theme.NameFrom(saved); ok {
		m.themeName = name
	} else {
		m.themeName = theme.Light
	}
}

func (m *Model) applyTheme(identifier string) {
	m.styles = theme.StylesFor(identifier)
	m.applyInputStyles()
}

func (m *Model) applyInputStyles() {
	m.input.TextStyle = m.styles.Input
	m.input.PromptStyle = m.styles.Cursor
	m.input.PlaceholderStyle = m.styles.Subtle
	m.prompt.TextStyle = m.styles.Input
	m.prompt.PromptStyle = m.styles.Title
}

// render refreshes the visible rows from the store using filter, which
// becomes the current filter.
func (m *Model) render(filter tasks.Filter) {
	m.filter = filter
	m.visible = m.store.GetTasks(filter)
	m.cursor = clampCursor(m.cursor, len(m.visible))
	m.scrollToCursor()
}

// scrollToCursor moves the list window so the cursor row stays on screen.
// A zero height means no size is known yet and every row is shown.
func (m *Model) scrollToCursor() {
	h := m.list.Height
	if h <= 0 {
		m.list.YOffset = 0
		return
	}
	if m.cursor < m.list.YOffset {
		m.list.YOffset = m.cursor
	} else if m.cursor >= m.list.YOffset+h {
		m.list.YOffset = m.cursor - h + 1
	}
	m.list.YOffset = max(min(m.list.YOffset, len(m.visible)-h), 0)
}

func (m *Model) moveCursor(delta int) {
	m.cursor = clampCursor(m.cursor+delta, len(m.visible))
	m.scrollToCursor()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEditMode(msg)
		case modeAdd:
			return m.updateAddMode(msg)
		}
		if m.drag.active {
			return m.updateDragMode(msg)
		}
		return m.updateListMode(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		m.prompt.Width = max(msg.Width-20, 10)
		m.help.Width = msg.Width
		m.list.Width = msg.Width
		m.list.Height = max(msg.Height-listTop-footerLines, 1)
		m.scrollToCursor()
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.handleAdd()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		m.status = "Edit cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.store.EditTask(m.editID, m.prompt.Value())
		m.closePrompt()
		m.render(m.filter)
		m.status = "Edited task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.dragCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.dragCursor(1)
	case key.Matches(msg, m.keys.Confirm):
		if id, ok := m.cursorID(); ok {
			m.dropOn(id)
		}
		m.drag.end()
	case key.Matches(msg, m.keys.Cancel):
		m.drag.end()
		m.status = "Move cancelled"
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Add):
		cmd := m.focusInput()
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.cursorID(); ok {
			m.handleToggle(id)
		}
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.cursorID(); ok {
			m.handleDelete(id)
		}
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.cursorID(); ok {
			cmd := m.handleEdit(id)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Grab):
		if id, ok := m.cursorID(); ok {
			m.drag.start(id)
			m.status = "Moving task: use up/down, then confirm to drop"
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.switchFilter(m.filter.Next())
	case key.Matches(msg, m.keys.ShowAll):
		m.switchFilter(tasks.FilterAll)
	case key.Matches(msg, m.keys.ShowActive):
		m.switchFilter(tasks.FilterActive)
	case key.Matches(msg, m.keys.ShowDone):
		m.switchFilter(tasks.FilterCompleted)
	case key.Matches(msg, m.keys.NextTheme):
		m.switchTheme(theme.Next(m.themeName))
	}
	return m, nil
}

func (m *Model) focusInput() tea.Cmd {
	m.mode = modeAdd
	m.status = "Type a task and press Enter"
	return m.input.Focus()
}

// handleAdd submits the input. The input is cleared whenever it held
// non-blank text.
func (m *Model) handleAdd() {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return
	}
	if _, ok := m.store.AddTask(text); ok {
		m.status = "Added task"
	}
	m.input.SetValue("")
	m.render(m.filter)
}

// handleEdit opens the modal prompt prefilled with the task's current text.
func (m *Model) handleEdit(id int) tea.Cmd {
	current, _ := m.store.Task(id)
	m.editID = id
	m.mode = modeEdit
	m.input.Blur()
	m.prompt.SetValue(current.Text)
	m.prompt.CursorEnd()
	m.status = "Enter to save, Esc to cancel"
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeList
	m.editID = 0
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func (m *Model) handleDelete(id int) {
	m.store.DeleteTask(id)
	m.render(m.filter)
	m.status = "Deleted task"
}

func (m *Model) handleToggle(id int) {
	m.store.ToggleComplete(id)
	m.render(m.filter)
	m.status = "Toggled task"
}

func (m *Model) switchFilter(f tasks.Filter) {
	m.render(f)
	m.status = "Showing " + label(string(f)) + " tasks"
}

// switchTheme applies the selector value name and persists its identifier.
func (m *Model) switchTheme(name string) {
	identifier := theme.Identifier(name)
	m.themeName = name
	m.applyTheme(identifier)
	if err := theme.Save(m.kv, m.themeKey, identifier); err != nil {
		m.log.Error("failed to save theme", "key", m.themeKey, "theme", identifier, "error", err)
		m.status = fmt.Sprintf("theme not saved: %v", err)
		return
	}
	m.status = label(name) + " theme"
}

// dropOn finishes a drag over the row holding target.
func (m *Model) dropOn(target int) {
	src, ok := m.drag.drop(target)
	if !ok {
		return
	}
	m.store.ReorderTasks(src, target)
	m.render(m.filter)
	for i, t := range m.visible {
		if t.ID == src {
			m.cursor = i
			break
		}
	}
	m.scrollToCursor()
	m.status = "Moved task"
}

func (m *Model) dragCursor(delta int) {
	next := clampCursor(m.cursor+delta, len(m.visible))
	if next == m.cursor {
		return
	}
	m.cursor = next
	m.scrollToCursor()
	id, ok := m.cursorID()
	m.drag.moveTo(id, ok)
}

func (m Model) cursorID() (int, bool) {
	if len(m.visible) == 0 {
		return 0, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))].ID, true
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeEdit {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if !m.drag.active {
				m.moveCursor(-1)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if !m.drag.active {
				m.moveCursor(1)
			}
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}
		id, onRow := m.rowAt(msg.Y)
		m.press = &pressState{x: msg.X, y: msg.Y, id: id, onRow: onRow}
	case tea.MouseActionMotion:
		if m.press == nil || !m.press.onRow {
			return m, nil
		}
		// Jitter inside the pressed row is still a click.
		if !m.drag.active {
			if msg.Y == m.press.y {
				return m, nil
			}
			m.drag.start(m.press.id)
		}
		id, onRow := m.rowAt(msg.Y)
		m.drag.moveTo(id, onRow)
	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if m.drag.active {
			if id, onRow := m.rowAt(msg.Y); onRow {
				m.dropOn(id)
			}
			m.drag.end()
			return m, nil
		}
		if press != nil && press.y == msg.Y {
			cmd := m.click(msg.X, msg.Y)
			return m, cmd
		}
	}
	return m, nil
}

// click dispatches a press and release on the same line.
func (m *Model) click(x, y int) tea.Cmd {
	switch y {
	case lineFilters:
		if v, ok := hit(m.filterSpans(), x); ok {
			m.switchFilter(tasks.ParseFilter(v))
		}
	case lineTheme:
		if v, ok := hit(m.themeSpans(), x); ok && v != m.themeName {
			m.switchTheme(v)
		}
	case lineInput:
		if m.addButtonSpan().contains(x) {
			m.handleAdd()
			return nil
		}
		return m.focusInput()
	default:
		idx, ok := m.rowIndex(y)
		if !ok {
			return nil
		}
		t := m.visible[idx]
		m.cursor = idx
		if m.mode == modeAdd {
			m.mode = modeList
			m.input.Blur()
		}
		layout := m.layoutRow(t)
		switch {
		case layout.checkbox.contains(x):
			m.handleToggle(t.ID)
		case layout.edit.contains(x):
			return m.handleEdit(t.ID)
		case layout.del.contains(x):
			m.handleDelete(t.ID)
		}
	}
	return nil
}

// rowIndex maps a screen line to an index into visible through the list's
// scroll offset.
func (m Model) rowIndex(y int) (int, bool) {
	line := y - listTop
	if line < 0 || (m.list.Height > 0 && line >= m.list.Height) {
		return 0, false
	}
	idx := line + m.list.YOffset
	if idx >= len(m.visible) {
		return 0, false
	}
	return idx, true
}

func (m Model) rowAt(y int) (int, bool) {
	idx, ok := m.rowIndex(y)
	if !ok {
		return 0, false
	}
	return m.visible[idx].ID, true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
