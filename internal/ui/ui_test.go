package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/tasks"
	"todo/internal/theme"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T, seed ...string) (Model, *tasks.Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	store := tasks.NewStore(kv, tasks.WithLogger(slog.New(slog.DiscardHandler)))
	for _, text := range seed {
		_, ok := store.AddTask(text)
		require.True(t, ok)
	}
	return New(store, kv, config.Default()), store, kv
}

func visibleIDs(m Model) []int {
	out := make([]int, 0, len(m.visible))
	for _, t := range m.visible {
		out = append(out, t.ID)
	}
	return out
}

func TestNewLoadsPersistedState(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(tasks.DefaultKey, `[{"id":4,"text":"b","completed":false},{"id":2,"text":"a","completed":true}]`))
	require.NoError(t, kv.Set(theme.DefaultKey, "theme-dark"))

	m := New(tasks.NewStore(kv), kv, config.Default())
	assert.Equal(t, []int{4, 2}, visibleIDs(m))
	assert.Equal(t, tasks.FilterAll, m.filter)
	assert.Equal(t, theme.Dark, m.themeName)
	assert.Equal(t, theme.StylesFor("theme-dark").Title.GetForeground(), m.styles.Title.GetForeground())
}

func TestNewWithoutPersistedThemeUsesConfig(t *testing.T) {
	kv := storage.NewMemory()
	cfg := config.Default()
	cfg.Theme = theme.Dark

	m := New(tasks.NewStore(kv), kv, cfg)
	assert.Equal(t, theme.Dark, m.themeName)
	assert.Equal(t, theme.StylesFor("theme-dark").Title.GetForeground(), m.styles.Title.GetForeground())

	_, ok, _ := kv.Get(theme.DefaultKey)
	assert.False(t, ok, "nothing is persisted until the user picks a theme")
}

func TestNewSurvivesMalformedSnapshot(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(tasks.DefaultKey, "not json"))

	m := New(tasks.NewStore(kv, tasks.WithLogger(slog.New(slog.DiscardHandler))), kv, config.Default())
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "No tasks yet")
}

func TestAddTaskFromInput(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = send(m, runes("a"), runes("buy milk"), keyEnter)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "buy milk", m.visible[0].Text)
	assert.Empty(t, m.input.Value())

	m = send(m, runes("   "), keyEnter)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "   ", m.input.Value(), "blank input is left alone")

	m = send(m, keyEsc)
	assert.Equal(t, modeList, m.mode)
}

func TestAddButtonClick(t *testing.T) {
	m, store, _ := newTestModel(t)
	m.input.SetValue("  walk dog ")

	btn := m.addButtonSpan()
	m = send(m, press(btn.start, lineInput), release(btn.start, lineInput))
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "walk dog", m.visible[0].Text)
	assert.Empty(t, m.input.Value())
}

func TestEditAccept(t *testing.T) {
	m, store, _ := newTestModel(t, "draft")

	m = send(m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "draft", m.prompt.Value())

	m = send(m, runes(" v2"), keyEnter)
	assert.Equal(t, modeList, m.mode)
	got, _ := store.Task(1)
	assert.Equal(t, "draft v2", got.Text)
	assert.Equal(t, "draft v2", m.visible[0].Text)
}

func TestEditAcceptEmptyKeepsText(t *testing.T) {
	m, store, _ := newTestModel(t, "keep me")

	m = send(m, runes("e"))
	m.prompt.SetValue("")
	m = send(m, keyEnter)

	got, _ := store.Task(1)
	assert.Equal(t, "keep me", got.Text)
	assert.Equal(t, modeList, m.mode)
}

func TestEditCancel(t *testing.T) {
	m, store, _ := newTestModel(t, "original")

	m = send(m, runes("e"), runes(" changed"), keyEsc)
	got, _ := store.Task(1)
	assert.Equal(t, "original", got.Text)
	assert.Equal(t, modeList, m.mode)
}

func TestEditPromptIsModal(t *testing.T) {
	m, store, _ := newTestModel(t, "a", "b")

	m = send(m, runes("e"))
	m = send(m, press(m.layoutRow(m.visible[1]).del.start, listTop+1), release(m.layoutRow(m.visible[1]).del.start, listTop+1))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, modeEdit, m.mode)
}

func TestToggleAndDeleteKeys(t *testing.T) {
	m, store, _ := newTestModel(t, "a", "b")

	m = send(m, keySpace)
	got, _ := store.Task(1)
	assert.True(t, got.Completed)

	m = send(m, runes("j"), runes("d"))
	assert.Equal(t, []int{1}, visibleIDs(m))
	assert.Equal(t, 1, store.Len())
}

func TestFilterKeys(t *testing.T) {
	m, _, _ := newTestModel(t, "buy milk", "walk dog")
	m = send(m, keySpace)

	m = send(m, runes("2"))
	assert.Equal(t, tasks.FilterActive, m.filter)
	assert.Equal(t, []int{2}, visibleIDs(m))

	m = send(m, runes("3"))
	assert.Equal(t, []int{1}, visibleIDs(m))

	m = send(m, runes("f"))
	assert.Equal(t, tasks.FilterAll, m.filter)
	assert.Equal(t, []int{1, 2}, visibleIDs(m))
}

func TestFilterStaysAfterMutation(t *testing.T) {
	m, _, _ := newTestModel(t, "a", "b")

	m = send(m, runes("2"), keySpace)
	assert.Equal(t, tasks.FilterActive, m.filter)
	assert.Equal(t, []int{2}, visibleIDs(m))
}

func TestFilterTabClick(t *testing.T) {
	m, _, _ := newTestModel(t, "a", "b")
	m = send(m, keySpace)

	var completed span
	for _, s := range m.filterSpans() {
		if s.value == string(tasks.FilterCompleted) {
			completed = s
		}
	}
	m = send(m, press(completed.start+1, lineFilters), release(completed.start+1, lineFilters))
	assert.Equal(t, tasks.FilterCompleted, m.filter)
	assert.Equal(t, []int{1}, visibleIDs(m))
}

func TestThemeSwitchPersists(t *testing.T) {
	m, _, kv := newTestModel(t)
	require.Equal(t, theme.Light, m.themeName)

	m = send(m, runes("t"))
	assert.Equal(t, theme.Dark, m.themeName)
	assert.Equal(t, theme.StylesFor("theme-dark").Title.GetForeground(), m.styles.Title.GetForeground())
	v, ok, _ := kv.Get(theme.DefaultKey)
	require.True(t, ok)
	assert.Equal(t, "theme-dark", v)

	var light span
	for _, s := range m.themeSpans() {
		if s.value == theme.Light {
			light = s
		}
	}
	m = send(m, press(light.start, lineTheme), release(light.start, lineTheme))
	assert.Equal(t, theme.Light, m.themeName)
	v, _, _ = kv.Get(theme.DefaultKey)
	assert.Equal(t, "theme-light", v)
}

func TestKeyboardDragReorders(t *testing.T) {
	m, store, _ := newTestModel(t, "one", "two", "three")

	m = send(m, runes("j"), runes("j"), runes("m"))
	require.True(t, m.drag.isDragging(3))

	m = send(m, runes("k"))
	assert.True(t, m.drag.isOver(2))

	m = send(m, runes("k"))
	assert.False(t, m.drag.isOver(2))
	assert.True(t, m.drag.isOver(1))

	m = send(m, keyEnter)
	assert.False(t, m.drag.active)
	assert.Equal(t, []int{1, 3, 2}, visibleIDs(m))
	assert.Equal(t, []int{1, 3, 2}, ids(store.GetTasks(tasks.FilterAll)))
	assert.Equal(t, 1, m.cursor, "cursor follows the moved task")
}

func TestKeyboardDragCancel(t *testing.T) {
	m, _, _ := newTestModel(t, "one", "two", "three")

	m = send(m, runes("m"), runes("j"), runes("j"), keyEsc)
	assert.False(t, m.drag.active)
	assert.False(t, m.drag.isOver(3))
	assert.Equal(t, []int{1, 2, 3}, visibleIDs(m))
}

func TestMouseDragReorders(t *testing.T) {
	m, store, _ := newTestModel(t, "one", "two", "three")

	m = send(m, press(8, listTop+2), motion(8, listTop+1))
	require.True(t, m.drag.isDragging(3))
	assert.True(t, m.drag.isOver(2))

	m = send(m, motion(8, listTop))
	assert.False(t, m.drag.isOver(2))
	assert.True(t, m.drag.isOver(1))

	m = send(m, release(8, listTop))
	assert.False(t, m.drag.active)
	assert.False(t, m.drag.isOver(1))
	assert.Equal(t, []int{1, 3, 2}, ids(store.GetTasks(tasks.FilterAll)))

	// 1 sits before 3, so dropping it on 3 leaves it just before 3.
	m = send(m, press(8, listTop), motion(8, listTop+1), release(8, listTop+1))
	assert.Equal(t, []int{1, 3, 2}, visibleIDs(m))
}

func TestMouseDragReleasedOffListOnlyCleansUp(t *testing.T) {
	m, store, _ := newTestModel(t, "one", "two")

	m = send(m, press(8, listTop), motion(8, listTop+1), motion(8, listTop+5), release(8, listTop+5))
	assert.False(t, m.drag.active)
	assert.False(t, m.drag.isOver(2))
	assert.Equal(t, []int{1, 2}, ids(store.GetTasks(tasks.FilterAll)))
}

func TestMouseDropOnSourceIsNoop(t *testing.T) {
	m, store, kv := newTestModel(t, "one", "two")
	before, _, _ := kv.Get(tasks.DefaultKey)

	m = send(m, press(8, listTop), motion(8, listTop+1), motion(8, listTop), release(8, listTop))
	assert.False(t, m.drag.active)
	assert.Equal(t, []int{1, 2}, ids(store.GetTasks(tasks.FilterAll)))
	after, _, _ := kv.Get(tasks.DefaultKey)
	assert.Equal(t, before, after)
}

func TestRowClicks(t *testing.T) {
	m, store, _ := newTestModel(t, "one", "two")
	row := m.layoutRow(m.visible[1])
	y := listTop + 1

	m = send(m, press(row.checkbox.start, y), release(row.checkbox.start, y))
	got, _ := store.Task(2)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, m.cursor)

	m = send(m, press(row.edit.start, y), release(row.edit.start, y))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "two", m.prompt.Value())
	m = send(m, keyEsc)

	m = send(m, press(row.del.start+2, y), release(row.del.start+2, y))
	assert.Equal(t, []int{1}, visibleIDs(m))
}

func TestViewMarksRows(t *testing.T) {
	m, _, _ := newTestModel(t, "one", "two")
	m = send(m, keySpace)

	out := m.View()
	assert.Contains(t, out, "[x] one")
	assert.Contains(t, out, "[ ] two")
	assert.Contains(t, out, "edit delete")
	assert.Contains(t, out, "Completed")
}

func ids(list []tasks.Task) []int {
	out := make([]int, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestSmallMoveInsidePressedRowStillClicks(t *testing.T) {
	m, store, _ := newTestModel(t, "one", "two")
	row := m.layoutRow(m.visible[0])
	y := listTop

	m = send(m, press(row.checkbox.start, y), motion(row.checkbox.start+1, y), release(row.checkbox.start+1, y))
	assert.False(t, m.drag.active)
	got, _ := store.Task(1)
	assert.True(t, got.Completed)

	m = send(m, press(row.del.start, y), motion(row.del.start+1, y), release(row.del.start+1, y))
	assert.Equal(t, []int{2}, ids(store.GetTasks(tasks.FilterAll)))
}

func seedTexts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("task%02d", i+1)
	}
	return out
}

func TestListScrollsWithCursor(t *testing.T) {
	m, _, _ := newTestModel(t, seedTexts(30)...)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	require.Equal(t, 24-listTop-footerLines, m.list.Height)
	assert.Len(t, strings.Split(m.View(), "\n"), 24)

	for range 20 {
		m = send(m, runes("j"))
	}
	assert.Equal(t, 20, m.cursor)
	assert.Equal(t, 20-m.list.Height+1, m.list.YOffset)
	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 24)
	assert.Contains(t, lines[listTop+m.list.Height-1], "task21")

	for range 18 {
		m = send(m, runes("k"))
	}
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, 2, m.list.YOffset)
}

func TestClicksHitTheRowShownOnScreen(t *testing.T) {
	m, store, _ := newTestModel(t, seedTexts(30)...)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	for range 20 {
		m = send(m, runes("j"))
	}

	y := listTop + 4
	shown := strings.Split(m.View(), "\n")[y]
	require.Contains(t, shown, "task11")

	row := m.layoutRow(m.visible[10])
	m = send(m, press(row.del.start, y), release(row.del.start, y))
	_, ok := store.Task(11)
	assert.False(t, ok, "the task shown on the clicked line is deleted")
	_, ok = store.Task(1)
	assert.True(t, ok)
	assert.Equal(t, 29, store.Len())

	// Lines under the list window are not rows.
	below := listTop + m.list.Height
	m = send(m, press(row.del.start, below), release(row.del.start, below))
	assert.Equal(t, 29, store.Len())
}

func TestLongTextKeepsRowButtonsOnScreen(t *testing.T) {
	long := strings.Repeat("x", 200)
	m, store, _ := newTestModel(t, "one", long)
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 24})

	row := m.layoutRow(m.visible[1])
	assert.LessOrEqual(t, row.del.end, 60)
	line := strings.Split(m.View(), "\n")[listTop+1]
	assert.LessOrEqual(t, lipgloss.Width(line), 60)
	assert.Contains(t, line, "…  edit delete")

	m = send(m, press(row.del.start, listTop+1), release(row.del.start, listTop+1))
	assert.Equal(t, []int{1}, ids(store.GetTasks(tasks.FilterAll)))
}

func TestEditKeepsTextLongerThanInputLimit(t *testing.T) {
	long := strings.Repeat("y", 300)
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(tasks.DefaultKey, fmt.Sprintf(`[{"id":1,"text":%q,"completed":false}]`, long)))
	store := tasks.NewStore(kv)
	m := New(store, kv, config.Default())

	m = send(m, runes("e"), runes("z"), keyEnter)
	got, _ := store.Task(1)
	assert.Equal(t, long+"z", got.Text)
}
