// Package theme holds the selectable colour schemes and persists the
// chosen one as a "theme-<name>" identifier.
package theme

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/storage"
)

// DefaultKey is the storage key for the theme identifier.
const DefaultKey = "colorfulTodoTheme"

const (
	Light = "light"
	Dark  = "dark"
)

var identifierPattern = regexp.MustCompile(`^theme-(.*)$`)

// Names lists the options offered by the theme selector, in display order.
func Names() []string {
	return []string{Light, Dark}
}

// Identifier turns a selector value into its stored form.
func Identifier(name string) string {
	return "theme-" + name
}

// NameFrom extracts the selector value from a stored identifier.
func NameFrom(identifier string) (string, bool) {
	m := identifierPattern.FindStringSubmatch(identifier)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Next returns the option after name, wrapping around.
func Next(name string) string {
	names := Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Load returns the persisted identifier, if any.
func Load(kv storage.KV, key string) (string, bool, error) {
	return kv.Get(key)
}

func Save(kv storage.KV, key, identifier string) error {
	return kv.Set(key, identifier)
}

type Styles struct {
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Text      lipgloss.Style
	Cursor    lipgloss.Style
	Completed lipgloss.Style
	Dragging  lipgloss.Style
	DragOver  lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Button    lipgloss.Style
	Input     lipgloss.Style
	Status    lipgloss.Style
}

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	accent    lipgloss.Color
}

var palettes = map[string]palette{
	Light: {
		primary:   lipgloss.Color("161"), // Magenta
		secondary: lipgloss.Color("245"), // Gray
		text:      lipgloss.Color("235"), // Near black
		success:   lipgloss.Color("28"),  // Green
		warning:   lipgloss.Color("166"), // Orange
		accent:    lipgloss.Color("25"),  // Blue
	},
	Dark: {
		primary:   lipgloss.Color("205"), // Pink
		secondary: lipgloss.Color("241"), // Gray
		text:      lipgloss.Color("252"), // White/Gray
		success:   lipgloss.Color("42"),  // Green
		warning:   lipgloss.Color("214"), // Orange/Yellow
		accent:    lipgloss.Color("87"),  // Cyan
	},
}

// StylesFor builds the style set for identifier. Identifiers that do not
// name a known theme get the light styles.
func StylesFor(identifier string) Styles {
	name, _ := NameFrom(identifier)
	p, ok := palettes[name]
	if !ok {
		p = palettes[Light]
	}
	return Styles{
		Title:     lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		Subtle:    lipgloss.NewStyle().Foreground(p.secondary),
		Text:      lipgloss.NewStyle().Foreground(p.text),
		Cursor:    lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		Completed: lipgloss.NewStyle().Foreground(p.secondary).Strikethrough(true),
		Dragging:  lipgloss.NewStyle().Foreground(p.warning).Faint(true),
		DragOver:  lipgloss.NewStyle().Foreground(p.accent).Underline(true),
		Tab:       lipgloss.NewStyle().Foreground(p.secondary).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Foreground(p.primary).Bold(true).Underline(true).Padding(0, 1),
		Button:    lipgloss.NewStyle().Foreground(p.accent),
		Input:     lipgloss.NewStyle().Foreground(p.text),
		Status:    lipgloss.NewStyle().Foreground(p.success),
	}
}
