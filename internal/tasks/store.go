// Package tasks owns the ordered task list and its persisted snapshot.
package tasks

import (
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"todo/internal/storage"
)

// DefaultKey is the storage key holding the JSON task snapshot.
const DefaultKey = "colorfulTodoTasks"

type Task struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Store is the single writer of the task list. It is not safe for
// concurrent use; the UI drives it from one goroutine.
type Store struct {
	kv     storage.KV
	key    string
	log    *slog.Logger
	tasks  []Task
	nextID int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		log:    slog.Default(),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted snapshot. A missing
// snapshot leaves the list untouched. Unreadable or malformed data is
// logged and the list is reset to empty.
func (s *Store) Load() {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Error("failed to read tasks from storage", "key", s.key, "error", err)
		s.reset()
		return
	}
	if !ok {
		return
	}

	var loaded []Task
	if err := json.Unmarshal([]byte(data), &loaded); err != nil {
		s.log.Error("failed to parse tasks from storage", "key", s.key, "error", err)
		s.reset()
		return
	}
	s.tasks = loaded

	maxID := 0
	for _, t := range s.tasks {
		maxID = max(maxID, t.ID)
	}
	s.nextID = maxID + 1
}

func (s *Store) reset() {
	s.tasks = nil
	s.nextID = 1
}

// Save overwrites the snapshot with the full current list.
func (s *Store) Save() error {
	list := s.tasks
	if list == nil {
		list = []Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.kv.Set(s.key, string(data))
}

func (s *Store) persist() {
	if err := s.Save(); err != nil {
		s.log.Error("failed to save tasks", "key", s.key, "error", err)
	}
}

// AddTask appends a new task. Blank text is rejected with ok == false.
func (s *Store) AddTask(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	t := Task{ID: s.nextID, Text: text}
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.persist()
	return t, true
}

func (s *Store) EditTask(id int, newText string) {
	newText = strings.TrimSpace(newText)
	i := s.indexOf(id)
	if i < 0 || newText == "" {
		return
	}
	s.tasks[i].Text = newText
	s.persist()
}

func (s *Store) DeleteTask(id int) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persist()
}

func (s *Store) ToggleComplete(id int) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist()
}

// ReorderTasks moves the source task next to the target task.
//
// The placement is asymmetric: a source that sits after the target lands
// directly after it, while a source that sits before the target lands
// directly before it. An unknown target sends the source to the end.
func (s *Store) ReorderTasks(sourceID, targetID int) {
	if sourceID == targetID {
		return
	}
	src := s.indexOf(sourceID)
	if src < 0 {
		return
	}
	tgt := s.indexOf(targetID)

	moved := s.tasks[src]
	s.tasks = slices.Delete(s.tasks, src, src+1)
	switch {
	case tgt < 0:
		s.tasks = append(s.tasks, moved)
	case src < tgt:
		// removal shifted the target left by one
		s.tasks = slices.Insert(s.tasks, tgt-1, moved)
	default:
		s.tasks = slices.Insert(s.tasks, tgt+1, moved)
	}
	s.persist()
}

// GetTasks returns a copy of the list restricted to filter.
func (s *Store) GetTasks(filter Filter) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Task looks up a single task by id.
func (s *Store) Task(id int) (Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
