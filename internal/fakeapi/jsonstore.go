package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/idilsaglam/tada/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// An empty path keeps everything in memory.

var ErrNotFound = errors.New("todo not found")

type DB struct {
	path string

	mu     sync.Mutex
	todos  []model.Todo
	nextID int
}

type fileData struct {
	NextID int          `json:"nextId"`
	Todos  []model.Todo `json:"todos"`
}

// Open loads path if it exists.
func Open(path string) (*DB, error) {
	d := &DB{path: path, todos: []model.Todo{}, nextID: 1}
	if path == "" {
		return d, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var fd fileData
	if err := json.Unmarshal(b, &fd); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if fd.Todos != nil {
		d.todos = fd.Todos
	}
	d.nextID = fd.NextID
	for _, t := range d.todos {
		if t.ID >= d.nextID {
			d.nextID = t.ID + 1
		}
	}
	if d.nextID < 1 {
		d.nextID = 1
	}
	return d, nil
}

// saveLocked writes the whole file. Caller holds mu.
func (d *DB) saveLocked() error {
	if d.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(fileData{NextID: d.nextID, Todos: d.todos}, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(d.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// List returns the todos of one user in insertion order.
func (d *DB) List(userID int) []model.Todo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []model.Todo{}
	for _, t := range d.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// Create appends a todo and persists the table. Nothing changes when the
// write fails.
func (d *DB) Create(userID int, title string, completed bool) (model.Todo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := model.Todo{ID: d.nextID, UserID: userID, Title: strings.TrimSpace(title), Completed: completed}
	err := d.commitLocked(append(model.Clone(d.todos), t), d.nextID+1)
	if err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

func (d *DB) Update(id int, p model.Patch) (model.Todo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	old, ok := model.Find(d.todos, id)
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	t := p.Apply(old)
	next := model.Clone(d.todos)
	for i := range next {
		if next[i].ID == id {
			next[i] = t
		}
	}
	if err := d.commitLocked(next, d.nextID); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

func (d *DB) Delete(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := model.Find(d.todos, id); !ok {
		return ErrNotFound
	}
	return d.commitLocked(model.Remove(d.todos, id), d.nextID)
}

// commitLocked swaps in the new table, restoring the old one if it cannot be
// written. Caller holds mu.
func (d *DB) commitLocked(todos []model.Todo, nextID int) error {
	prevTodos, prevNext := d.todos, d.nextID
	d.todos, d.nextID = todos, nextID
	if err := d.saveLocked(); err != nil {
		d.todos, d.nextID = prevTodos, prevNext
		return err
	}
	return nil
}
