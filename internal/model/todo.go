package model

import (
	"fmt"
	"strings"
)

// TempID marks the unsaved placeholder shown while a create is in flight.
// It is never stored in the committed collection.
const TempID = 0

// Todo is the domain model for a todo entry.
// IsDeleting and IsUpdating only live on the client while a request is pending.
type Todo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`

	IsDeleting bool `json:"-"`
	IsUpdating bool `json:"-"`
}

// Processed reports whether a request against the todo is outstanding.
func (t Todo) Processed() bool { return t.IsDeleting || t.IsUpdating }

// Patch is a partial update. Nil fields are left out of the request.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func TitlePatch(title string) Patch { return Patch{Title: &title} }

func CompletedPatch(done bool) Patch { return Patch{Completed: &done} }

// Apply returns t with the patch fields written over it.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Empty reports whether the patch carries no field.
func (p Patch) Empty() bool { return p.Title == nil && p.Completed == nil }

// Filter selects which todos are visible. It never leaves the client.
type Filter int

const (
	All Filter = iota
	Active
	Completed
)

// Filters lists every filter in display order.
var Filters = []Filter{All, Active, Completed}

func (f Filter) String() string {
	switch f {
	case Active:
		return "Active"
	case Completed:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles All -> Active -> Completed -> All.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// ParseFilter accepts "all", "active" or "completed" in any case.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "active":
		return Active, nil
	case "completed", "done":
		return Completed, nil
	}
	return All, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case Active:
		return !t.Completed
	case Completed:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the todos visible under f, keeping their relative order.
func (f Filter) Apply(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ActiveCount counts todos that are not completed.
func ActiveCount(todos []Todo) int {
	n := 0
	for _, t := range todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CompletedCount is the complement of ActiveCount.
func CompletedCount(todos []Todo) int { return len(todos) - ActiveCount(todos) }

// AllCompleted is true for an empty list, like every() on an empty array.
func AllCompleted(todos []Todo) bool { return ActiveCount(todos) == 0 }
