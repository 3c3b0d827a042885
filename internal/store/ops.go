package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/tada/internal/model"
)

// Every operation below reports its failure twice: as a banner message for
// the view and as a returned error for the caller.

// Load replaces the collection with the server's list.
func (s *Store) Load(ctx context.Context) error {
	s.mutate(func() { s.loading = true })

	todos, err := s.svc.List(ctx)

	s.mutate(func() {
		s.loading = false
		if err != nil {
			s.todos = []model.Todo{}
			s.showErrorLocked(MsgLoad)
			return
		}
		s.todos = model.Clone(todos)
	})
	if err != nil {
		s.log.Warn("load failed", "user", s.userID, "err", err)
		return fmt.Errorf("load todos: %w", err)
	}
	s.log.Info("todos loaded", "user", s.userID, "count", len(todos))
	return nil
}

// AddTodo creates a todo from the trimmed title. While the request is out a
// placeholder with id 0 is visible at the end of the list.
func (s *Store) AddTodo(ctx context.Context, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		s.mutate(func() { s.showErrorLocked(MsgEmptyTitle) })
		return model.Todo{}, ErrEmptyTitle
	}

	busy := false
	s.mutate(func() {
		if s.adding {
			busy = true
			return
		}
		s.adding = true
		s.temp = &model.Todo{ID: model.TempID, UserID: s.userID, Title: title}
	})
	if busy {
		return model.Todo{}, ErrAddInProgress
	}

	created, err := s.svc.Create(ctx, title)

	s.mutate(func() {
		s.temp = nil
		s.adding = false
		if err != nil {
			s.showErrorLocked(MsgAdd)
			return
		}
		s.todos = model.Append(s.todos, created)
	})
	if err != nil {
		s.log.Warn("add failed", "title", title, "err", err)
		return model.Todo{}, fmt.Errorf("add todo: %w", err)
	}
	return created, nil
}

// DeleteTodo removes a todo once the server confirms. On failure the todo is
// left as it was before the call.
func (s *Store) DeleteTodo(ctx context.Context, id int) error {
	found := false
	s.mutate(func() {
		if _, found = model.Find(s.todos, id); found {
			s.todos = model.SetDeleting(s.todos, id, true)
		}
	})
	if !found {
		return ErrUnknownTodo
	}

	err := s.svc.Delete(ctx, id)

	s.mutate(func() {
		if err != nil {
			s.todos = model.SetDeleting(s.todos, id, false)
			s.showErrorLocked(MsgDelete)
			return
		}
		s.todos = model.Remove(s.todos, id)
		if s.editingID == id {
			s.editingID = 0
		}
	})
	if err != nil {
		s.log.Warn("delete failed", "id", id, "err", err)
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

// EditTodo commits the edit in progress for id.
//
// It does nothing unless id is being edited. An unchanged title just leaves
// edit mode; an empty one deletes the todo. Edit mode survives a failed
// update so the user can retry or cancel.
func (s *Store) EditTodo(ctx context.Context, id int, newTitle string) error {
	title := strings.TrimSpace(newTitle)

	s.mu.Lock()
	if s.editingID == 0 || s.editingID != id {
		s.mu.Unlock()
		return nil
	}
	orig, ok := model.Find(s.todos, id)
	switch {
	case !ok:
		s.editingID = 0
		s.mu.Unlock()
		s.notify()
		return ErrUnknownTodo
	case strings.TrimSpace(orig.Title) == title:
		s.editingID = 0
		s.mu.Unlock()
		s.notify()
		return nil
	case title == "":
		s.editingID = 0
		s.mu.Unlock()
		s.notify()
		return s.DeleteTodo(ctx, id)
	}
	s.todos = model.SetUpdating(s.todos, id, true)
	s.mu.Unlock()
	s.notify()

	updated, err := s.svc.Update(ctx, id, model.TitlePatch(title))

	s.mutate(func() {
		if err != nil {
			s.todos = model.SetUpdating(s.todos, id, false)
			s.showErrorLocked(MsgEdit)
			return
		}
		s.todos = model.Replace(s.todos, updated)
		if s.editingID == id {
			s.editingID = 0
		}
	})
	if err != nil {
		s.log.Warn("edit failed", "id", id, "err", err)
		return fmt.Errorf("edit todo %d: %w", id, err)
	}
	return nil
}

// ToggleTodo applies a single-todo patch, typically the completed checkbox.
func (s *Store) ToggleTodo(ctx context.Context, id int, p model.Patch) (model.Todo, error) {
	found := false
	s.mutate(func() {
		if _, found = model.Find(s.todos, id); found {
			s.todos = model.SetUpdating(s.todos, id, true)
		}
	})
	if !found {
		return model.Todo{}, ErrUnknownTodo
	}

	updated, err := s.svc.Update(ctx, id, p)

	s.mutate(func() {
		if err != nil {
			s.todos = model.SetUpdating(s.todos, id, false)
			s.showErrorLocked(MsgToggle)
			return
		}
		s.todos = model.Replace(s.todos, updated)
	})
	if err != nil {
		s.log.Warn("toggle failed", "id", id, "err", err)
		return model.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return updated, nil
}

// ToggleAll completes every todo, or reopens them all when every todo is
// already completed. Only todos that need to change are sent.
//
// All updates run at once and are all awaited. One failure is enough to show
// the error, but todos whose update went through keep the server value.
func (s *Store) ToggleAll(ctx context.Context) error {
	var (
		target   bool
		selected []model.Todo
		ids      = map[int]bool{}
	)
	s.mutate(func() {
		if len(s.todos) == 0 {
			return
		}
		target = !model.AllCompleted(s.todos)
		for _, t := range s.todos {
			if t.Completed != target {
				selected = append(selected, t)
				ids[t.ID] = true
			}
		}
		s.todos = model.SetUpdatingMany(s.todos, ids, true)
	})
	if len(selected) == 0 {
		return nil
	}

	results := make([]*model.Todo, len(selected))
	var g errgroup.Group
	for i, t := range selected {
		g.Go(func() error {
			updated, err := s.svc.Update(ctx, t.ID, model.CompletedPatch(target))
			if err != nil {
				return fmt.Errorf("update todo %d: %w", t.ID, err)
			}
			results[i] = &updated
			return nil
		})
	}
	err := g.Wait()

	s.mutate(func() {
		s.todos = model.SetUpdatingMany(s.todos, ids, false)
		for _, r := range results {
			if r != nil {
				s.todos = model.Replace(s.todos, *r)
			}
		}
		if err != nil {
			s.showErrorLocked(MsgToggleAll)
		}
	})
	if err != nil {
		s.log.Warn("toggle all failed", "target", target, "count", len(selected), "err", err)
		return fmt.Errorf("toggle all: %w", err)
	}
	return nil
}

// ClearCompleted deletes every completed todo. Each deletion stands on its
// own: the ones that succeed are removed even if others fail.
func (s *Store) ClearCompleted(ctx context.Context) error {
	var completed []model.Todo
	s.mutate(func() {
		completed = model.Completed.Apply(s.todos)
		for _, t := range completed {
			s.todos = model.SetDeleting(s.todos, t.ID, true)
		}
	})
	if len(completed) == 0 {
		return nil
	}

	errs := iter.Map(completed, func(t *model.Todo) error {
		if err := s.svc.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete todo %d: %w", t.ID, err)
		}
		return nil
	})

	done := map[int]bool{}
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			continue
		}
		done[completed[i].ID] = true
	}

	s.mutate(func() {
		for i, err := range errs {
			if err != nil {
				s.todos = model.SetDeleting(s.todos, completed[i].ID, false)
			}
		}
		s.todos = model.RemoveMany(s.todos, done)
		if failed > 0 {
			s.showErrorLocked(MsgDelete)
		}
	})
	if failed > 0 {
		err := errors.Join(errs...)
		s.log.Warn("clear completed failed", "failed", failed, "removed", len(done), "err", err)
		return fmt.Errorf("clear completed: %w", err)
	}
	return nil
}
