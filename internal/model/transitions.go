package model

// The helpers below never mutate their input; each returns a fresh slice so
// snapshots handed to views stay stable.

// Find returns the todo with the given id.
func Find(todos []Todo, id int) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

func mapByID(todos []Todo, match func(int) bool, fn func(Todo) Todo) []Todo {
	out := make([]Todo, len(todos))
	for i, t := range todos {
		if match(t.ID) {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func idIs(id int) func(int) bool { return func(v int) bool { return v == id } }

func idIn(ids map[int]bool) func(int) bool { return func(v int) bool { return ids[v] } }

// SetDeleting flips the deleting flag of one todo.
func SetDeleting(todos []Todo, id int, v bool) []Todo {
	return mapByID(todos, idIs(id), func(t Todo) Todo {
		t.IsDeleting = v
		return t
	})
}

// SetUpdating flips the updating flag of one todo.
func SetUpdating(todos []Todo, id int, v bool) []Todo {
	return mapByID(todos, idIs(id), func(t Todo) Todo {
		t.IsUpdating = v
		return t
	})
}

// SetUpdatingMany flips the updating flag of every todo in ids.
func SetUpdatingMany(todos []Todo, ids map[int]bool, v bool) []Todo {
	return mapByID(todos, idIn(ids), func(t Todo) Todo {
		t.IsUpdating = v
		return t
	})
}

// Replace swaps the todo sharing next's id for next with its flags cleared.
// A todo that is no longer present is not re-added.
func Replace(todos []Todo, next Todo) []Todo {
	next.IsDeleting, next.IsUpdating = false, false
	return mapByID(todos, idIs(next.ID), func(Todo) Todo { return next })
}

// Remove drops the todo with the given id.
func Remove(todos []Todo, id int) []Todo {
	return RemoveMany(todos, map[int]bool{id: true})
}

// RemoveMany drops every todo whose id is in ids.
func RemoveMany(todos []Todo, ids map[int]bool) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if !ids[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Append adds t at the end, dropping any temp placeholder first.
func Append(todos []Todo, t Todo) []Todo {
	out := RemoveMany(todos, map[int]bool{TempID: true})
	return append(out, t)
}

// Clone copies the slice.
func Clone(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}
