package store

import "errors"

var (
	// ErrEmptyTitle is the only validation error; it never reaches the network.
	ErrEmptyTitle = errors.New("title should not be empty")
	// ErrAddInProgress rejects a second add while a create is pending.
	ErrAddInProgress = errors.New("a todo is already being added")
	// ErrUnknownTodo is returned when an operation targets an id missing from the list.
	ErrUnknownTodo = errors.New("no such todo")
)

// Banner texts shown to the user, one per failing operation.
const (
	MsgLoad       = "Unable to load todos"
	MsgEmptyTitle = "Title should not be empty"
	MsgAdd        = "Unable to add a todo"
	MsgDelete     = "Unable to delete a todo"
	MsgEdit       = "Unable to update the todo"
	MsgToggle     = "Unable to update a todo"
	MsgToggleAll  = "Unable to update todos"
)
