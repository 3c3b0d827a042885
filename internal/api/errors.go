package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is returned for every failed call: transport errors, timeouts
// and non-2xx responses alike.
type NetworkError struct {
	Op     string // list, create, update, delete
	Status int    // HTTP status, 0 when no response arrived
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s todos: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s todos: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Status == http.StatusNotFound
}
