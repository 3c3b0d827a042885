// Package store holds the todo list for one session and reconciles local,
// optimistic state with the answers of the remote service.
//
// State is only changed through the Store methods and read through
// Snapshot. The mutex is never held across a network call.
package store

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultErrorTTL is how long an error banner stays up.
const DefaultErrorTTL = 3 * time.Second

// Service is the remote todo API as seen by the store.
type Service interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, title string) (model.Todo, error)
	Update(ctx context.Context, id int, p model.Patch) (model.Todo, error)
	Delete(ctx context.Context, id int) error
}

// Options tune a Store.
type Options struct {
	UserID   int
	ErrorTTL time.Duration // 0 means DefaultErrorTTL
	Logger   *log.Logger
}

// Store is the state container. The zero value is not usable; call New.
type Store struct {
	svc    Service
	userID int
	ttl    time.Duration
	log    *log.Logger

	mu        sync.Mutex
	todos     []model.Todo
	filter    model.Filter
	loading   bool
	adding    bool
	temp      *model.Todo
	editingID int // 0: no edit in progress

	errMsg   string
	errGen   uint64
	errTimer *time.Timer

	changes chan struct{}
}

// New returns a Store in the loading state, as before the first Load.
func New(svc Service, opt Options) *Store {
	ttl := opt.ErrorTTL
	if ttl <= 0 {
		ttl = DefaultErrorTTL
	}
	logger := opt.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		svc:     svc,
		userID:  opt.UserID,
		ttl:     ttl,
		log:     logger,
		loading: true,
		todos:   []model.Todo{},
		changes: make(chan struct{}, 1),
	}
}

// Snapshot is a read-only copy of the store state.
type Snapshot struct {
	Todos     []model.Todo // committed collection, unfiltered
	Visible   []model.Todo // filtered, with the temp todo appended
	Filter    model.Filter
	Loading   bool
	Adding    bool
	Temp      *model.Todo
	EditingID int
	Error     string

	ActiveCount    int
	CompletedCount int
	AllCompleted   bool
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Todos:          model.Clone(s.todos),
		Visible:        s.filter.Apply(s.todos),
		Filter:         s.filter,
		Loading:        s.loading,
		Adding:         s.adding,
		EditingID:      s.editingID,
		Error:          s.errMsg,
		ActiveCount:    model.ActiveCount(s.todos),
		CompletedCount: model.CompletedCount(s.todos),
		AllCompleted:   model.AllCompleted(s.todos),
	}
	if s.temp != nil {
		t := *s.temp
		snap.Temp = &t
		snap.Visible = append(snap.Visible, t)
	}
	return snap
}

// Changes delivers a value after state changes. Bursts are coalesced, so a
// receiver must re-read Snapshot rather than count notifications.
func (s *Store) Changes() <-chan struct{} { return s.changes }

// Close stops the banner timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// mutate runs fn under the lock and then notifies listeners.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

// showErrorLocked replaces the banner and arms its expiry. Caller holds mu.
func (s *Store) showErrorLocked(msg string) {
	s.errGen++
	gen := s.errGen
	s.errMsg = msg
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errTimer = time.AfterFunc(s.ttl, func() { s.expireError(gen) })
}

func (s *Store) expireError(gen uint64) {
	s.mu.Lock()
	if s.errGen != gen {
		s.mu.Unlock()
		return
	}
	s.errMsg = ""
	s.errTimer = nil
	s.mu.Unlock()
	s.notify()
}

// DismissError hides the banner right away.
func (s *Store) DismissError() {
	s.mutate(func() {
		s.errGen++
		s.errMsg = ""
		if s.errTimer != nil {
			s.errTimer.Stop()
			s.errTimer = nil
		}
	})
}

// SetFilter changes which todos are visible.
func (s *Store) SetFilter(f model.Filter) {
	s.mutate(func() { s.filter = f })
}

// BeginEdit enters edit mode for id. Unknown or busy todos are refused.
func (s *Store) BeginEdit(id int) bool {
	ok := false
	s.mutate(func() {
		t, found := model.Find(s.todos, id)
		if !found || t.Processed() {
			return
		}
		s.editingID = id
		ok = true
	})
	return ok
}

// CancelEdit leaves edit mode without saving.
func (s *Store) CancelEdit() {
	s.mutate(func() { s.editingID = 0 })
}
