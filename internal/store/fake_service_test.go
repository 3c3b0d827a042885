package store

import (
	"context"
	"errors"
	"sync"

	"github.com/idilsaglam/tada/internal/model"
)

var errBoom = errors.New("boom")

// fakeService is an in-memory Service with per-call failure switches. When
// gate is set, every call signals entered and then waits for gate to close.
type fakeService struct {
	mu     sync.Mutex
	todos  []model.Todo
	nextID int
	calls  []string

	failList   bool
	failCreate bool
	failUpdate map[int]bool
	failDelete map[int]bool

	gate    chan struct{}
	entered chan struct{}
}

func newFake(todos ...model.Todo) *fakeService {
	f := &fakeService{
		todos:      todos,
		nextID:     100,
		failUpdate: map[int]bool{},
		failDelete: map[int]bool{},
	}
	return f
}

// hold makes subsequent calls block until the returned release is called.
func (f *fakeService) hold() (release func()) {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 16)
	gate := f.gate
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeService) enter(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeService) List(ctx context.Context) ([]model.Todo, error) {
	f.enter("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errBoom
	}
	return model.Clone(f.todos), nil
}

func (f *fakeService) Create(ctx context.Context, title string) (model.Todo, error) {
	f.enter("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return model.Todo{}, errBoom
	}
	f.nextID++
	t := model.Todo{ID: f.nextID, UserID: 1, Title: title}
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *fakeService) Update(ctx context.Context, id int, p model.Patch) (model.Todo, error) {
	f.enter("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate[id] {
		return model.Todo{}, errBoom
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i] = p.Apply(t)
			return f.todos[i], nil
		}
	}
	return model.Todo{}, errBoom
}

func (f *fakeService) Delete(ctx context.Context, id int) error {
	f.enter("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[id] {
		return errBoom
	}
	f.todos = model.Remove(f.todos, id)
	return nil
}
