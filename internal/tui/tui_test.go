package tui

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/fakeapi"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

func newModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	db, err := fakeapi.Open("")
	require.NoError(t, err)
	_, _ = db.Create(1, "Buy milk", false)
	_, _ = db.Create(1, "Walk dog", true)
	srv := httptest.NewServer(fakeapi.New(db, nil))
	t.Cleanup(srv.Close)

	s := store.New(api.New(api.Options{BaseURL: srv.URL, UserID: 1}), store.Options{UserID: 1})
	t.Cleanup(s.Close)

	m := New(context.Background(), s)
	require.NoError(t, s.Load(context.Background()))
	return step(m, changedMsg{}), s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// step feeds one message and drops the returned command.
func step(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the store command it produced, if any.
func press(m Model, k string) Model {
	next, cmd := m.Update(keyMsg(k))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if done, ok := cmd().(opDoneMsg); ok {
		m = step(m, done)
	}
	return m
}

func TestViewShowsTodosAndFooter(t *testing.T) {
	m, _ := newModel(t)
	out := m.View()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Walk dog")
	assert.Contains(t, out, "1 items left")
	assert.Contains(t, out, "Completed")
}

func TestFilterKeys(t *testing.T) {
	m, s := newModel(t)

	m = step(m, keyMsg("2"))
	m = step(m, changedMsg{})
	assert.Equal(t, model.Active, s.Snapshot().Filter)
	require.Len(t, m.snap.Visible, 1)
	assert.Equal(t, "Buy milk", m.snap.Visible[0].Title)

	m = step(m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(m, changedMsg{})
	assert.Equal(t, model.Completed, m.snap.Filter)
}

func TestAddFlow(t *testing.T) {
	m, s := newModel(t)

	m = step(m, keyMsg("a"))
	require.True(t, m.adding)
	m = step(m, keyMsg("Read"))
	assert.Equal(t, "Read", m.input.Value())

	m = press(m, "enter")
	snap := s.Snapshot()
	require.Len(t, snap.Todos, 3)
	assert.Equal(t, "Read", snap.Todos[2].Title)
	assert.Empty(t, m.input.Value(), "input cleared after a successful add")
	assert.True(t, m.adding, "bar stays open for the next title")

	m = press(m, "enter")
	assert.Equal(t, store.MsgEmptyTitle, m.snap.Error)

	m = step(m, keyMsg("esc"))
	assert.False(t, m.adding)
}

func TestToggleAndDeleteSelected(t *testing.T) {
	m, s := newModel(t)

	m = press(m, " ")
	td, _ := model.Find(s.Snapshot().Todos, m.snap.Todos[0].ID)
	assert.True(t, td.Completed)

	m = press(m, "d")
	assert.Len(t, s.Snapshot().Todos, 1)
	assert.Len(t, m.snap.Visible, 1)
}

func TestEditFlow(t *testing.T) {
	m, s := newModel(t)
	id := m.snap.Todos[0].ID

	m = step(m, keyMsg("e"))
	require.True(t, m.editing)
	assert.Equal(t, id, s.Snapshot().EditingID)
	assert.Equal(t, "Buy milk", m.input.Value())

	m.input.SetValue("Buy oat milk")
	m = press(m, "enter")

	td, _ := model.Find(s.Snapshot().Todos, id)
	assert.Equal(t, "Buy oat milk", td.Title)
	assert.False(t, m.editing)
	assert.Zero(t, s.Snapshot().EditingID)
}

func TestToggleAllAndClear(t *testing.T) {
	m, s := newModel(t)

	m = press(m, "t")
	assert.True(t, s.Snapshot().AllCompleted)

	m = press(m, "c")
	assert.Empty(t, s.Snapshot().Todos)
	assert.NotContains(t, m.View(), "items left", "footer hidden on an empty list")
}

// slowService answers List at once and blocks every Update until released.
type slowService struct {
	mu      sync.Mutex
	todos   []model.Todo
	updates int
	entered chan struct{}
	release chan struct{}
}

func (f *slowService) List(context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.Clone(f.todos), nil
}

func (f *slowService) Create(_ context.Context, title string) (model.Todo, error) {
	return model.Todo{ID: 99, UserID: 1, Title: title}, nil
}

func (f *slowService) Update(_ context.Context, id int, p model.Patch) (model.Todo, error) {
	f.mu.Lock()
	f.updates++
	f.mu.Unlock()
	f.entered <- struct{}{}
	<-f.release

	f.mu.Lock()
	defer f.mu.Unlock()
	td, _ := model.Find(f.todos, id)
	return p.Apply(td), nil
}

func (f *slowService) Delete(context.Context, int) error { return nil }

func TestEditSubmitIgnoredWhileSaving(t *testing.T) {
	svc := &slowService{
		todos:   []model.Todo{{ID: 1, UserID: 1, Title: "old"}},
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	s := store.New(svc, store.Options{UserID: 1})
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))
	m := step(New(context.Background(), s), changedMsg{})

	m = step(m, keyMsg("e"))
	require.True(t, m.editing)
	m.input.SetValue("new")

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case <-svc.entered:
	case <-time.After(time.Second):
		t.Fatal("update never reached the service")
	}
	m = step(m, changedMsg{})
	td, _ := model.Find(m.snap.Todos, 1)
	require.True(t, td.IsUpdating)

	_, cmd = m.Update(keyMsg("enter"))
	assert.Nil(t, cmd, "second enter must not send another update")

	close(svc.release)
	msg := <-done
	require.NoError(t, msg.(opDoneMsg).err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 1, svc.updates)
}
