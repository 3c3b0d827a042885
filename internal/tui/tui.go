// Package tui is the interactive Bubble Tea view over a store.Store.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
	temp bool
}

func (i listItem) busy() bool { return i.temp || i.todo.Processed() }

// Implement list.Item interface
func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	line := fmt.Sprintf("%s %s", box, text)
	if it.busy() {
		line += " " + pendingStyle.Render(busyMark)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Store results travel back into Update as these messages.
type (
	changedMsg struct{}
	opDoneMsg  struct {
		op  string
		err error
	}
)

// Model is the Bubble Tea model. Every mutation goes through the store; the
// model only keeps the last snapshot and the state of its input bar.
type Model struct {
	ctx   context.Context
	store *store.Store
	snap  store.Snapshot
	keys  keyMap

	list  list.Model
	input textinput.Model

	adding  bool // add bar open
	editing bool // edit bar open

	width, height int
}

// New builds the model. Call Init (or Run) to start loading.
func New(ctx context.Context, s *store.Store) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.extra
	l.AdditionalFullHelpKeys = keys.extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	m := Model{
		ctx:    ctx,
		store:  s,
		keys:   keys,
		list:   l,
		input:  ti,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, s *store.Store) error {
	p := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func waitForChange(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		<-s.Changes()
		return changedMsg{}
	}
}

// run wraps a blocking store call into a command.
func run(op string, fn func() error) tea.Cmd {
	return func() tea.Msg { return opDoneMsg{op: op, err: fn()} }
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		run("load", func() error { return m.store.Load(m.ctx) }),
		waitForChange(m.store),
	)
}

func (m *Model) refresh() {
	m.snap = m.store.Snapshot()

	items := make([]list.Item, 0, len(m.snap.Visible))
	for _, t := range m.snap.Visible {
		items = append(items, listItem{todo: t, temp: t.ID == model.TempID})
	}
	m.list.SetItems(items)
	m.list.Title = m.header()

	if m.editing && m.snap.EditingID == 0 {
		m.closeInput()
	}
}

func (m Model) header() string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("todos"),
		successStyle.Render("✔"), m.snap.CompletedCount,
		pendingStyle.Render("•"), m.snap.ActiveCount,
		accentStyle.Render("Total"), len(m.snap.Todos),
	)
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok || it.temp {
		return listItem{}, false
	}
	return it, true
}

func (m *Model) openInput(value, placeholder string) tea.Cmd {
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.adding, m.editing = false, false
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.store)

	case opDoneMsg:
		m.refresh()
		if msg.op == "add" && msg.err == nil && m.adding {
			m.input.SetValue("")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdd(msg)
		}
		if m.editing {
			return m.updateEdit(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// add mode
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.snap.Adding {
			return m, nil // input is disabled while the create is pending
		}
		title := m.input.Value()
		return m, run("add", func() error {
			_, err := m.store.AddTodo(m.ctx, title)
			return err
		})
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// edit mode
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		id, title := m.snap.EditingID, m.input.Value()
		if td, ok := model.Find(m.snap.Todos, id); ok && td.Processed() {
			return m, nil // the previous save is still out
		}
		return m, run("edit", func() error { return m.store.EditTodo(m.ctx, id, title) })
	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEdit()
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		return m.openInput("", "What needs to be done?"), true

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok || it.busy() || !m.store.BeginEdit(it.todo.ID) {
			return nil, true
		}
		m.editing = true
		m.snap = m.store.Snapshot()
		return m.openInput(it.todo.Title, "Empty todo will be deleted"), true

	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.selected()
		if !ok || it.busy() {
			return nil, true
		}
		id, done := it.todo.ID, !it.todo.Completed
		return run("toggle", func() error {
			_, err := m.store.ToggleTodo(m.ctx, id, model.CompletedPatch(done))
			return err
		}), true

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok || it.busy() {
			return nil, true
		}
		id := it.todo.ID
		return run("delete", func() error { return m.store.DeleteTodo(m.ctx, id) }), true

	case key.Matches(msg, m.keys.ToggleAll):
		if len(m.snap.Todos) == 0 || m.snap.Loading {
			return nil, true
		}
		return run("toggle-all", func() error { return m.store.ToggleAll(m.ctx) }), true

	case key.Matches(msg, m.keys.Clear):
		if m.snap.CompletedCount == 0 {
			return nil, true
		}
		return run("clear", func() error { return m.store.ClearCompleted(m.ctx) }), true

	case key.Matches(msg, m.keys.NextFilter):
		m.store.SetFilter(m.snap.Filter.Next())
		return nil, true
	case key.Matches(msg, m.keys.All):
		m.store.SetFilter(model.All)
		return nil, true
	case key.Matches(msg, m.keys.Active):
		m.store.SetFilter(model.Active)
		return nil, true
	case key.Matches(msg, m.keys.Completed):
		m.store.SetFilter(model.Completed)
		return nil, true

	case key.Matches(msg, m.keys.Dismiss):
		m.store.DismissError()
		return nil, true
	}
	return nil, false
}

func (m Model) footer() string {
	if len(m.snap.Todos) == 0 {
		return ""
	}
	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.snap.Filter {
			tabs = append(tabs, activeTab.Render(f.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(f.String()))
		}
	}
	clearHint := mutedStyle.Render("clear completed (c)")
	if m.snap.CompletedCount > 0 {
		clearHint = accentStyle.Render(fmt.Sprintf("clear completed (c) · %d", m.snap.CompletedCount))
	}
	return fmt.Sprintf("%d items left   %s   %s", m.snap.ActiveCount, strings.Join(tabs, ""), clearHint)
}

func (m Model) View() string {
	var sections []string

	if m.snap.Loading {
		sections = append(sections, mutedStyle.Render("Loading todos…"))
	} else {
		bars := 2
		if m.adding || m.editing {
			bars += 4
		}
		if m.snap.Error != "" {
			bars++
		}
		m.list.SetSize(m.width-4, max(m.height-bars-2, 3))
		if len(m.snap.Visible) == 0 {
			m.list.Title = m.header() + "\n" + mutedStyle.Render("no items")
		}
		sections = append(sections, m.list.View())
		if f := m.footer(); f != "" {
			sections = append(sections, f)
		}
	}

	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.snap.Adding {
			title += " " + pendingStyle.Render("saving"+busyMark)
		}
		sections = append(sections, barStyle.Render(title+"\n"+m.input.View()))
	}

	if m.snap.Error != "" {
		sections = append(sections, errorStyle.Render("✖ "+m.snap.Error)+"  "+helpStyle.Render("(x to hide)"))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
