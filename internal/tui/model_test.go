package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todolist"
	"github.com/Makepad-fr/tada/internal/ui"
)

type memAPI struct {
	mu        sync.Mutex
	todos     []model.Todo
	nextID    int
	deleteErr error
}

func (a *memAPI) List(ctx context.Context, userID int) ([]model.Todo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Todo(nil), a.todos...), nil
}

func (a *memAPI) Create(ctx context.Context, title string, userID int) (model.Todo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	t := model.Todo{ID: a.nextID, UserID: userID, Title: title}
	a.todos = append(a.todos, t)
	return t, nil
}

func (a *memAPI) Delete(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deleteErr != nil {
		return a.deleteErr
	}
	a.todos = model.Without(a.todos, map[int]bool{id: true})
	return nil
}

func newModel(t *testing.T, todos ...model.Todo) (Model, *memAPI) {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	api := &memAPI{todos: todos, nextID: 100}
	m := New(todolist.New(api, &model.User{ID: 1}))
	return run(t, m, m.Init()), api
}

// run executes cmd and feeds every resulting message back into m until no
// command is left.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var tm tea.Model
			var c tea.Cmd
			tm, c = m.Update(msg)
			m = tm.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	tm, cmd := m.Update(msg)
	return tm.(Model), cmd
}

// keys presses each key and settles its command.
func keys(t *testing.T, m Model, ks ...string) Model {
	t.Helper()
	for _, k := range ks {
		var cmd tea.Cmd
		m, cmd = press(m, k)
		m = run(t, m, cmd)
	}
	return m
}

var sample = []model.Todo{
	{ID: 1, UserID: 1, Title: "Buy milk"},
	{ID: 2, UserID: 1, Title: "Walk dog", Completed: true},
	{ID: 3, UserID: 1, Title: "Write report"},
}

func TestInitialLoadRenders(t *testing.T) {
	m, _ := newModel(t, sample...)

	require.Len(t, m.Controller().State().Todos, 3)
	view := m.View()
	assert.Contains(t, view, "[ ] Buy milk  #1")
	assert.Contains(t, view, "[x] Walk dog  #2")
	assert.Contains(t, view, "2 items left")
	assert.Contains(t, view, "[all] | active | completed")
	assert.Contains(t, view, "c: clear completed")
}

func TestEmptyListHidesFooter(t *testing.T) {
	m, _ := newModel(t)
	assert.NotContains(t, m.View(), "items left")
}

func TestTypeAndSubmit(t *testing.T) {
	m, api := newModel(t, sample...)

	m = keys(t, m, "a", "B", "r", "e", "a", "d")
	assert.True(t, m.typing)
	assert.Equal(t, "Bread", m.Controller().State().Title)

	m = keys(t, m, "enter")
	st := m.Controller().State()
	assert.Empty(t, st.Title)
	assert.Empty(t, m.input.Value())
	require.Len(t, st.Todos, 4)
	assert.Equal(t, "Bread", st.Todos[3].Title)
	assert.Len(t, api.todos, 4)
}

func TestAddingRowShowsPendingTitle(t *testing.T) {
	m, _ := newModel(t, sample...)

	m = keys(t, m, "a", "B", "r", "e", "a", "d")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	require.True(t, m.Controller().State().Adding())
	assert.Contains(t, m.View(), ui.Current().Busy+" Bread")

	m = run(t, m, cmd)
	assert.False(t, m.Controller().State().Adding())
	view := m.View()
	assert.NotContains(t, view, ui.Current().Busy+" Bread")
	assert.Contains(t, view, "[ ] Bread  #101")
}

func TestSubmitBlankShowsErrorUntilDismissed(t *testing.T) {
	m, _ := newModel(t, sample...)

	m = keys(t, m, "a", "enter")
	assert.Equal(t, todolist.ErrTitleRequired, m.Controller().State().Err)
	assert.Contains(t, m.View(), "! "+todolist.ErrTitleRequired)

	// first esc leaves the input, second dismisses the banner
	m = keys(t, m, "esc")
	assert.False(t, m.typing)
	m = keys(t, m, "esc")
	assert.Empty(t, m.Controller().State().Err)
}

func TestDeleteSelectedShowsBusyMarker(t *testing.T) {
	m, _ := newModel(t, sample...)

	m = keys(t, m, "down")
	m, cmd := press(m, "d")
	require.NotNil(t, cmd)
	assert.True(t, m.Controller().State().IsPending(2))
	assert.Contains(t, m.View(), "... Walk dog  #2")

	m = run(t, m, cmd)
	assert.False(t, m.Controller().State().IsPending(2))
	assert.Equal(t, -1, model.IndexOf(m.Controller().State().Todos, 2))
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	m, api := newModel(t, sample...)
	api.deleteErr = errors.New("boom")

	m = keys(t, m, "d")
	st := m.Controller().State()
	assert.Equal(t, todolist.ErrUnableToDelete, st.Err)
	assert.Len(t, st.Todos, 3)
}

func TestClearCompleted(t *testing.T) {
	m, _ := newModel(t, sample...)

	m = keys(t, m, "c")
	st := m.Controller().State()
	assert.Len(t, st.Todos, 2)
	assert.False(t, st.HasCompleted())
	assert.NotContains(t, m.View(), "c: clear completed")
}

func TestFilterKeysAndCursorClamp(t *testing.T) {
	m, _ := newModel(t, sample...)

	m = keys(t, m, "down", "down")
	assert.Equal(t, 2, m.cursor)

	m = keys(t, m, "3")
	assert.Equal(t, model.FilterCompleted, m.Controller().State().Filter)
	assert.Equal(t, 0, m.cursor)
	assert.NotContains(t, m.View(), "Buy milk")

	m = keys(t, m, "f")
	assert.Equal(t, model.FilterAll, m.Controller().State().Filter)
	m = keys(t, m, "2")
	assert.Equal(t, model.FilterActive, m.Controller().State().Filter)
	assert.NotContains(t, m.View(), "Walk dog")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, sample...)
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
