// Package tui is the interactive terminal front end over todolist.Controller.
package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todolist"
)

// Model renders the controller and turns keys into controller intents.
// It owns only view concerns: the cursor, the input widget and focus.
type Model struct {
	ctrl todolist.Controller

	input  textinput.Model
	typing bool // input focused
	cursor int  // index into the visible todos
	keys   keyMap
	help   help.Model

	width, height int
}

// New wraps ctrl; the list starts in navigation mode.
func New(ctrl todolist.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctrl:   ctrl,
		input:  ti,
		keys:   defaultKeys(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctrl todolist.Controller) (todolist.Controller, error) {
	p := tea.NewProgram(New(ctrl), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return ctrl, err
	}
	if m, ok := final.(Model); ok {
		return m.ctrl, nil
	}
	return ctrl, nil
}

// Controller exposes the wrapped controller.
func (m Model) Controller() todolist.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd { return m.ctrl.Init() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m, cmd = m.dispatch(msg)
	return m, cmd
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.dispatch(todolist.SubmitMsg{})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.ctrl.State().Title {
		var ctrlCmd tea.Cmd
		m, ctrlCmd = m.dispatch(todolist.SetTitleMsg{Title: m.input.Value()})
		cmd = tea.Batch(cmd, ctrlCmd)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(st.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.typing = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m.dispatch(todolist.RemoveMsg{ID: t.ID})
		}
	case key.Matches(msg, m.keys.Clear):
		return m.dispatch(todolist.ClearCompletedMsg{})
	case key.Matches(msg, m.keys.Filter):
		return m.dispatch(todolist.SetFilterMsg{Filter: st.Filter.Next()})
	case key.Matches(msg, m.keys.All):
		return m.dispatch(todolist.SetFilterMsg{Filter: model.FilterAll})
	case key.Matches(msg, m.keys.Active):
		return m.dispatch(todolist.SetFilterMsg{Filter: model.FilterActive})
	case key.Matches(msg, m.keys.Completed):
		return m.dispatch(todolist.SetFilterMsg{Filter: model.FilterCompleted})
	case key.Matches(msg, m.keys.Reload):
		return m.dispatch(todolist.ReloadMsg{})
	case key.Matches(msg, m.keys.Escape):
		return m.dispatch(todolist.DismissErrorMsg{})
	}
	return m, nil
}

// dispatch forwards msg to the controller and re-syncs view state with it.
func (m Model) dispatch(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ctrl, cmd = m.ctrl.Update(msg)

	st := m.ctrl.State()
	if m.input.Value() != st.Title {
		m.input.SetValue(st.Title)
	}
	if n := len(st.Visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m, cmd
}

func (m Model) selected() (model.Todo, bool) {
	visible := m.ctrl.State().Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Todo{}, false
	}
	return visible[m.cursor], true
}
