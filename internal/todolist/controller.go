// Package todolist holds the to-do list state machine: the list, the active
// filter, the pending title, in-flight markers and the error banner.
//
// A Controller is a value. Update reduces one message into a new Controller
// and may return a tea.Cmd that performs an API call; the call's outcome comes
// back as another message. The same Controller drives the interactive TUI
// (through bubbletea's runtime) and the one-shot CLI (through Settle).
package todolist

import (
	"context"
	"io"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultTimeout bounds every API call made by the controller.
const DefaultTimeout = 10 * time.Second

// API is the remote todos resource.
type API interface {
	List(ctx context.Context, userID int) ([]model.Todo, error)
	Create(ctx context.Context, title string, userID int) (model.Todo, error)
	Delete(ctx context.Context, id int) error
}

// Intents.
type (
	// SetTitleMsg replaces the pending new-item title.
	SetTitleMsg struct{ Title string }
	// SubmitMsg creates a todo from the pending title.
	SubmitMsg struct{}
	// SetFilterMsg changes the visible subset.
	SetFilterMsg struct{ Filter model.Filter }
	// RemoveMsg deletes one todo.
	RemoveMsg struct{ ID int }
	// ClearCompletedMsg deletes every completed todo.
	ClearCompletedMsg struct{}
	// DismissErrorMsg hides the error banner.
	DismissErrorMsg struct{}
	// ReloadMsg fetches the list again.
	ReloadMsg struct{}
)

// API outcomes.
type (
	loadedMsg struct {
		todos []model.Todo
		err   error
	}
	addedMsg struct {
		todo model.Todo
		err  error
	}
	deletedMsg struct {
		id    int
		batch int // 0 for a single delete
		err   error
	}
)

// deleteBatch collects the outcomes of one ClearCompletedMsg.
type deleteBatch struct {
	remaining int
	succeeded []int
	failed    int
}

// Controller owns the to-do list state for one user.
type Controller struct {
	api     API
	user    *model.User
	logger  *log.Logger
	timeout time.Duration

	state     State
	batches   map[int]deleteBatch
	lastBatch int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTimeout bounds each API call; zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New returns a controller for user. A nil user is allowed: nothing loads
// and submissions fail validation.
func New(api API, user *model.User, opts ...Option) Controller {
	c := Controller{
		api:     api,
		user:    user,
		logger:  log.New(io.Discard),
		timeout: DefaultTimeout,
		state:   State{Filter: model.FilterAll},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// State returns the current snapshot.
func (c Controller) State() State { return c.state }

// User returns the user the controller acts for.
func (c Controller) User() *model.User { return c.user }

// Init loads the user's todos. It returns nil without a user.
func (c Controller) Init() tea.Cmd {
	if c.user == nil {
		c.logger.Debug("no user, skipping initial load")
		return nil
	}
	return c.loadCmd()
}

// Update reduces msg into a new Controller.
func (c Controller) Update(msg tea.Msg) (Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case SetTitleMsg:
		c.state.Title = msg.Title
	case SetFilterMsg:
		c.state.Filter = msg.Filter
	case DismissErrorMsg:
		c.state.Err = ""
	case ReloadMsg:
		return c, c.Init()
	case SubmitMsg:
		return c.submit()
	case RemoveMsg:
		return c.remove(msg.ID)
	case ClearCompletedMsg:
		return c.clearCompleted()

	case loadedMsg:
		c.onLoaded(msg)
	case addedMsg:
		c.onAdded(msg)
	case deletedMsg:
		c.onDeleted(msg)
	}
	return c, nil
}

func (c Controller) submit() (Controller, tea.Cmd) {
	title := c.state.Title
	if title == "" || c.user == nil {
		c.state.Err = ErrTitleRequired
		return c, nil
	}
	c.state.adding++
	c.logger.Debug("creating todo", "user", c.user.ID, "title", title)

	api, userID, timeout := c.api, c.user.ID, c.timeout
	return c, func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		todo, err := api.Create(ctx, title, userID)
		return addedMsg{todo: todo, err: err}
	}
}

func (c Controller) remove(id int) (Controller, tea.Cmd) {
	if c.state.IsPending(id) {
		return c, nil
	}
	c.state.pending = c.state.markPending(id)
	c.logger.Debug("deleting todo", "id", id)
	return c, c.deleteCmd(id, 0)
}

func (c Controller) clearCompleted() (Controller, tea.Cmd) {
	var ids []int
	for _, id := range model.CompletedIDs(c.state.Todos) {
		if !c.state.IsPending(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return c, nil
	}

	c.lastBatch++
	batches := make(map[int]deleteBatch, len(c.batches)+1)
	for k, v := range c.batches {
		batches[k] = v
	}
	batches[c.lastBatch] = deleteBatch{remaining: len(ids)}
	c.batches = batches
	c.state.pending = c.state.markPending(ids...)
	c.logger.Debug("clearing completed", "batch", c.lastBatch, "ids", ids)

	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, c.deleteCmd(id, c.lastBatch))
	}
	return c, tea.Batch(cmds...)
}

func (c *Controller) onLoaded(msg loadedMsg) {
	if msg.err != nil {
		c.logger.Warn("load failed", "err", msg.err)
		c.state.Err = msg.err.Error()
		return
	}
	seen := make(map[int]bool, len(msg.todos))
	todos := make([]model.Todo, 0, len(msg.todos))
	for _, t := range msg.todos {
		if seen[t.ID] {
			c.logger.Warn("duplicate todo id in list response", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		todos = append(todos, t)
	}
	c.state.Todos = todos
	c.logger.Debug("loaded todos", "count", len(todos))
}

func (c *Controller) onAdded(msg addedMsg) {
	if c.state.adding > 0 {
		c.state.adding--
	}
	c.state.Title = ""
	if msg.err != nil {
		c.logger.Warn("create failed", "err", msg.err)
		c.state.Err = ErrUnableToAdd
		return
	}
	if model.IndexOf(c.state.Todos, msg.todo.ID) >= 0 {
		c.logger.Warn("created todo id already listed", "id", msg.todo.ID)
		return
	}
	c.state.Todos = append(slices.Clip(c.state.Todos), msg.todo)
}

func (c *Controller) onDeleted(msg deletedMsg) {
	c.state.pending = c.state.settlePending(msg.id)
	if msg.err != nil {
		c.logger.Warn("delete failed", "id", msg.id, "batch", msg.batch, "err", msg.err)
	}

	if msg.batch == 0 {
		if msg.err != nil {
			c.state.Err = ErrUnableToDelete
			return
		}
		c.state.Todos = model.Without(c.state.Todos, map[int]bool{msg.id: true})
		return
	}

	b, ok := c.batches[msg.batch]
	if !ok {
		return
	}
	b.remaining--
	if msg.err != nil {
		b.failed++
	} else {
		b.succeeded = append(slices.Clip(b.succeeded), msg.id)
	}

	batches := make(map[int]deleteBatch, len(c.batches))
	for k, v := range c.batches {
		batches[k] = v
	}
	if b.remaining > 0 {
		batches[msg.batch] = b
		c.batches = batches
		return
	}
	delete(batches, msg.batch)
	c.batches = batches

	gone := make(map[int]bool, len(b.succeeded))
	for _, id := range b.succeeded {
		gone[id] = true
	}
	c.state.Todos = model.Without(c.state.Todos, gone)
	if b.failed > 0 {
		c.state.Err = ErrUnableToDelete
	}
	c.logger.Debug("batch settled", "batch", msg.batch, "deleted", len(b.succeeded), "failed", b.failed)
}

func (c Controller) loadCmd() tea.Cmd {
	api, userID, timeout := c.api, c.user.ID, c.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		todos, err := api.List(ctx, userID)
		return loadedMsg{todos: todos, err: err}
	}
}

func (c Controller) deleteCmd(id, batch int) tea.Cmd {
	api, timeout := c.api, c.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return deletedMsg{id: id, batch: batch, err: api.Delete(ctx, id)}
	}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
