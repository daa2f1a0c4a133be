package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todolist"
	"github.com/Makepad-fr/tada/internal/ui"
)

// controller resolves the session and builds a controller against the API.
func controller(opt Options) (todolist.Controller, error) {
	s, err := auth.Require()
	if err != nil {
		return todolist.Controller{}, err
	}
	if s.Expired(time.Now()) {
		opt.Logger.Warn("session token expired; requests may be rejected", "user", s.UserID)
	}
	client, err := api.New(opt.Config.APIURL,
		api.WithToken(s.Token),
		api.WithLogger(opt.Logger),
	)
	if err != nil {
		return todolist.Controller{}, err
	}
	return todolist.New(client, s.User(),
		todolist.WithLogger(opt.Logger),
		todolist.WithTimeout(opt.Config.Timeout),
	), nil
}

// load builds a controller and waits for the initial list.
func load(ctx context.Context, opt Options) (todolist.Controller, bool) {
	c, err := controller(opt)
	if err != nil {
		ui.Fail(err.Error())
		return c, false
	}
	c, err = todolist.Start(ctx, c)
	if err != nil {
		ui.Fail("load: " + err.Error())
		return c, false
	}
	if msg := c.State().Err; msg != "" {
		ui.Fail("load: " + msg)
		return c, false
	}
	return c, true
}

func doList(ctx context.Context, args []string, opt Options) int {
	filter := opt.Config.DefaultFilter()
	if len(args) == 1 {
		f, err := model.ParseFilter(args[0])
		if err != nil {
			return usage("todo ls [all|active|completed]: " + err.Error())
		}
		filter = f
	}

	c, ok := load(ctx, opt)
	if !ok {
		return ExitError
	}
	c, _ = c.Update(todolist.SetFilterMsg{Filter: filter})
	ui.Panel(ui.Stdout(), listLines(c.State(), opt.Config.Group))
	return ExitOK
}

func doAdd(ctx context.Context, title string, opt Options) int {
	c, err := controller(opt)
	if err != nil {
		ui.Fail(err.Error())
		return ExitError
	}
	c, _ = c.Update(todolist.SetTitleMsg{Title: title})
	c, err = todolist.Dispatch(ctx, c, todolist.SubmitMsg{})
	if err != nil {
		ui.Fail("add: " + err.Error())
		return ExitError
	}

	st := c.State()
	switch st.Err {
	case "":
	case todolist.ErrTitleRequired:
		ui.Fail("add: " + st.Err)
		return ExitUsage
	default:
		ui.Fail(st.Err)
		return ExitError
	}
	if len(st.Todos) == 0 {
		ui.Fail(todolist.ErrUnableToAdd)
		return ExitError
	}
	added := st.Todos[len(st.Todos)-1]
	ui.OK(fmt.Sprintf("added #%d", added.ID))
	return ExitOK
}

func doRemove(ctx context.Context, id int, opt Options) int {
	c, ok := load(ctx, opt)
	if !ok {
		return ExitError
	}
	if model.IndexOf(c.State().Todos, id) < 0 {
		ui.Fail(fmt.Sprintf("no todo #%d", id))
		ui.Hint("Hint: run `todo ls` to see valid ids")
		return ExitError
	}

	c, err := todolist.Dispatch(ctx, c, todolist.RemoveMsg{ID: id})
	if err != nil {
		ui.Fail("rm: " + err.Error())
		return ExitError
	}
	if msg := c.State().Err; msg != "" {
		ui.Fail(msg)
		return ExitError
	}
	ui.OK(fmt.Sprintf("removed #%d", id))
	return ExitOK
}

func doClear(ctx context.Context, opt Options) int {
	c, ok := load(ctx, opt)
	if !ok {
		return ExitError
	}
	if !c.State().HasCompleted() {
		ui.Info("nothing to clear")
		return ExitOK
	}

	before := len(c.State().Todos)
	c, err := todolist.Dispatch(ctx, c, todolist.ClearCompletedMsg{})
	if err != nil {
		ui.Fail("clear: " + err.Error())
		return ExitError
	}
	st := c.State()
	removed := before - len(st.Todos)
	if st.Err != "" {
		_, left := st.Counts()
		ui.Fail(fmt.Sprintf("%s (%d deleted, %d left)", st.Err, removed, left))
		return ExitError
	}
	ui.OK(fmt.Sprintf("cleared %d completed", removed))
	return ExitOK
}

func doTUI(opt Options) int {
	c, err := controller(opt)
	if err != nil {
		ui.Fail(err.Error())
		return ExitError
	}
	c, _ = c.Update(todolist.SetFilterMsg{Filter: opt.Config.DefaultFilter()})
	if _, err := opt.Interactive(c); err != nil {
		ui.Fail("tui: " + err.Error())
		return ExitError
	}
	return ExitOK
}

// listLines renders the `ls` panel body.
func listLines(st todolist.State, group bool) []string {
	t := ui.Current()
	active, completed := st.Counts()

	lines := []string{
		ui.Summary(st.Todos),
		t.Muted.Render(ui.ProgressBar(completed, active+completed, 28)),
		"",
	}
	visible := st.Visible()
	if group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	lines = append(lines, "")
	if len(st.Todos) > 0 {
		lines = append(lines, ui.ItemsLeft(st.Todos)+"   "+ui.FilterTabs(st.Filter))
	} else {
		lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	}
	return lines
}

func flatLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.Current().Muted.Render("no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, todo := range todos {
		out = append(out, ui.TodoLine(todo, false))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	var lines []string
	for i, f := range []model.Filter{model.FilterActive, model.FilterCompleted} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(groupTitle(f)))
		part := model.Apply(todos, f)
		if len(part) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
			continue
		}
		lines = append(lines, flatLines(part)...)
	}
	return lines
}

func groupTitle(f model.Filter) string {
	if f == model.FilterCompleted {
		return "Completed"
	}
	return "Active"
}
