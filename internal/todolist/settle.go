package todolist

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Settle runs cmd and every command it leads to, reducing each result
// through Update on the calling goroutine, and returns once no command is
// outstanding. Commands inside a tea.BatchMsg run concurrently and their
// results are applied in arrival order, as bubbletea's runtime does.
//
// If ctx ends first the controller is returned as of the last applied
// message together with ctx.Err().
func Settle(ctx context.Context, c Controller, cmd tea.Cmd) (Controller, error) {
	msgs := make(chan tea.Msg)
	outstanding := 0

	run := func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		outstanding++
		go func() {
			msg := cmd()
			select {
			case msgs <- msg:
			case <-ctx.Done():
			}
		}()
	}

	run(cmd)
	for outstanding > 0 {
		select {
		case <-ctx.Done():
			return c, ctx.Err()
		case msg := <-msgs:
			outstanding--
			switch msg := msg.(type) {
			case nil:
			case tea.BatchMsg:
				for _, sub := range msg {
					run(sub)
				}
			default:
				var next tea.Cmd
				c, next = c.Update(msg)
				run(next)
			}
		}
	}
	return c, nil
}

// Start loads the initial list and waits for it.
func Start(ctx context.Context, c Controller) (Controller, error) {
	return Settle(ctx, c, c.Init())
}

// Dispatch applies msg and waits for every resulting API call to settle.
func Dispatch(ctx context.Context, c Controller, msg tea.Msg) (Controller, error) {
	c, cmd := c.Update(msg)
	return Settle(ctx, c, cmd)
}
