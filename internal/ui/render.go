package ui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

const maxTitle = 80

// TodoLine renders "<box> <title>  #id" for one todo. Pending rows carry
// the busy marker in place of the box.
func TodoLine(todo model.Todo, pending bool) string {
	t := Current()
	title := todo.Title
	if len([]rune(title)) > maxTitle {
		title = string([]rune(title)[:maxTitle-3]) + "..."
	}

	box := t.Muted.Render(t.BoxUnchecked)
	if todo.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	if pending {
		box = t.Pending.Render(t.Busy)
	}
	return fmt.Sprintf("%s %s  %s", box, title, t.Muted.Render(fmt.Sprintf("#%d", todo.ID)))
}

// Summary renders the header counts "Todos  ✔ 2  • 1  Total 3".
func Summary(todos []model.Todo) string {
	t := Current()
	active, completed := model.Counts(todos)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), completed,
		t.Pending.Render(t.SymActive), active,
		t.Accent.Render("Total"), len(todos),
	)
}

// ItemsLeft renders the footer counter, "1 item left" / "3 items left".
func ItemsLeft(todos []model.Todo) string {
	active, _ := model.Counts(todos)
	if active == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", active)
}

// FilterTabs renders "all | active | completed" with the selected one accented.
func FilterTabs(selected model.Filter) string {
	t := Current()
	out := ""
	for i, f := range model.Filters {
		if i > 0 {
			out += t.Muted.Render(" | ")
		}
		if f == selected {
			out += t.Accent.Render("[" + f.String() + "]")
		} else {
			out += t.Muted.Render(f.String())
		}
	}
	return out
}
