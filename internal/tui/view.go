package tui

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/ui"
)

func (m Model) View() string {
	t := ui.Current()
	st := m.ctrl.State()

	var b strings.Builder
	b.WriteString(ui.Summary(st.Todos))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	for i, todo := range st.Visible() {
		prefix := "  "
		if i == m.cursor && !m.typing {
			prefix = t.Selected.Render(">") + " "
		}
		b.WriteString(prefix + ui.TodoLine(todo, st.IsPending(todo.ID)) + "\n")
	}
	if st.Adding() {
		label := strings.TrimSpace(st.Title)
		if label == "" {
			label = "adding"
		}
		b.WriteString("  " + t.Pending.Render(t.Busy) + " " + t.Muted.Render(label) + "\n")
	}

	if len(st.Todos) > 0 {
		footer := ui.ItemsLeft(st.Todos) + "   " + ui.FilterTabs(st.Filter)
		if st.HasCompleted() {
			footer += "   " + t.Muted.Render("c: clear completed")
		}
		b.WriteString("\n" + footer + "\n")
	}

	if st.Err != "" {
		b.WriteString("\n" + t.Error.Render(t.SymCross+" "+st.Err) + " " + t.Muted.Render("(esc)") + "\n")
	}

	b.WriteString("\n" + t.Help.Render(m.help.View(m.keys)))
	return ui.PanelString(b.String())
}
