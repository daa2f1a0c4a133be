package todolist

import (
	"sort"

	"github.com/Makepad-fr/tada/internal/model"
)

// User-facing error messages. A load failure shows the error itself.
const (
	ErrTitleRequired  = "Title should not be empty"
	ErrUnableToAdd    = "Unable to add a todo"
	ErrUnableToDelete = "Unable to delete a todo"
)

// State is a read-only snapshot of the controller.
type State struct {
	Todos  []model.Todo
	Filter model.Filter
	Title  string
	Err    string

	adding  int
	pending map[int]bool
}

// Adding reports whether a create request is in flight.
func (s State) Adding() bool { return s.adding > 0 }

// Visible is Todos narrowed by Filter.
func (s State) Visible() []model.Todo { return model.Apply(s.Todos, s.Filter) }

// IsPending reports whether a delete for id is in flight.
func (s State) IsPending(id int) bool { return s.pending[id] }

// Pending returns the ids with a delete in flight, ascending.
func (s State) Pending() []int {
	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Counts returns how many todos are active and completed.
func (s State) Counts() (active, completed int) { return model.Counts(s.Todos) }

// HasCompleted reports whether "clear completed" has anything to do.
func (s State) HasCompleted() bool {
	_, completed := s.Counts()
	return completed > 0
}

// markPending returns a copy of the pending set with ids added.
// Copies keep earlier Controller values unaffected.
func (s State) markPending(ids ...int) map[int]bool {
	out := make(map[int]bool, len(s.pending)+len(ids))
	for id := range s.pending {
		out[id] = true
	}
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// settlePending returns a copy of the pending set without id.
func (s State) settlePending(id int) map[int]bool {
	out := make(map[int]bool, len(s.pending))
	for k := range s.pending {
		if k != id {
			out[k] = true
		}
	}
	return out
}
