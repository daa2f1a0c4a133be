package model

import (
	"fmt"
	"strings"
)

// Todo is the domain model for a todo entry owned by one user.
// The server assigns ID; identity is the ID alone.
type Todo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// User is the authenticated owner of a todo list.
type User struct {
	ID int `json:"id"`
}

// Filter selects a subset of todos for display.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter accepts all|active|completed in any case; empty means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Match reports whether t belongs to the filtered view.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next cycles All -> Active -> Completed -> All.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// Apply returns the todos matching f in their original order.
// The input slice is never modified.
func Apply(todos []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// CompletedIDs returns the ids of completed todos in list order.
func CompletedIDs(todos []Todo) []int {
	var ids []int
	for _, t := range todos {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Counts returns how many todos are still active and how many are completed.
func Counts(todos []Todo) (active, completed int) {
	for _, t := range todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return
}

// Without returns todos minus every entry whose id is in ids.
func Without(todos []Todo, ids map[int]bool) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if !ids[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// IndexOf returns the position of id in todos, or -1.
func IndexOf(todos []Todo, id int) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
