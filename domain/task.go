package domain

import "sort"

// Status identifies the board column a task belongs to.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists the four board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Valid reports whether s is one of the four board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Task represents a single board card.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Position    int      `json:"position"`
	Priority    string   `json:"priority,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TaskUpdate carries partial updates for a task. Nil fields are left untouched.
type TaskUpdate struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Position    *int      `json:"position,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Position == nil && u.Priority == nil && u.Assignee == nil &&
		u.DueDate == nil && u.Tags == nil
}

// ProjectColumn returns the tasks belonging to status, sorted ascending by
// position. Equal positions are disambiguated by id so the projection is
// deterministic regardless of input order.
func ProjectColumn(tasks []Task, status Status) []Task {
	col := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			col = append(col, t)
		}
	}
	sort.Slice(col, func(i, j int) bool {
		if col[i].Position != col[j].Position {
			return col[i].Position < col[j].Position
		}
		return col[i].ID < col[j].ID
	})
	return col
}

// NextPosition returns the position a newly created task takes in the given
// column: one past the current maximum, or 0 for an empty column.
func NextPosition(tasks []Task, status Status) int {
	max, found := 0, false
	for _, t := range tasks {
		if t.Status != status {
			continue
		}
		if !found || t.Position > max {
			max = t.Position
			found = true
		}
	}
	if !found {
		return 0
	}
	return max + 1
}
