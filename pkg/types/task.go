package types

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// MaxTitleLength is the longest task title accepted, in characters.
const MaxTitleLength = 150

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Task belongs to a column and holds a position in the column's ranking.
type Task struct {
	TaskID      string     `json:"task_id"`
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Position    int        `json:"position"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks the fields a caller supplies. An empty priority is
// accepted and later defaulted to PriorityMedium.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" || utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrInvalidName
	}
	if t.Priority != "" && !validPriorities[t.Priority] {
		return ErrInvalidPriority
	}
	return nil
}

// SetPriority sets the task priority.
// Returns ErrInvalidPriority if the value is not recognized.
func (t *Task) SetPriority(priority string) error {
	if !validPriorities[priority] {
		return ErrInvalidPriority
	}
	t.Priority = priority
	return nil
}

// TaskEdit carries the non-positional task fields a caller wants to change.
// Nil fields are left untouched.
type TaskEdit struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClearDue    bool       `json:"clear_due_date,omitempty"`
}

// Apply copies the set fields onto t and validates the result.
func (e TaskEdit) Apply(t *Task) error {
	if e.Title != nil {
		t.Title = *e.Title
	}
	if e.Description != nil {
		t.Description = *e.Description
	}
	if e.Priority != nil {
		if err := t.SetPriority(*e.Priority); err != nil {
			return err
		}
	}
	if e.Completed != nil {
		t.Completed = *e.Completed
	}
	if e.ClearDue {
		t.DueDate = nil
	} else if e.DueDate != nil {
		due := *e.DueDate
		t.DueDate = &due
	}
	return t.Validate()
}
