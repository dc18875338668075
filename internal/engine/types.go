package engine

import (
	"fmt"

	"github.com/danieljhkim/dateplan/internal/plan"
)

// ViewResult is a snapshot of the active plan.
type ViewResult struct {
	// Date is the plan's date
	Date plan.Date `json:"date"`

	// Tasks in plan order
	Tasks []string `json:"tasks"`
}

// Empty reports whether the plan has no tasks.
func (v *ViewResult) Empty() bool {
	return len(v.Tasks) == 0
}

// Lines renders the tasks as a 1-indexed listing ("1. Buy milk").
func (v *ViewResult) Lines() []string {
	lines := make([]string, len(v.Tasks))
	for i, task := range v.Tasks {
		lines[i] = fmt.Sprintf("%d. %s", i+1, task)
	}
	return lines
}

// MoveResult describes a task moved between plans.
type MoveResult struct {
	Task string    `json:"task"`
	From plan.Date `json:"from"`
	To   plan.Date `json:"to"`
}

// ChangeDateResult describes a plan moved to a new date.
type ChangeDateResult struct {
	From plan.Date `json:"from"`
	To   plan.Date `json:"to"`

	// Tasks is the number of tasks carried over
	Tasks int `json:"tasks"`

	// Replaced is the number of tasks that were already at the target date
	// and have been overwritten
	Replaced int `json:"replaced"`
}
