package model

import "time"

// TaskStatus is the workflow state of a development task.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusInReview   TaskStatus = "In Review"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every valid task status in workflow order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusToDo,
		TaskStatusInProgress,
		TaskStatusInReview,
		TaskStatusCompleted,
	}
}

// Valid reports whether s belongs to the closed task status set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusCompleted:
		return true
	}
	return false
}

// Task is the tasks screen's view model for one work item. Unlike
// tickets, tasks carry a project name and a 0-100 progress figure
// instead of attachments.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	Project        string     `json:"project"`
	Assignee       *Person    `json:"assignee"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Progress       int        `json:"progress"`
	EstimatedHours int        `json:"estimated_hours,omitempty"`
	LoggedHours    int        `json:"logged_hours,omitempty"`
}

// ApplyStatus moves the task to status and snaps progress to the
// workflow boundaries: Completed forces 100, To Do forces 0.
func (t *Task) ApplyStatus(status TaskStatus) {
	t.Status = status
	switch status {
	case TaskStatusCompleted:
		t.Progress = 100
	case TaskStatusToDo:
		t.Progress = 0
	}
}
