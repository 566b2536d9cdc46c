// Package task holds the client-side mirror of the remote task collection.
package task

import "time"

// Task is a single scheduled task. The canonical copy lives on the server;
// the client only ever holds mirrored entries with server-assigned IDs.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	ScheduledOn time.Time `json:"scheduled_on"`
}

// FormData is the user-editable subset of a task, sent on create and update.
type FormData struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledOn time.Time `json:"scheduled_on"`
}

// Service is the remote task API as seen by the store. The HTTP client
// implements it; tests substitute an in-memory fake.
type Service interface {
	ListTasks() ([]Task, error)
	CreateTask(form FormData) (Task, error)
	UpdateTask(id string, form FormData) (Task, error)
	DeleteTask(id string) error
	MarkComplete(id string) (Task, error)
}
