package tui

import "github.com/ondrejk/taskwell/internal/task"

type tasksLoadedMsg struct {
	tasks []task.Task
}

type fetchFailedMsg struct {
	err error
}

type taskSavedMsg struct {
	task task.Task
}

type taskDeletedMsg struct {
	id string
}

type taskToggledMsg struct {
	task task.Task
}

type errMsg struct {
	err error
}
