package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ondrejk/taskwell/internal/task"
)

// dateLayout is what the scheduled-on input accepts.
const dateLayout = "2006-01-02 15:04"

// taskForm is the inline create/edit form shown in "form" mode.
type taskForm struct {
	inputs   []textinput.Model
	focusIdx int
	editID   string // empty when creating
}

const (
	fieldTitle = iota
	fieldDescription
	fieldScheduledOn
)

func newTaskForm() *taskForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 250
	title.Width = 60
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.Width = 60

	when := textinput.New()
	when.Placeholder = "YYYY-MM-DD HH:MM"
	when.CharLimit = len(dateLayout)
	when.Width = 60

	return &taskForm{inputs: []textinput.Model{title, desc, when}}
}

// newEditForm pre-fills the form from an existing mirrored task.
func newEditForm(t task.Task) *taskForm {
	f := newTaskForm()
	f.editID = t.ID
	f.inputs[fieldTitle].SetValue(t.Title)
	f.inputs[fieldDescription].SetValue(t.Description)
	f.inputs[fieldScheduledOn].SetValue(t.ScheduledOn.Local().Format(dateLayout))
	return f
}

// Update moves focus on tab/up/down and forwards everything else to the
// focused input.
func (f *taskForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focusIdx + 1) % len(f.inputs))
			return nil
		case "shift+tab", "up":
			f.setFocus((f.focusIdx + len(f.inputs) - 1) % len(f.inputs))
			return nil
		}
	}

	var cmds []tea.Cmd
	for i := range f.inputs {
		var cmd tea.Cmd
		f.inputs[i], cmd = f.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f *taskForm) setFocus(idx int) {
	f.focusIdx = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// FormData validates the inputs and returns the payload to submit. Failed
// validation keeps the user's input in place for retry.
func (f *taskForm) FormData() (task.FormData, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return task.FormData{}, errors.New("title is required")
	}
	when, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.inputs[fieldScheduledOn].Value()), time.Local)
	if err != nil {
		return task.FormData{}, errors.New("scheduled on must be YYYY-MM-DD HH:MM")
	}
	return task.FormData{
		Title:       title,
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		ScheduledOn: when,
	}, nil
}

func (f *taskForm) View() string {
	var b strings.Builder
	heading := "New task"
	if f.editID != "" {
		heading = "Edit task"
	}
	b.WriteString("  " + formTitleStyle.Render(heading) + "\n\n")
	labels := []string{"Title", "Description", "Scheduled on"}
	for i, in := range f.inputs {
		b.WriteString("  " + formLabelStyle.Render(labels[i]) + "\n")
		b.WriteString("  " + in.View() + "\n")
	}
	b.WriteString("\n  " + helpStyle.Render("Enter:save | Esc:cancel | Tab:next field") + "\n")
	return b.String()
}
