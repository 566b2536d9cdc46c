package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ondrejk/taskwell/internal/task"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskAgendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show tasks grouped by calendar day",
	RunE:  runTaskAgenda,
}

// dateLayout is what --on accepts.
const dateLayout = "2006-01-02 15:04"

var (
	taskTitle string
	taskDesc  string
	taskOn    string
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskEditCmd, taskRmCmd, taskDoneCmd, taskAgendaCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskOn, "on", "", `Scheduled time, "YYYY-MM-DD HH:MM" (required)`)
	taskAddCmd.MarkFlagRequired("title")
	taskAddCmd.MarkFlagRequired("on")

	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&taskDesc, "desc", "", "New description")
	taskEditCmd.Flags().StringVar(&taskOn, "on", "", `New scheduled time, "YYYY-MM-DD HH:MM"`)
}

// taskStore opens the keyring, gates the command on a valid session, and
// returns a store with the mirror already fetched.
func taskStore() (*task.Store, func(), error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, nil, err
	}
	client := newClient(ring)
	if err := requireAuth(ring, client); err != nil {
		ring.Close()
		return nil, nil, err
	}
	store := newStore(client)
	if err := store.EnsureFetched(); err != nil {
		ring.Close()
		return nil, nil, err
	}
	return store, func() { ring.Close() }, nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	tasks := store.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tSCHEDULED\tTITLE")
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n",
			truncateID(t.ID), mark, t.ScheduledOn.Local().Format(dateLayout), truncate(t.Title, 40))
	}
	return w.Flush()
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	when, err := time.ParseInLocation(dateLayout, taskOn, time.Local)
	if err != nil {
		return fmt.Errorf(`--on must be "YYYY-MM-DD HH:MM"`)
	}

	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	created, err := store.Create(task.FormData{
		Title:       taskTitle,
		Description: taskDesc,
		ScheduledOn: when,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created task %s\n", truncateID(created.ID))
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}
	current, _ := store.Get(id)

	form := task.FormData{
		Title:       current.Title,
		Description: current.Description,
		ScheduledOn: current.ScheduledOn,
	}
	if cmd.Flags().Changed("title") {
		form.Title = taskTitle
	}
	if cmd.Flags().Changed("desc") {
		form.Description = taskDesc
	}
	if cmd.Flags().Changed("on") {
		when, err := time.ParseInLocation(dateLayout, taskOn, time.Local)
		if err != nil {
			return fmt.Errorf(`--on must be "YYYY-MM-DD HH:MM"`)
		}
		form.ScheduledOn = when
	}

	updated, err := store.Update(id, form)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s\n", truncateID(updated.ID))
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}
	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", truncateID(id))
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}
	toggled, err := store.ToggleCompletion(id)
	if err != nil {
		return err
	}
	state := "open"
	if toggled.IsCompleted {
		state = "done"
	}
	fmt.Printf("Task %s is now %s\n", truncateID(toggled.ID), state)
	return nil
}

func runTaskAgenda(cmd *cobra.Command, args []string) error {
	store, done, err := taskStore()
	if err != nil {
		return err
	}
	defer done()

	days := task.GroupByDay(store.Tasks())
	if len(days) == 0 {
		fmt.Println("Nothing scheduled")
		return nil
	}
	for _, day := range days {
		fmt.Println(day.Date.Format("Mon 02 Jan 2006"))
		for _, t := range day.Tasks {
			mark := " "
			if t.IsCompleted {
				mark = "x"
			}
			fmt.Printf("  [%s] %s  %s\n", mark, t.ScheduledOn.Local().Format("15:04"), t.Title)
		}
	}
	return nil
}

// resolveID accepts a full id or an unambiguous prefix.
func resolveID(store *task.Store, arg string) (string, error) {
	if _, ok := store.Get(arg); ok {
		return arg, nil
	}
	var match string
	for _, t := range store.Tasks() {
		if len(arg) >= 4 && len(t.ID) >= len(arg) && t.ID[:len(arg)] == arg {
			if match != "" {
				return "", fmt.Errorf("task id prefix %q is ambiguous", arg)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no task with id %q", arg)
	}
	return match, nil
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to at most n runes; byte slicing would mangle
// multi-byte titles.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
