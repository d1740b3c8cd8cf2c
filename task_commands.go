package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/sadopc/focusbuddy/internal/focus"
	"github.com/spf13/cobra"
)

const taskTitleWidth = 48

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task list",
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withSession(runTaskAdd),
}

var taskAddPriority string

// task list
var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    withSession(runTaskList),
}

var (
	taskListStatus   string
	taskListPriority string
	taskListQuery    string
)

// task done
var taskDoneCmd = &cobra.Command{
	Use:   "done <ref>",
	Short: "Toggle a task between done and not done",
	Long: `Toggle a task between done and not done.

<ref> is the task's position in "task list", its id, or a unique id prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(runTaskDone),
}

// task edit
var taskEditCmd = &cobra.Command{
	Use:   "edit <ref>",
	Short: "Change a task's title or priority",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runTaskEdit),
}

var (
	taskEditTitle    string
	taskEditPriority string
)

// task rm
var taskRmCmd = &cobra.Command{
	Use:     "rm <ref>",
	Short:   "Delete a task",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    withSession(runTaskRm),
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskEditCmd, taskRmCmd)

	taskAddCmd.Flags().StringVarP(&taskAddPriority, "priority", "p", string(focus.PriorityNormal), "Priority (normal, high)")

	taskListCmd.Flags().StringVar(&taskListStatus, "status", string(focus.TasksAll), "Filter by status (all, active, completed)")
	taskListCmd.Flags().StringVarP(&taskListPriority, "priority", "p", "", "Filter by priority (normal, high)")
	taskListCmd.Flags().StringVarP(&taskListQuery, "query", "q", "", "Filter by title substring")

	taskEditCmd.Flags().StringVar(&taskEditTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVarP(&taskEditPriority, "priority", "p", "", "New priority (normal, high)")
}

func runTaskAdd(cmd *cobra.Command, args []string, s *session) error {
	prio, err := focus.ParsePriority(taskAddPriority)
	if err != nil {
		return err
	}
	t, err := s.ctl.AddTask(strings.Join(args, " "), prio)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", shortID(t.ID), t.Title)
	return nil
}

func parseTaskStatus(s string) (focus.TaskStatus, error) {
	switch st := focus.TaskStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case focus.TasksAll, focus.TasksActive, focus.TasksCompleted:
		return st, nil
	case "":
		return focus.TasksAll, nil
	}
	return "", fmt.Errorf("unknown status %q (want all, active or completed)", s)
}

func runTaskList(cmd *cobra.Command, _ []string, s *session) error {
	status, err := parseTaskStatus(taskListStatus)
	if err != nil {
		return err
	}
	filter := focus.TaskFilter{Status: status, Query: taskListQuery}
	if taskListPriority != "" {
		if filter.Priority, err = focus.ParsePriority(taskListPriority); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	tasks := s.ctl.Tasks(filter)
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	// Positions refer to the unfiltered list so they can be passed back as refs.
	pos := make(map[string]int)
	for i, t := range s.ctl.Tasks(focus.TaskFilter{}) {
		pos[t.ID] = i + 1
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tDONE\tPRIORITY\tTITLE\tCREATED")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t%s\t[%s]\t%s\t%s\t%s\n",
			pos[t.ID], shortID(t.ID), done, t.Priority,
			truncate.StringWithTail(t.Title, taskTitleWidth, "…"),
			humanize.Time(t.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	done, total, pct := s.ctl.TaskProgress()
	fmt.Fprintf(out, "\n%d/%d done (%d%%)\n", done, total, pct)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string, s *session) error {
	id, err := s.ctl.ResolveTask(args[0])
	if err != nil {
		return err
	}
	t, err := s.ctl.ToggleTask(id)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", t.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Reopened %q\n", t.Title)
	}
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string, s *session) error {
	var patch focus.TaskPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &taskEditTitle
	}
	if cmd.Flags().Changed("priority") {
		prio, err := focus.ParsePriority(taskEditPriority)
		if err != nil {
			return err
		}
		patch.Priority = &prio
	}
	if patch.Title == nil && patch.Priority == nil {
		return errors.New("nothing to change: pass --title or --priority")
	}

	id, err := s.ctl.ResolveTask(args[0])
	if err != nil {
		return err
	}
	t, err := s.ctl.EditTask(id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q (%s)\n", shortID(t.ID), t.Title, t.Priority)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string, s *session) error {
	id, err := s.ctl.ResolveTask(args[0])
	if err != nil {
		return err
	}
	if err := s.ctl.DeleteTask(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
	return nil
}

// shortID is the first eight characters of a task id, enough to pass
// back as a prefix reference.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
