package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tasq-sh/tasq/internal/todo"
)

func (a *app) taskCommand(ctx context.Context, args []string) error {
	sub, rest := splitCommand(args)
	switch sub {
	case "in":
		return a.taskIn(rest)
	case "next":
		return a.taskNext()
	case "done":
		return a.taskDone()
	case "list":
		return a.taskList(rest)
	case "skip":
		return a.taskSkip()
	case "import":
		return a.taskImport(rest)
	case "":
		fmt.Fprintln(a.stderr, "Usage: tasq task <in|next|done|list|skip|import>")
		return errExit
	default:
		fmt.Fprintf(a.stderr, "Unknown task command: %s\n", sub)
		return fmt.Errorf("unknown task command: %s", sub)
	}
}

// taskIn adds a new task to the end of the queue.
func (a *app) taskIn(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "Usage: tasq task in TEXT")
		return errExit
	}
	text := strings.Join(args, " ")

	task := todo.Create(text, true)
	file := a.todoFile()
	if err := file.Append(task); err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}

	line := task.Line()
	if a.jsonOut {
		return a.printJSON(map[string]string{
			"added": line,
			"file":  file.Path(),
		})
	}
	fmt.Fprintf(a.stdout, "Added: %s\n", line)
	return nil
}

// taskNext shows the first incomplete task without modifying the file.
func (a *app) taskNext() error {
	file := a.todoFile()

	if !file.Exists() {
		if a.jsonOut {
			_ = a.printJSON(map[string]string{"error": "No tasks found", "file": file.Path()})
		} else {
			fmt.Fprintln(a.stdout, "No tasks found (file does not exist)")
		}
		return errExit
	}

	entry, err := file.NextIncomplete()
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}
	if entry == nil {
		if a.jsonOut {
			_ = a.printJSON(map[string]string{"error": "No incomplete tasks", "file": file.Path()})
		} else {
			fmt.Fprintln(a.stdout, "No incomplete tasks")
		}
		return errExit
	}

	if a.jsonOut {
		return a.printJSON(struct {
			Index int `json:"index"`
			todo.Task
		}{Index: entry.Index, Task: entry.Task})
	}
	fmt.Fprintln(a.stdout, entry.Task.Text)
	return nil
}

// taskDone marks the first incomplete task as complete.
func (a *app) taskDone() error {
	file := a.todoFile()

	if !file.Exists() {
		fmt.Fprintln(a.stderr, "No tasks found (file does not exist)")
		return errExit
	}

	entry, err := file.NextIncomplete()
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}
	if entry == nil {
		fmt.Fprintln(a.stderr, "No incomplete tasks")
		return errExit
	}

	completed, err := file.CompleteAt(entry.Index)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}

	if a.jsonOut {
		return a.printJSON(map[string]any{
			"completed": completed.Line(),
			"original":  entry.Task.Text,
			"index":     entry.Index,
		})
	}
	fmt.Fprintf(a.stdout, "Done: %s\n", completed.Line())
	return nil
}

// taskList prints tasks in queue order. The order is never changed; what
// you see is the queue.
func (a *app) taskList(args []string) error {
	fs := flag.NewFlagSet("tasq task list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var showAll, completed bool
	fs.BoolVar(&showAll, "all", false, "Include completed tasks")
	fs.BoolVar(&showAll, "a", false, "Include completed tasks (shorthand)")
	fs.BoolVar(&completed, "completed", false, "Show only completed tasks")
	fs.BoolVar(&completed, "c", false, "Show only completed tasks (shorthand)")
	var limit int
	fs.IntVar(&limit, "limit", 0, "Maximum number of tasks to display")
	fs.IntVar(&limit, "n", 0, "Maximum number of tasks to display (shorthand)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	file := a.todoFile()
	entries, err := file.ListWithIndices()
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}

	filtered := entries[:0:0]
	for _, e := range entries {
		switch {
		case completed:
			if e.Task.Completed {
				filtered = append(filtered, e)
			}
		case showAll:
			filtered = append(filtered, e)
		default:
			if !e.Task.Completed {
				filtered = append(filtered, e)
			}
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	if a.jsonOut {
		type listEntry struct {
			Index int    `json:"index"`
			Raw   string `json:"raw"`
			todo.Task
		}
		out := make([]listEntry, 0, len(filtered))
		for _, e := range filtered {
			out = append(out, listEntry{Index: e.Index, Raw: e.Raw, Task: e.Task})
		}
		return a.printJSON(out)
	}

	for _, e := range filtered {
		fmt.Fprintf(a.stdout, "[%d] %s\n", e.Index, e.Raw)
	}
	return nil
}

// taskSkip moves the first incomplete task behind the other incomplete
// tasks, keeping the completed block at the tail.
func (a *app) taskSkip() error {
	file := a.todoFile()

	if !file.Exists() {
		if a.jsonOut {
			_ = a.printJSON(map[string]any{"moved": false, "error": "No tasks found (file does not exist)"})
		} else {
			fmt.Fprintln(a.stderr, "No tasks found (file does not exist)")
		}
		return errExit
	}

	res, err := file.SkipFirstIncomplete()
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path(), err)
	}
	if res == nil {
		if a.jsonOut {
			_ = a.printJSON(map[string]any{"moved": false, "error": "No incomplete tasks to skip"})
		} else {
			fmt.Fprintln(a.stderr, "No incomplete tasks to skip")
		}
		return errExit
	}

	if a.jsonOut {
		return a.printJSON(map[string]any{
			"moved":      true,
			"from_index": res.FromIndex,
			"to_index":   res.ToIndex,
			"raw":        res.Raw,
		})
	}
	fmt.Fprintf(a.stdout, "Skipped: [%d] → [%d] %s\n", res.FromIndex, res.ToIndex, res.Raw)
	return nil
}

// taskImport appends tasks from a JSON file. The payload is an array of
// {"text": ..., "priority": ...} objects, validated against the
// configured schema when one is set.
func (a *app) taskImport(args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "Usage: tasq task import FILE")
		return errExit
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	tasks, result, err := todo.ParseImport(data, todo.ValidationOptions{
		SchemaPath: a.settings.SchemaFile,
	})
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		a.logger.Debug(w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(a.stderr, "invalid import: %s\n", e)
		}
		return errExit
	}

	file := a.todoFile()
	added := make([]string, 0, len(tasks))
	for _, it := range tasks {
		text := it.Text
		if it.Priority != "" {
			text = fmt.Sprintf("(%s) %s", it.Priority, text)
		}
		task := todo.Create(text, true)
		if err := file.Append(task); err != nil {
			return fmt.Errorf("%s: %w", file.Path(), err)
		}
		added = append(added, task.Line())
	}

	if a.jsonOut {
		return a.printJSON(map[string]any{
			"imported": len(added),
			"added":    added,
			"file":     file.Path(),
		})
	}
	fmt.Fprintf(a.stdout, "Imported %d tasks\n", len(added))
	return nil
}
