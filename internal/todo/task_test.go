package todo

import (
	"reflect"
	"testing"
)

func stubToday(t *testing.T, date string) {
	t.Helper()
	orig := today
	today = func() string { return date }
	t.Cleanup(func() { today = orig })
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Task
	}{
		{
			name: "plain task",
			line: "Buy milk",
			want: Task{Text: "Buy milk"},
		},
		{
			name: "completed with dates",
			line: "x 2024-01-20 2024-01-15 Pay rent",
			want: Task{
				Text:           "x 2024-01-20 2024-01-15 Pay rent",
				Completed:      true,
				CompletionDate: "2024-01-20",
				CreationDate:   "2024-01-15",
			},
		},
		{
			name: "priority and creation date",
			line: "(A) 2024-01-15 Important task",
			want: Task{
				Text:         "(A) 2024-01-15 Important task",
				Priority:     "A",
				CreationDate: "2024-01-15",
			},
		},
		{
			name: "bare x without date stays incomplete",
			line: "x do laundry",
			want: Task{Text: "x do laundry"},
		},
		{
			name: "surrounding whitespace trimmed",
			line: "  Buy milk  ",
			want: Task{Text: "Buy milk"},
		},
		{
			name: "priority not recognized past creation date",
			line: "2024-01-15 (A) Task",
			want: Task{
				Text:         "2024-01-15 (A) Task",
				CreationDate: "2024-01-15",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got.Text != tt.want.Text {
				t.Errorf("Text: got %q, want %q", got.Text, tt.want.Text)
			}
			if got.Completed != tt.want.Completed {
				t.Errorf("Completed: got %v, want %v", got.Completed, tt.want.Completed)
			}
			if got.CompletionDate != tt.want.CompletionDate {
				t.Errorf("CompletionDate: got %q, want %q", got.CompletionDate, tt.want.CompletionDate)
			}
			if got.CreationDate != tt.want.CreationDate {
				t.Errorf("CreationDate: got %q, want %q", got.CreationDate, tt.want.CreationDate)
			}
			if got.Priority != tt.want.Priority {
				t.Errorf("Priority: got %q, want %q", got.Priority, tt.want.Priority)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	task := Parse("(B) 2024-01-15 Call +home @phone about +home due:2024-02-01")

	wantProjects := []string{"home", "home"}
	if !reflect.DeepEqual(task.Projects, wantProjects) {
		t.Errorf("Projects: got %v, want %v", task.Projects, wantProjects)
	}
	wantContexts := []string{"phone"}
	if !reflect.DeepEqual(task.Contexts, wantContexts) {
		t.Errorf("Contexts: got %v, want %v", task.Contexts, wantContexts)
	}
	if task.KeyValues["due"] != "2024-02-01" {
		t.Errorf("KeyValues[due]: got %q, want 2024-02-01", task.KeyValues["due"])
	}
}

func TestParseExcludesURLKeyValues(t *testing.T) {
	task := Parse("Read https://example.com/docs note:today")

	if _, ok := task.KeyValues["https"]; ok {
		t.Error("URL token should not become a key-value")
	}
	if task.KeyValues["note"] != "today" {
		t.Errorf("KeyValues[note]: got %q, want today", task.KeyValues["note"])
	}
}

func TestCreate(t *testing.T) {
	stubToday(t, "2024-03-01")

	t.Run("with creation date", func(t *testing.T) {
		task := Create("Buy milk +errands", true)
		if task.Text != "Buy milk +errands" {
			t.Errorf("Text: got %q", task.Text)
		}
		if task.CreationDate != "2024-03-01" {
			t.Errorf("CreationDate: got %q", task.CreationDate)
		}
		if !reflect.DeepEqual(task.Projects, []string{"errands"}) {
			t.Errorf("Projects: got %v", task.Projects)
		}
	})

	t.Run("priority lifted from text", func(t *testing.T) {
		task := Create("(A) Important task", false)
		if task.Priority != "A" {
			t.Errorf("Priority: got %q, want A", task.Priority)
		}
		if task.Text != "Important task" {
			t.Errorf("Text: got %q, want text without priority token", task.Text)
		}
	})

	t.Run("newlines collapsed", func(t *testing.T) {
		task := Create("Task\nwith\r\nnewlines", false)
		if task.Text != "Task with  newlines" {
			t.Errorf("Text: got %q", task.Text)
		}
	})
}

func TestLineForCreatedTasks(t *testing.T) {
	stubToday(t, "2024-03-01")

	tests := []struct {
		name    string
		text    string
		addDate bool
		want    string
	}{
		{"plain with date", "Buy milk", true, "2024-03-01 Buy milk"},
		{"plain without date", "Buy milk", false, "Buy milk"},
		{"priority before date", "(A) Important task", true, "(A) 2024-03-01 Important task"},
		{"tags pass through", "Call +home @phone", false, "Call +home @phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Create(tt.text, tt.addDate).Line()
			if got != tt.want {
				t.Errorf("Line: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreatedTaskRoundTrip(t *testing.T) {
	stubToday(t, "2024-03-01")

	texts := []string{
		"Buy milk",
		"(A) Important task",
		"Call +home @phone due:2024-02-01",
		"(C) Review +work doc @desk",
	}

	for _, text := range texts {
		for _, addDate := range []bool{true, false} {
			created := Create(text, addDate)
			reparsed := Parse(created.Line())

			if reparsed.Priority != created.Priority {
				t.Errorf("%q addDate=%v: priority %q != %q", text, addDate, reparsed.Priority, created.Priority)
			}
			if reparsed.CreationDate != created.CreationDate {
				t.Errorf("%q addDate=%v: creation date %q != %q", text, addDate, reparsed.CreationDate, created.CreationDate)
			}
			if !reflect.DeepEqual(reparsed.Projects, created.Projects) {
				t.Errorf("%q addDate=%v: projects %v != %v", text, addDate, reparsed.Projects, created.Projects)
			}
			if !reflect.DeepEqual(reparsed.Contexts, created.Contexts) {
				t.Errorf("%q addDate=%v: contexts %v != %v", text, addDate, reparsed.Contexts, created.Contexts)
			}
			if !reflect.DeepEqual(reparsed.KeyValues, created.KeyValues) {
				t.Errorf("%q addDate=%v: key-values %v != %v", text, addDate, reparsed.KeyValues, created.KeyValues)
			}
		}
	}
}

func TestParsedLineRoundTrip(t *testing.T) {
	lines := []string{
		"Buy milk",
		"(A) 2024-01-15 Important task",
		"x do laundry",
		"2024-01-15 (A) Task",
		"x 2024-01-20 2024-01-15 Pay rent",
	}

	for _, line := range lines {
		if got := Parse(line).Line(); got != line {
			t.Errorf("Parse(%q).Line(): got %q, want the line unchanged", line, got)
		}
	}
}

func TestMarkComplete(t *testing.T) {
	stubToday(t, "2024-03-02")

	t.Run("idempotent", func(t *testing.T) {
		task := Parse("x 2024-01-20 Done task")
		again := task.MarkComplete()
		if !reflect.DeepEqual(task, again) {
			t.Error("completing a completed task should be a no-op")
		}
	})

	t.Run("sets completion date", func(t *testing.T) {
		done := Parse("Task").MarkComplete()
		if !done.Completed {
			t.Error("Completed: got false")
		}
		if done.CompletionDate != "2024-03-02" {
			t.Errorf("CompletionDate: got %q", done.CompletionDate)
		}
	})

	t.Run("folds priority into pri key", func(t *testing.T) {
		done := Parse("(A) Important task").MarkComplete()
		if done.Priority != "" {
			t.Errorf("Priority: got %q, want cleared", done.Priority)
		}
		if done.KeyValues["pri"] != "A" {
			t.Errorf("KeyValues[pri]: got %q, want A", done.KeyValues["pri"])
		}
	})

	t.Run("preserves creation date", func(t *testing.T) {
		done := Parse("2024-01-15 Task").MarkComplete()
		if done.CreationDate != "2024-01-15" {
			t.Errorf("CreationDate: got %q", done.CreationDate)
		}
	})
}

func TestLineForCompletedParsedTasks(t *testing.T) {
	stubToday(t, "2024-03-02")

	tests := []struct {
		name string
		line string
		want string
	}{
		{"plain", "Task", "x 2024-03-02 Task"},
		{"creation date kept after completion date", "2024-01-15 Task", "x 2024-03-02 2024-01-15 Task"},
		{"priority folded", "(A) Important task", "x 2024-03-02 Important task pri:A"},
		{"priority and creation date", "(B) 2024-01-15 Task", "x 2024-03-02 2024-01-15 Task pri:B"},
		{"existing pri token not duplicated", "(B) Task pri:B", "x 2024-03-02 Task pri:B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line).MarkComplete().Line()
			if got != tt.want {
				t.Errorf("Line: got %q, want %q", got, tt.want)
			}
		})
	}
}
