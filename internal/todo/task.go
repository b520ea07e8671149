package todo

import (
	"regexp"
	"strings"
	"time"
)

var (
	completedRe = regexp.MustCompile(`^x\s+(\d{4}-\d{2}-\d{2})\s+`)
	priorityRe  = regexp.MustCompile(`^\(([A-Z])\)\s+`)
	dateRe      = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+`)
	projectRe   = regexp.MustCompile(`\+(\S+)`)
	contextRe   = regexp.MustCompile(`@(\S+)`)
	keyValueRe  = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*):(\S+)$`)
)

// Task represents a single todo.txt task line.
//
// For tasks built by Parse, Text holds the full trimmed line including any
// leading completion/priority/date tokens. For tasks built by Create, Text
// holds only the description (the creation date is a serialization concern,
// not stored content).
type Task struct {
	Text           string            `json:"text"`
	Completed      bool              `json:"completed"`
	CompletionDate string            `json:"completion_date,omitempty"`
	CreationDate   string            `json:"creation_date,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	Projects       []string          `json:"projects,omitempty"`
	Contexts       []string          `json:"contexts,omitempty"`
	KeyValues      map[string]string `json:"key_values,omitempty"`

	// rawText records that Text still carries the original line prefixes
	// (Parse origin) rather than a clean description (Create origin).
	rawText bool
}

// today returns the current date in todo.txt form.
var today = func() string {
	return time.Now().Format("2006-01-02")
}

// Parse parses a todo.txt line into a Task. It never fails: an unparseable
// line yields a Task with no structured fields and Text set to the trimmed
// line.
func Parse(line string) Task {
	trimmed := strings.TrimSpace(line)
	remaining := trimmed

	t := Task{Text: trimmed, rawText: true}

	if m := completedRe.FindStringSubmatch(remaining); m != nil {
		t.Completed = true
		t.CompletionDate = m[1]
		remaining = remaining[len(m[0]):]
	}
	if m := priorityRe.FindStringSubmatch(remaining); m != nil {
		t.Priority = m[1]
		remaining = remaining[len(m[0]):]
	}
	if m := dateRe.FindStringSubmatch(remaining); m != nil {
		t.CreationDate = m[1]
		remaining = remaining[len(m[0]):]
	}

	t.Projects, t.Contexts, t.KeyValues = extractTags(remaining)
	return t
}

// Create builds a new incomplete task from free-form text. Embedded
// newlines are collapsed to spaces so the task stays a single line. A
// leading "(X) " token is lifted into Priority and removed from the stored
// text. When addCreationDate is true the task serializes with today's date.
func Create(text string, addCreationDate bool) Task {
	clean := strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
	clean = strings.TrimSpace(clean)

	t := Task{Text: clean}
	if m := priorityRe.FindStringSubmatch(clean); m != nil {
		t.Priority = m[1]
		t.Text = clean[len(m[0]):]
	}
	if addCreationDate {
		t.CreationDate = today()
	}

	t.Projects, t.Contexts, t.KeyValues = extractTags(t.Text)
	return t
}

// MarkComplete returns a copy of the task marked complete with today's
// completion date. The priority is cleared and folded into a pri:X
// key-value. Completing an already completed task is a no-op.
func (t Task) MarkComplete() Task {
	if t.Completed {
		return t
	}

	kv := make(map[string]string, len(t.KeyValues)+1)
	for k, v := range t.KeyValues {
		kv[k] = v
	}
	if t.Priority != "" {
		kv["pri"] = t.Priority
	}

	done := t
	done.Completed = true
	done.CompletionDate = today()
	done.Priority = ""
	done.KeyValues = kv
	return done
}

// Line serializes the task back to its todo.txt form.
//
// Field order is: "x <completion-date>" when completed, then the priority
// (incomplete tasks only), then the creation date, then the description.
// Tasks that originate from Parse carry the whole original line in Text,
// so the description is re-extracted by stripping the leading tokens; the
// folded pri:X token is appended when not already present.
func (t Task) Line() string {
	if t.rawText {
		// An incomplete parsed line already carries its prefixes in Text;
		// emit it verbatim.
		if !t.Completed || t.CompletionDate == "" {
			return t.Text
		}
		parts := []string{"x " + t.CompletionDate}
		if t.CreationDate != "" {
			parts = append(parts, t.CreationDate)
		}
		desc := stripPrefixes(t.Text)
		parts = append(parts, desc)
		if pri, ok := t.KeyValues["pri"]; ok && !strings.Contains(desc, "pri:"+pri) {
			parts = append(parts, "pri:"+pri)
		}
		return strings.Join(parts, " ")
	}

	var parts []string
	if t.Completed && t.CompletionDate != "" {
		parts = append(parts, "x "+t.CompletionDate)
	}
	if t.Priority != "" && !t.Completed {
		parts = append(parts, "("+t.Priority+")")
	}
	if t.CreationDate != "" {
		parts = append(parts, t.CreationDate)
	}
	parts = append(parts, t.Text)
	if t.Completed {
		if pri, ok := t.KeyValues["pri"]; ok {
			parts = append(parts, "pri:"+pri)
		}
	}
	return strings.Join(parts, " ")
}

// stripPrefixes removes the completion marker, priority, and creation date
// tokens from the front of a raw line, leaving the description.
func stripPrefixes(text string) string {
	remaining := text
	if m := completedRe.FindString(remaining); m != "" {
		remaining = remaining[len(m):]
	}
	if m := priorityRe.FindString(remaining); m != "" {
		remaining = remaining[len(m):]
	}
	if m := dateRe.FindString(remaining); m != "" {
		remaining = remaining[len(m):]
	}
	return strings.TrimSpace(remaining)
}

// extractTags scans the description for +project, @context, and key:value
// tokens. Tokens stay part of the description; this only collects them.
// A key:value must span a whole whitespace-delimited token, and tokens
// containing "://" are URLs, not key-values.
func extractTags(text string) (projects, contexts []string, keyValues map[string]string) {
	for _, m := range projectRe.FindAllStringSubmatch(text, -1) {
		projects = append(projects, m[1])
	}
	for _, m := range contextRe.FindAllStringSubmatch(text, -1) {
		contexts = append(contexts, m[1])
	}

	keyValues = make(map[string]string)
	for _, field := range strings.Fields(text) {
		if strings.Contains(field, "://") {
			continue
		}
		if m := keyValueRe.FindStringSubmatch(field); m != nil {
			keyValues[m[1]] = m[2]
		}
	}
	return projects, contexts, keyValues
}
