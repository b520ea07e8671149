// Package todo parses and formats todo.txt task lines.
//
// The line grammar follows the todo.txt conventions:
//
//	["x" SP date SP] ["(" A-Z ")" SP] [date SP] description
//
// where dates are YYYY-MM-DD and the description may contain +project,
// @context, and key:value tokens anywhere. Parsing is total: a line that
// matches none of the prefixes becomes a task whose Text is the trimmed
// line with no structured fields set.
//
// # Completion detection
//
// A line is completed only when "x" is followed by whitespace and a date.
// A bare "x do laundry" is an ordinary incomplete task whose description
// starts with the letter x. This matches the reference grammar and is
// covered by tests; do not "fix" it.
//
// # Two task origins
//
// Tasks parsed from a file keep the entire trimmed line in Text, including
// any completion/priority/date prefixes. Tasks built with Create keep only
// the clean description. The origin is recorded on the Task itself so that
// Line can decide whether prefixes must be re-stripped before serializing,
// instead of guessing from the text shape.
package todo
