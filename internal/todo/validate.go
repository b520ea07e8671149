package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ImportTask is one entry of a JSON task import payload.
type ImportTask struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls import validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file. If empty or missing,
	// validation uses only minimal fallback checks.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

var importPriorityRe = regexp.MustCompile(`^[A-Z]$`)

// ParseImport decodes and validates a JSON array of import tasks.
// Validation failures are returned in the result, not as an error; the
// error return is reserved for undecodable JSON.
func ParseImport(data []byte, opts ValidationOptions) ([]ImportTask, *ValidationResult, error) {
	var tasks []ImportTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, nil, fmt.Errorf("parse import file: %w", err)
	}

	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if opts.SchemaPath != "" {
		validateImportWithSchema(data, opts.SchemaPath, result)
		if result.UsedSchema {
			return tasks, result, nil
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	validateImportMinimal(tasks, result)
	return tasks, result, nil
}

// validateImportMinimal performs minimal validation without JSON Schema.
func validateImportMinimal(tasks []ImportTask, result *ValidationResult) {
	for i, task := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if task.Text == "" {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".text",
				Err:  fmt.Errorf("missing required field"),
			})
			continue
		}
		if task.Priority != "" && !importPriorityRe.MatchString(task.Priority) {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".priority",
				Err:  fmt.Errorf("must be a single uppercase letter, got %q", task.Priority),
			})
		}
	}
}

// validateImportWithSchema attempts JSON Schema validation of the raw
// payload. Schema problems degrade to warnings so a broken schema never
// blocks an import.
func validateImportWithSchema(data []byte, schemaPath string, result *ValidationResult) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return
	}

	result.UsedSchema = true

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return
	}

	if err := schema.Validate(payload); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: err.InstanceLocation,
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
