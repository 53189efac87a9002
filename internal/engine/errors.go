package engine

import "fmt"

// SchemaError reports a dataset whose columns cannot support the engine at
// all: the identifier column is missing. It is unrecoverable for the
// session; callers must surface it and stop issuing engine calls against
// the dataset.
type SchemaError struct {
	Missing string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset schema: required column %q is missing", e.Missing)
}

// ConfigurationError reports caller parameters inconsistent with the
// dataset's classification, such as aggregation without a grouping column
// or a metric outside the classified metric columns. Recoverable: the
// caller should reprompt for valid parameters. The engine never substitutes
// a default instead of returning this error.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Param, e.Reason)
}

// ValidationError reports malformed or empty user-supplied query input.
// Recoverable: the caller should reprompt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}
