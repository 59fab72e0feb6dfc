package errors

import "fmt"

// Diagnostic is a non-fatal condition observed during a run.
// Diagnostics are accumulated so a single run reports every offending
// import once instead of aborting on the first.
type Diagnostic struct {
	Code    Code   // classification, e.g. ErrCodeUnresolvableImport
	Message string // human-readable description
	File    string // originating file location, if known
}

// String formats the diagnostic for log output.
func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.File)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Collector accumulates diagnostics during a run.
// The zero value is ready to use. Collector is not safe for concurrent
// use; the pipeline runs its stages single-threaded.
type Collector struct {
	diags []Diagnostic
}

// Add records a diagnostic with a formatted message.
func (c *Collector) Add(code Code, file, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		File:    file,
	})
}

// All returns the accumulated diagnostics in insertion order.
func (c *Collector) All() []Diagnostic {
	return c.diags
}

// Len returns the number of accumulated diagnostics.
func (c *Collector) Len() int { return len(c.diags) }
