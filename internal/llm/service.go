// Package llm is the boundary to the language model service. The engine
// uses it for two operations only: structured report extraction and
// open-ended reply generation.
package llm

import "context"

// ReportSpec is the raw extraction result for a report request. Values
// come from the model and are untrusted until the report compiler
// validates them against the registry schema.
type ReportSpec struct {
	Filters map[string]any `json:"filtros"`
	Columns []string       `json:"columnas"`
	Limit   *int           `json:"limite,omitempty"`
}

// Service defines the two operations the engine delegates to the model.
type Service interface {
	// ExtractReportSpec sends an extraction prompt and parses the JSON
	// specification out of the response.
	ExtractReportSpec(ctx context.Context, prompt string) (*ReportSpec, error)
	// GenerateReply sends a prompt and returns the model's text.
	GenerateReply(ctx context.Context, prompt string) (string, error)
}
