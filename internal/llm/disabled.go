package llm

import "context"

type disabled struct{}

// NewDisabled returns a Service whose operations always fail with
// ErrNotConfigured. Used when no API key is configured so the rest of
// the assistant keeps working with degraded replies.
func NewDisabled() Service {
	return disabled{}
}

func (disabled) ExtractReportSpec(context.Context, string) (*ReportSpec, error) {
	return nil, ErrNotConfigured
}

func (disabled) GenerateReply(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
