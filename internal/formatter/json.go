package formatter

import (
	"encoding/json"

	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/workflow"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the machine readable form of a submission
type JSONOutput struct {
	SubmissionID string          `json:"submission_id,omitempty"`
	Filters      []filter.ID     `json:"filters"`
	Items        []string        `json:"items"`
	Filtered     string          `json:"filtered"`
	StatusCode   int             `json:"status_code,omitempty"`
	Response     json.RawMessage `json:"response,omitempty"`
	Error        *ErrorOutput    `json:"error,omitempty"`
}

// ErrorOutput describes a failed submission
type ErrorOutput struct {
	Kind    bfhl.ErrorKind `json:"kind"`
	Message string         `json:"message"`
}

func (f *jsonFormatter) Format(result *workflow.Result) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}

	output := &JSONOutput{
		SubmissionID: result.SubmissionID,
		Filters:      result.Filters,
		Items:        result.Items,
		Filtered:     result.Filtered,
	}
	if output.Filters == nil {
		output.Filters = []filter.ID{}
	}
	if output.Items == nil {
		output.Items = []string{}
	}

	if result.Response != nil {
		output.StatusCode = result.Response.StatusCode
		if len(result.Response.Raw) > 0 {
			output.Response = result.Response.Raw
		}
	}

	if !result.OK() {
		output.Error = &ErrorOutput{
			Kind:    bfhl.KindOf(result.Err),
			Message: result.Message(),
		}
	}

	return json.MarshalIndent(output, "", "  ")
}
