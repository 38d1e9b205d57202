package workflow

import (
	"errors"

	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/filter"
)

// ErrBusy is returned when a submission is attempted while another one is
// still in flight. The attempt is dropped, not queued.
var ErrBusy = errors.New("a submission is already in progress")

// State is a point-in-time copy of the widget state
type State struct {
	Input      string
	Filters    []filter.ID
	Error      string
	Filtered   string
	Response   *bfhl.Response
	InProgress bool
	Submitted  int
}

// ButtonLabel is the label of the submit action for this state
func (s State) ButtonLabel() string {
	if s.InProgress {
		return "Processing..."
	}
	return "Submit"
}

// Result is the outcome of one submission
type Result struct {
	// SubmissionID correlates log lines of one submission
	SubmissionID string `json:"submission_id"`

	Filters  []filter.ID    `json:"filters"`
	Items    []string       `json:"items"`
	Filtered string         `json:"filtered"`
	Response *bfhl.Response `json:"response,omitempty"`

	// Err is nil on success
	Err error `json:"-"`
}

// OK reports whether the submission succeeded
func (r *Result) OK() bool {
	return r.Err == nil
}

// Message returns the user-visible error message, or "" on success
func (r *Result) Message() string {
	if r.Err == nil {
		return ""
	}
	if errors.Is(r.Err, ErrBusy) {
		return ""
	}
	return bfhl.UserMessage(bfhl.KindOf(r.Err))
}
