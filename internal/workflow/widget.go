package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/logger"
)

// Widget owns the state of one input/filter/result widget and runs the
// validate, submit, filter pipeline against a Submitter.
type Widget struct {
	submitter bfhl.Submitter
	log       *logger.Logger

	mu         sync.Mutex
	input      string
	selection  *filter.Selection
	lastErr    string
	filtered   string
	response   *bfhl.Response
	inProgress bool
	submitted  int
}

// New creates a widget. A nil logger discards log output.
func New(submitter bfhl.Submitter, log *logger.Logger) *Widget {
	if log == nil {
		log = logger.Nop()
	}
	return &Widget{
		submitter: submitter,
		log:       log,
		selection: filter.NewSelection(),
	}
}

// SetInput replaces the raw JSON text
func (w *Widget) SetInput(input string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.input = input
}

// SetFilters replaces the filter selection
func (w *Widget) SetFilters(ids ...filter.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = filter.NewSelection(ids...)
}

// ToggleFilter flips one filter and reports whether it is now selected
func (w *Widget) ToggleFilter(id filter.ID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Toggle(id)
}

// Snapshot returns a copy of the current state
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Input:      w.input,
		Filters:    w.selection.IDs(),
		Error:      w.lastErr,
		Filtered:   w.filtered,
		Response:   w.response,
		InProgress: w.inProgress,
		Submitted:  w.submitted,
	}
}

// begin claims the in-progress flag and clears the previous error and result.
// It returns the inputs captured for this submission.
func (w *Widget) begin() (input string, ids []filter.ID, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inProgress {
		return "", nil, false
	}
	w.inProgress = true
	w.lastErr = ""
	w.filtered = ""
	w.submitted++
	return w.input, w.selection.IDs(), true
}

// finish publishes the outcome and releases the in-progress flag
func (w *Widget) finish(res *Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inProgress = false
	if res.Response != nil {
		w.response = res.Response
	}
	if res.Err != nil {
		w.lastErr = res.Message()
		w.filtered = ""
		return
	}
	w.filtered = res.Filtered
}

// Submit runs one submission with the current input and filters.
// A call made while another is in flight returns ErrBusy in the result and
// leaves the state untouched.
func (w *Widget) Submit(ctx context.Context) *Result {
	input, ids, ok := w.begin()
	if !ok {
		return &Result{Err: ErrBusy}
	}

	res := &Result{SubmissionID: uuid.NewString(), Filters: ids}
	defer w.finish(res)

	log := w.log.WithComponent("workflow")
	start := time.Now()

	payload, err := bfhl.ParsePayload(input)
	if err != nil {
		log.DebugWithFields("rejected input", []logger.Field{
			logger.F("submission", res.SubmissionID),
			logger.Error(err),
		})
		res.Err = err
		return res
	}

	resp, err := w.submitter.Submit(ctx, payload)
	if err != nil {
		log.ErrorWithFields("remote call failed", []logger.Field{
			logger.F("submission", res.SubmissionID),
			logger.Error(err),
			logger.Duration(time.Since(start)),
		})
		if !bfhl.IsRemoteFailure(err) {
			err = bfhl.NewRemoteFailureError("submit", err)
		}
		res.Err = err
		return res
	}
	res.Response = resp

	if err := applyFilters(res, resp.Strings(payload.Data), ids); err != nil {
		log.ErrorWithFields("filtering failed", []logger.Field{
			logger.F("submission", res.SubmissionID),
			logger.Error(err),
		})
		res.Err = err
		return res
	}

	log.InfoWithFields("submission complete", []logger.Field{
		logger.F("submission", res.SubmissionID),
		logger.F("filters", len(ids)),
		logger.Count(len(res.Items)),
		logger.Duration(time.Since(start)),
	})
	return res
}

// applyFilters fills in the filtered items. A panic in a predicate is
// converted into a remote failure so the widget stays usable.
func applyFilters(res *Result, items []string, ids []filter.ID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = bfhl.NewRemoteFailureError("filtering panicked", fmt.Errorf("%v", r))
		}
	}()
	res.Items, res.Filtered = filter.Run(items, ids)
	return nil
}
