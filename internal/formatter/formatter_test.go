package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/workflow"
)

func successResult() *workflow.Result {
	return &workflow.Result{
		SubmissionID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Filters:      []filter.ID{filter.Alphabets, filter.Numbers},
		Items:        []string{"A", "1", "b"},
		Filtered:     "A,1,b",
		Response: &bfhl.Response{
			StatusCode: 200,
			Raw:        json.RawMessage(`{"is_success":true,"data":["A","1","b","$"]}`),
		},
	}
}

func failedResult(err error) *workflow.Result {
	return &workflow.Result{SubmissionID: "x", Err: err}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "json", "JSON", "markdown", "md"} {
		f, err := New(format, Options{})
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("csv", Options{})
	assert.EqualError(t, err, "unsupported output format: csv")
}

func TestFormattersRejectNil(t *testing.T) {
	for _, f := range []Formatter{NewTerminal(Options{}), NewJSON(), NewMarkdown()} {
		_, err := f.Format(nil)
		assert.Error(t, err)
	}
}

func TestJSONFormatterSuccess(t *testing.T) {
	out, err := NewJSON().Format(successResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "A,1,b", decoded["filtered"])
	assert.Equal(t, []any{"Alphabets", "Numbers"}, decoded["filters"])
	assert.Equal(t, []any{"A", "1", "b"}, decoded["items"])
	assert.Equal(t, float64(200), decoded["status_code"])
	assert.NotContains(t, decoded, "error")

	response, ok := decoded["response"].(map[string]any)
	require.True(t, ok, "response should be embedded as JSON, got %T", decoded["response"])
	assert.Equal(t, true, response["is_success"])
}

func TestJSONFormatterEmptySelection(t *testing.T) {
	out, err := NewJSON().Format(&workflow.Result{Response: &bfhl.Response{StatusCode: 204}})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"filters": []`)
	assert.Contains(t, s, `"items": []`)
	assert.Contains(t, s, `"filtered": ""`)
	assert.NotContains(t, s, `"response"`)
}

func TestJSONFormatterError(t *testing.T) {
	out, err := NewJSON().Format(failedResult(bfhl.NewMalformedInputError("data must be an array", nil)))
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.NotNil(t, decoded.Error)
	assert.Equal(t, bfhl.KindMalformedInput, decoded.Error.Kind)
	assert.Equal(t, bfhl.MsgMalformedInput, decoded.Error.Message)
}

func TestTerminalFormatterSuccess(t *testing.T) {
	out, err := NewTerminal(Options{Emoji: false}).Format(successResult())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Filtered Response")
	assert.Contains(t, s, "A,1,b")
	assert.Contains(t, s, "Alphabets, Numbers")
	assert.Contains(t, s, "API Response (HTTP 200)")
	assert.Contains(t, s, `"is_success": true`)
	assert.Less(t, strings.Index(s, "Filtered Response"), strings.Index(s, "API Response"))
}

func TestTerminalFormatterError(t *testing.T) {
	out, err := NewTerminal(Options{}).Format(failedResult(bfhl.NewStatusError(500, "boom")))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, bfhl.MsgRemoteFailure)
	assert.NotContains(t, s, "Filtered Response")
	assert.NotContains(t, s, "boom")
}

func TestTerminalFormatterEmptyBody(t *testing.T) {
	res := &workflow.Result{Response: &bfhl.Response{StatusCode: 204}}
	out, err := NewTerminal(Options{}).Format(res)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "(nothing matched)")
	assert.Contains(t, s, "(empty body)")
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown().Format(successResult())
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "# BFHL Submission\n"))
	assert.Contains(t, s, "| Result | `A,1,b` |")
	assert.Contains(t, s, "| Matched | 3 |")
	assert.Contains(t, s, "```json\n{\n  \"is_success\": true,")
	assert.True(t, strings.HasSuffix(s, "```\n"))
}

func TestMarkdownFormatterError(t *testing.T) {
	out, err := NewMarkdown().Format(failedResult(bfhl.NewRemoteFailureError("dial", nil)))
	require.NoError(t, err)
	assert.Contains(t, string(out), "> "+bfhl.MsgRemoteFailure)
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a\|b`, escapeCell("a|b"))
	assert.Equal(t, "none", filterList(nil))
}
