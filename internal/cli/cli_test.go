package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/config"
	"github.com/yildizm/bfhl/internal/emoji"
	"github.com/yildizm/bfhl/internal/formatter"
	"github.com/yildizm/bfhl/internal/logger"
)

const samplePayload = `{"data":["A","1","b","$"]}`

// echoServer answers like the real service, echoing the submitted data
type echoServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
}

func newEchoServer(t *testing.T) *echoServer {
	t.Helper()
	s := &echoServer{}
	s.status.Store(http.StatusOK)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if code := int(s.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		var payload bfhl.Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"is_success": true, "data": payload.Data})
	}))
	t.Cleanup(s.Close)
	return s
}

// writeConfig writes a config file pointing at endpoint
func writeConfig(t *testing.T, endpoint string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "client:\n  endpoint: " + endpoint + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolateEnvironment keeps user config files, .env and BFHL_* variables
// out of a test: the working directory and search paths point at an
// empty temp dir and every known variable is blanked.
func isolateEnvironment(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	saved := config.ConfigPaths
	config.ConfigPaths = []string{filepath.Join(dir, "config.yaml")}
	t.Cleanup(func() { config.ConfigPaths = saved })

	for _, env := range os.Environ() {
		if key, _, ok := strings.Cut(env, "="); ok && strings.HasPrefix(key, "BFHL_") {
			t.Setenv(key, "")
		}
	}
	t.Setenv("NO_COLOR", "")
}

// executeCommand runs the root command with args and stdin, capturing output
func executeCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	isolateEnvironment(t)

	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		logger.SetOutput(nil)
		emoji.SetEmojiDisabled(false)
		globalConfig = nil
	})

	root := NewRootCommand("1.2.3", "abc123", "2026-01-01")
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestSubmitWithDataFlag(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit",
		"--data", samplePayload, "-f", "Alphabets,num", "-o", "json")
	require.NoError(t, err)

	var out formatter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "A,1,b", out.Filtered)
	assert.Equal(t, 200, out.StatusCode)
	assert.Nil(t, out.Error)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestSubmitFromStdin(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	stdout, _, err := executeCommand(t, samplePayload, "--config", cfg, "--no-color", "--no-emoji",
		"submit", "-f", "lower")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Filtered Response")
	assert.Contains(t, stdout, "Highest lowercase alphabet")
	assert.Contains(t, stdout, `"is_success": true`)
}

func TestSubmitFromFile(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	payload := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(payload, []byte(samplePayload), 0o600))

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", payload, "-f", "Numbers", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "| Result | `1` |")
}

func TestSubmitDefaultFiltersFromConfig(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "filters:\n  default: [Alphabets]\n")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-o", "json")
	require.NoError(t, err)

	var out formatter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "A,b", out.Filtered)
}

func TestSubmitNoFiltersKeepsNothing(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-o", "json")
	require.NoError(t, err)

	var out formatter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Empty(t, out.Filtered)
	assert.Empty(t, out.Items)
}

func TestSubmitMalformedInput(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	stdout, stderr, err := executeCommand(t, "", "--config", cfg, "submit", "-d", `{"data":[1,2]}`)
	require.Error(t, err)
	assert.Equal(t, bfhl.MsgMalformedInput, err.Error())
	assert.True(t, bfhl.IsMalformedInput(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, bfhl.MsgMalformedInput)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestSubmitRemoteFailure(t *testing.T) {
	srv := newEchoServer(t)
	srv.status.Store(http.StatusInternalServerError)
	cfg := writeConfig(t, srv.URL, "")

	_, stderr, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-f", "Alphabets")
	require.Error(t, err)
	assert.Equal(t, bfhl.MsgRemoteFailure, err.Error())
	assert.Contains(t, stderr, bfhl.MsgRemoteFailure)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestSubmitJSONErrorOutput(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", "nope", "-o", "json")
	require.Error(t, err)

	var out formatter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.NotNil(t, out.Error)
	assert.Equal(t, bfhl.KindMalformedInput, out.Error.Kind)
}

func TestSubmitUnknownFilter(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	_, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-f", "Symbols")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter(s): Symbols")
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestSubmitUnsupportedFormat(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	_, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-o", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestEndpointFlagOverridesConfig(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, "http://127.0.0.1:1/unused", "")

	_, _, err := executeCommand(t, "", "--config", cfg, "--endpoint", srv.URL, "submit", "-d", samplePayload)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	_, _, err = executeCommand(t, "", "--config", cfg, "--endpoint", "ftp://nowhere", "submit", "-d", samplePayload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --endpoint")
}

func TestSubmitOutputFile(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")
	target := filepath.Join(t.TempDir(), "result.json")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload,
		"-f", "num", "-o", "json", "--output-file", target)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"filtered": "1"`)
}

func TestRootReadsStdinWhenPiped(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "filters:\n  default: [num]\n")

	// go test never runs with a terminal on stdin
	if stdinIsTerminal() {
		t.Skip("stdin is a terminal")
	}

	stdout, _, err := executeCommand(t, samplePayload, "--config", cfg, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"filtered": "1"`)
}

func TestFiltersCommand(t *testing.T) {
	cfg := writeConfig(t, "http://localhost/bfhl", "filters:\n  default: [lower]\n")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "--no-emoji", "filters")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[ ] Alphabets")
	assert.Contains(t, stdout, "[ ] Numbers")
	assert.Contains(t, stdout, "[x] Highest lowercase alphabet")
	assert.Contains(t, stdout, "alias: alpha")
	assert.Contains(t, stdout, "Default selection: Highest lowercase alphabet")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "--config", writeConfig(t, "http://localhost/bfhl", ""), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bfhl 1.2.3 (abc123) built on 2026-01-01")
	assert.Contains(t, stdout, "Go version:")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bfhl.yaml")

	stdout, _, err := executeCommand(t, "", "--no-emoji", "config", "init", "--minimal", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration file created at: "+path)
	assert.FileExists(t, path)

	_, _, err = executeCommand(t, "", "config", "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "", "config", "init", "--output", path, "--force")
	require.NoError(t, err)

	stdout, _, err = executeCommand(t, "", "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration is valid")
	assert.Contains(t, stdout, "Endpoint: https://akshat-bajaj-backend-1.onrender.com/bfhl")
}

func TestConfigValidateReportsErrors(t *testing.T) {
	path := writeConfig(t, "http://localhost/bfhl", "output:\n  default_format: csv\n")

	stdout, _, err := executeCommand(t, "", "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, stdout, "Configuration validation failed")
	assert.Contains(t, stdout, "invalid output format: csv")
}

func TestConfigShow(t *testing.T) {
	path := writeConfig(t, "http://localhost:9000/bfhl", "")

	stdout, _, err := executeCommand(t, "", "--config", path, "config", "show", "--format", "json")
	require.NoError(t, err)

	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	client, ok := shown["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:9000/bfhl", client["endpoint"])

	stdout, _, err = executeCommand(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "endpoint: http://localhost:9000/bfhl")

	_, _, err = executeCommand(t, "", "--config", path, "config", "show", "--format", "toml")
	require.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "--no-emoji", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, stdout, "search paths")
	assert.Contains(t, stdout, "/etc/bfhl/config.yaml")
	assert.Contains(t, stdout, "BFHL_")
}

func TestBrokenConfigFailsSubmit(t *testing.T) {
	path := writeConfig(t, "http://localhost/bfhl", "client:\n  timeout: [bad\n")

	_, _, err := executeCommand(t, "", "--config", path, "submit", "-d", samplePayload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	assert.NoError(t, validateFilePath(file))
	assert.Error(t, validateFilePath(""))
	assert.Error(t, validateFilePath(dir))
	assert.Error(t, validateFilePath(filepath.Join(dir, "missing.json")))
}

func TestTUILogOutput(t *testing.T) {
	t.Cleanup(func() { verbose = false })
	cmd := NewRootCommand("dev", "none", "unknown")

	verbose = false
	w, closeLog := tuiLogOutput(cmd)
	assert.Equal(t, io.Discard, w)
	closeLog()

	t.Setenv("TMPDIR", t.TempDir())
	verbose = true
	w, closeLog = tuiLogOutput(cmd)
	require.NotEqual(t, io.Discard, w)
	_, err := io.WriteString(w, "line\n")
	require.NoError(t, err)
	closeLog()

	data, err := os.ReadFile(tuiLogFile())
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestValidateFilePathAcceptsParentAndDottedNames(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.json"), []byte(samplePayload), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "v1..2.json"), []byte(samplePayload), 0o600))

	t.Chdir(sub)
	assert.NoError(t, validateFilePath("../payload.json"))
	assert.NoError(t, validateFilePath("v1..2.json"))
	assert.Error(t, validateFilePath("../missing.json"))
}

func TestExecuteCommandIgnoresUserEnvironment(t *testing.T) {
	srv := newEchoServer(t)
	cfg := writeConfig(t, srv.URL, "")

	t.Setenv("BFHL_OUTPUT_DEFAULT_FORMAT", "csv")
	t.Setenv("BFHL_FILTERS_DEFAULT", "nope")

	stdout, _, err := executeCommand(t, "", "--config", cfg, "submit", "-d", samplePayload, "-f", "num", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"filtered": "1"`)
}
