package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/bfhl/internal/bfhl/client"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/formatter"
	"github.com/yildizm/bfhl/internal/logger"
	"github.com/yildizm/bfhl/internal/workflow"
)

// maxInputBytes bounds payloads read from files or stdin
const maxInputBytes = 10 << 20

type submitOptions struct {
	data       string
	filters    []string
	timeout    time.Duration
	outputFile string
}

// submissionError reports a failed submission with its user-facing message
type submissionError struct {
	result *workflow.Result
}

func (e *submissionError) Error() string {
	return e.result.Message()
}

func (e *submissionError) Unwrap() error {
	return e.result.Err
}

func newSubmitCommand() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "Submit a payload once and print the filtered result",
		Long: `Validate a {"data": [...]} payload, post it to the service and print the
comma-joined items that pass the selected filters along with the raw response.

The payload comes from --data, a file argument, or stdin, in that order.
Filters combine with OR; with no filter selected nothing is kept.`,
		Example: `  bfhl submit --data '{"data":["A","1","b"]}' --filter Alphabets
  bfhl submit payload.json -f num -f lower
  echo '{"data":["z","9"]}' | bfhl submit -f "Alphabets,Numbers" -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON payload text")
	cmd.Flags().StringSliceVarP(&opts.filters, "filter", "f", nil, "filter to apply (repeatable or comma separated; default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "request deadline (default from config, 0 waits for the transport)")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runSubmit(cmd *cobra.Command, args []string, opts submitOptions) error {
	cfg := GetGlobalConfig()

	input, err := resolveInput(cmd, args, opts.data)
	if err != nil {
		return err
	}

	ids, err := resolveFilters(cmd, opts.filters)
	if err != nil {
		return err
	}

	f, err := newFormatter(opts.outputFile)
	if err != nil {
		return err
	}

	settings := cfg.ClientSettings()
	if flag := cmd.Flags().Lookup("timeout"); flag != nil && flag.Changed {
		settings.Timeout = opts.timeout
	}

	widget, err := newWidget(settings)
	if err != nil {
		return err
	}
	widget.SetInput(input)
	widget.SetFilters(ids...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result := widget.Submit(ctx)

	if err := writeResult(cmd, f, result, opts.outputFile); err != nil {
		return err
	}
	if !result.OK() {
		return &submissionError{result: result}
	}
	return nil
}

// newWidget wires a service client and logger into a workflow widget
func newWidget(settings *client.Config) (*workflow.Widget, error) {
	log := logger.NewWithCallback("bfhl", isVerbose)
	c, err := client.New(settings, client.WithLogger(log))
	if err != nil {
		return nil, err
	}
	log.Debug("using endpoint %s", c.Endpoint())
	return workflow.New(c, log), nil
}

// resolveInput picks the payload text from --data, a file, or stdin
func resolveInput(cmd *cobra.Command, args []string, data string) (string, error) {
	if data != "" {
		return data, nil
	}

	if len(args) > 0 {
		return readInputFile(args[0])
	}

	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Reading payload from stdin...\n")
	}
	raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(raw), nil
}

func readInputFile(filename string) (string, error) {
	if err := validateFilePath(filename); err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	cleanPath := filepath.Clean(filename)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	if info.Size() > maxInputBytes {
		return "", fmt.Errorf("file %s is larger than %d bytes", filename, maxInputBytes)
	}

	// #nosec G304 - path is validated above
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(raw), nil
}

// resolveFilters normalizes --filter values, falling back to the configured defaults
func resolveFilters(cmd *cobra.Command, values []string) ([]filter.ID, error) {
	if flag := cmd.Flags().Lookup("filter"); flag == nil || !flag.Changed {
		values = GetGlobalConfig().Filters.Default
	}

	sel, unknown := filter.ParseSelection(values)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown filter(s): %s (run 'bfhl filters' to list them)", strings.Join(unknown, ", "))
	}
	return sel.IDs(), nil
}

// newFormatter builds the formatter selected by --output
func newFormatter(outputFile string) (formatter.Formatter, error) {
	return formatter.New(getOutputFormat(), formatter.Options{
		Color: !noColor && outputFile == "",
		Emoji: !isEmojiDisabled(),
	})
}

// writeResult formats result to stdout or a file. Failures in text and
// markdown output are left to the returned error so they land on stderr.
func writeResult(cmd *cobra.Command, f formatter.Formatter, result *workflow.Result, outputFile string) error {
	if !result.OK() && !strings.EqualFold(getOutputFormat(), formatter.FormatJSON) {
		return nil
	}

	out, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, out, 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if isVerbose() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Output written to %s\n", outputFile)
		}
		return nil
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// validateFilePath rejects empty paths, missing files and directories
func validateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, must be a file")
	}
	return nil
}
