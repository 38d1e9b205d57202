package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/bfhl/internal/logger"
	"github.com/yildizm/bfhl/internal/ui"
)

type tuiOptions struct {
	data    string
	filters []string
}

func newTUICommand() *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive widget",
		Long: `Open the interactive widget: a JSON input, a Submit button, the
multi-select filter list and the filtered and raw response panes.

Keys: tab/shift+tab move focus, ctrl+s submits, space toggles a filter,
pgup/pgdown scroll the response, ctrl+c quits.`,
		Example: `  bfhl tui
  bfhl tui --data '{"data":["A","1","b"]}' --filter Alphabets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "prefill the JSON input")
	cmd.Flags().StringSliceVarP(&opts.filters, "filter", "f", nil, "preselect filters (default from config)")

	return cmd
}

func runTUI(cmd *cobra.Command, opts tuiOptions) error {
	ids, err := resolveFilters(cmd, opts.filters)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen
	logOut, closeLog := tuiLogOutput(cmd)
	logger.SetOutput(logOut)
	defer func() {
		logger.SetOutput(nil)
		closeLog()
	}()

	widget, err := newWidget(GetGlobalConfig().ClientSettings())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ui.Run(ctx, widget, ui.Options{Input: opts.data, Filters: ids}); err != nil {
		return fmt.Errorf("interactive widget failed: %w", err)
	}
	return nil
}

// tuiLogFile is where verbose logs go while the widget owns the terminal
func tuiLogFile() string {
	return filepath.Join(os.TempDir(), "bfhl.log")
}

// tuiLogOutput returns the log sink for a TUI session. Logs are dropped
// unless verbose, in which case they are appended to tuiLogFile.
func tuiLogOutput(cmd *cobra.Command) (io.Writer, func()) {
	if !isVerbose() {
		return io.Discard, func() {}
	}

	path := tuiLogFile()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: cannot open log file %s: %v\n", path, err)
		return io.Discard, func() {}
	}

	logger.SetNoColor(true)
	return f, func() {
		logger.SetNoColor(noColor)
		_ = f.Close()
	}
}
