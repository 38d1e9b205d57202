package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/bfhl/internal/emoji"
	"github.com/yildizm/bfhl/internal/formatter"
	"github.com/yildizm/bfhl/internal/workflow"
)

// watchDebounce coalesces the burst of events an editor save produces
const watchDebounce = 150 * time.Millisecond

type watchOptions struct {
	filters []string
}

func newWatchCommand() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Resubmit a payload file whenever it changes",
		Long: `Submit a payload file once, then watch it and submit again every time it
is saved. Each result is printed as it arrives. Press Ctrl+C to stop watching.

The parent directory is watched so editors that replace the file on save
are followed.`,
		Example: `  bfhl watch payload.json -f Alphabets
  bfhl watch payload.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.filters, "filter", "f", nil, "filter to apply (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, filename string, opts watchOptions) error {
	if err := validateFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	ids, err := resolveFilters(cmd, opts.filters)
	if err != nil {
		return err
	}

	f, err := newFormatter("")
	if err != nil {
		return err
	}

	widget, err := newWidget(GetGlobalConfig().ClientSettings())
	if err != nil {
		return err
	}
	widget.SetFilters(ids...)

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(cmd, watcher)

	// Set up signal handling for graceful shutdown
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s, press Ctrl+C to stop...\n", emoji.GetEmoji("watch"), filename)
	}

	w := &payloadWatcher{
		path:      filepath.Clean(filename),
		widget:    widget,
		formatter: f,
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
		debounce:  watchDebounce,
	}
	w.submit(ctx)
	return w.run(ctx, watcher)
}

// payloadWatcher resubmits one payload file on change
type payloadWatcher struct {
	path      string
	widget    *workflow.Widget
	formatter formatter.Formatter
	out       io.Writer
	errOut    io.Writer
	debounce  time.Duration
}

// run consumes watcher events until ctx is done
func (w *payloadWatcher) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(w.errOut, "\nStopped watching %s\n", w.path)
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if w.relevant(event) {
				pending = time.After(w.debounce)
			}

		case <-pending:
			pending = nil
			w.submit(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fmt.Fprintf(w.errOut, "%s Watcher error: %v\n", emoji.GetEmoji("warning"), err)
		}
	}
}

// relevant reports whether event changed the watched file's content
func (w *payloadWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// submit reads the file and runs one submission, printing the outcome
func (w *payloadWatcher) submit(ctx context.Context) {
	input, err := readInputFile(w.path)
	if err != nil {
		fmt.Fprintf(w.errOut, "%s %v\n", emoji.GetEmoji("warning"), err)
		return
	}

	w.widget.SetInput(input)
	result := w.widget.Submit(ctx)
	if errors.Is(result.Err, workflow.ErrBusy) {
		return
	}

	if !result.OK() {
		fmt.Fprintf(w.errOut, "%s %s\n", emoji.GetEmoji("error"), result.Message())
		return
	}

	out, err := w.formatter.Format(result)
	if err != nil {
		fmt.Fprintf(w.errOut, "%s failed to format result: %v\n", emoji.GetEmoji("error"), err)
		return
	}
	_, _ = w.out.Write(out)
}

// createWatcher watches the directory holding filename
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filepath.Clean(filename))); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher closes watcher, reporting failures in verbose mode
func cleanupWatcher(cmd *cobra.Command, watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close watcher: %v\n", err)
	}
}
