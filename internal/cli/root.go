package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/bfhl/internal/config"
	"github.com/yildizm/bfhl/internal/emoji"
	"github.com/yildizm/bfhl/internal/logger"
	"github.com/yildizm/bfhl/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	endpoint  string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bfhl",
		Short: "Submit JSON string arrays to the BFHL service and filter the reply",
		Long: `bfhl posts a {"data": [...]} payload to the BFHL service, shows the raw
response and a comma-joined view of the items that pass the selected filters
(Alphabets, Numbers, Highest lowercase alphabet).

Run without arguments on a terminal to open the interactive widget, or pipe
a payload on stdin to submit it once.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			return initGlobalConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdinIsTerminal() {
				return runTUI(cmd, tuiOptions{})
			}
			return runSubmit(cmd, nil, submitOptions{})
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "service URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newSubmitCommand())
	rootCmd.AddCommand(newTUICommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newFiltersCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// initGlobalConfig loads the configuration and lets explicit flags win over it
func initGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("verbose") {
		verbose = cfg.Output.Verbose
	}
	if !flags.Changed("no-emoji") && cfg.Output.NoEmoji {
		noEmoji = true
	}
	if !flags.Changed("output") {
		outputFmt = cfg.Output.DefaultFormat
	}
	if !flags.Changed("no-color") {
		noColor = cfg.Output.ColorMode == "never" || os.Getenv("NO_COLOR") != ""
	}
	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --endpoint: %w", err)
		}
	}

	emoji.SetEmojiDisabled(noEmoji)
	logger.SetNoColor(noColor)
	ui.SetThemeByName(cfg.UI.Theme)

	globalConfig = cfg
	return nil
}

// GetGlobalConfig returns the loaded configuration, or the defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bfhl %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

func isEmojiDisabled() bool {
	return noEmoji
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
