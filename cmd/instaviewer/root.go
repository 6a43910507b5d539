package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"instaviewer/pkg/logger"
	"instaviewer/pkg/ui"
	"instaviewer/pkg/ui/tui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile     string
	logLevel       string
	logFile        string
	apiURL         string
	historyBackend string
	noColor        bool
	notifications  bool
)

// rootCmd starts the interactive viewer
var rootCmd = &cobra.Command{
	Use:   "instaviewer [username]",
	Short: "Browse public Instagram profiles from the terminal",
	Long: `InstaViewer looks up public Instagram profiles through the InstaViewer data
API and shows their stories, posts, reels and highlights.

Run without a subcommand to open the interactive viewer. The optional
username argument is searched as soon as it starts.`,
	Example: `  # Open the interactive viewer
  instaviewer

  # Open the viewer on a profile
  instaviewer natgeo

  # Print a profile and its posts without the interactive UI
  instaviewer view natgeo --tab posts`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Version = version
		if noColor || !ui.IsTerminal(os.Stdout) {
			ui.SetColor(false)
		}
	},
	RunE: runInteractive,
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("Error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.instaviewer.yaml or ~/.config/instaviewer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of the data API")
	rootCmd.PersistentFlags().StringVar(&historyBackend, "history-backend", "", "recent search storage (file, encrypted, keyring, sqlite, none)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "show notices for failed requests")

	rootCmd.SetVersionTemplate(`InstaViewer {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdout) || !ui.IsTerminal(os.Stdin) {
		return fmt.Errorf("the interactive viewer needs a terminal; use 'instaviewer view <username>' instead")
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var username string
	if len(args) == 1 {
		username = args[0]
	}

	a.log.Info("Starting interactive viewer")
	t := tui.NewTUI(cmd.Context(), tui.Options{
		Fetcher:  a.client,
		History:  a.history,
		Logger:   a.log,
		BaseURL:  a.client.BaseURL(),
		Username: username,
	})
	return t.Start()
}
