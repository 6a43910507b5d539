package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"instaviewer/pkg/config"
	"instaviewer/pkg/history"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/logger"
	"instaviewer/pkg/ui"
	"instaviewer/pkg/viewer"
)

// app bundles what every command needs
type app struct {
	cfg      *config.Config
	log      logger.Logger
	client   *instagram.Client
	history  *history.Recent
	notifier *ui.Notifier
}

// globalFlags collects the persistent flags the user actually set
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	if changed("log-file") {
		flags["log-file"] = logFile
	}
	if changed("api-url") {
		flags["api-url"] = apiURL
	}
	if changed("history-backend") {
		flags["history-backend"] = historyBackend
	}
	if changed("notifications") {
		flags["notifications"] = notifications
	}
	return flags
}

// loadConfig merges defaults, files, environment and flags
func loadConfig(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	flags := globalFlags(cmd)
	for k, v := range extra {
		flags[k] = v
	}
	return config.Load(configFile, flags)
}

// newApp loads configuration and wires the client, history and notifier.
// Interactive mode keeps logs off the screen unless a log file is set.
func newApp(cmd *cobra.Command, interactive bool, extra ...map[string]interface{}) (*app, error) {
	var flags map[string]interface{}
	if len(extra) > 0 {
		flags = extra[0]
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}

	var log logger.Logger
	if interactive && cfg.Logging.File == "" {
		log, err = logger.NewWithWriter(&cfg.Logging, io.Discard)
	} else {
		log, err = logger.New(&cfg.Logging)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   instagram.NewClient(&cfg.API, log),
		history:  history.Open(&cfg.History, log),
		notifier: ui.NewNotifier(cfg.Notifications),
	}, nil
}

// session returns a viewer session wired to the app
func (a *app) session() *viewer.Session {
	return viewer.NewSession(viewer.Runner{
		Fetcher:  a.client,
		History:  a.history,
		Notifier: a.notifier,
		Logger:   a.log,
	})
}

// Close releases the history backend
func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.log.WithError(err).Debug("failed to close history")
	}
}
