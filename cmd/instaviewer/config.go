package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"instaviewer/pkg/config"
	"instaviewer/pkg/ui"
)

const defaultConfigPath = ".instaviewer.yaml"

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Configuration is read in this order, later sources winning:
defaults, the YAML config file, .env files, INSTAVIEWER_* environment
variables and finally command-line flags.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Config written to " + path)
	ui.PrintInfo("Edit it, then check it with", "instaviewer config validate")
	return nil
}

// redacted returns a copy of cfg that is safe to print
func redacted(cfg *config.Config) config.Config {
	out := *cfg
	if out.History.Passphrase != "" {
		out.History.Passphrase = "********"
	}
	return out
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(redacted(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		ui.PrintError("Configuration is invalid")
		// errors.Join separates problems with newlines
		var cause error = err
		if u := errors.Unwrap(err); u != nil {
			cause = u
		}
		for _, line := range strings.Split(cause.Error(), "\n") {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", line)
		}
		return errors.New("validation failed")
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("API", cfg.API.BaseURL)
	ui.PrintInfo("History backend", cfg.History.Backend)
	ui.PrintInfo("Output directory", cfg.Download.OutputDir)
	return nil
}
