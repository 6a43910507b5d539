package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaviewer/pkg/config"
	"instaviewer/pkg/instagram"
)

func TestParseTabs(t *testing.T) {
	tabs, err := parseTabs("all")
	require.NoError(t, err)
	assert.Equal(t, instagram.Categories, tabs)

	tabs, err = parseTabs("Reels")
	require.NoError(t, err)
	assert.Equal(t, []instagram.Category{instagram.CategoryReels}, tabs)

	_, err = parseTabs("igtv")
	assert.Error(t, err)
}

func TestRedactedHidesPassphrase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Passphrase = "hunter2"

	out := redacted(cfg)
	assert.Equal(t, "********", out.History.Passphrase)
	assert.Equal(t, "hunter2", cfg.History.Passphrase)

	cfg.History.Passphrase = ""
	assert.Empty(t, redacted(cfg).History.Passphrase)
}

func TestDownloadFlagsOnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "download"}
	var out string
	var n int
	cmd.Flags().StringVarP(&out, "output", "o", "", "")
	cmd.Flags().IntVar(&n, "concurrent", 3, "")
	cmd.Flags().IntVar(&n, "rate-limit", 60, "")
	cmd.Flags().Bool("metadata", true, "")
	cmd.Flags().StringVar(&limiterKind, "limiter", "", "")

	require.NoError(t, cmd.Flags().Parse([]string{"--output", "/tmp/media", "--limiter", "window"}))
	outputDir = out

	flags := downloadFlags(cmd)
	assert.Equal(t, map[string]interface{}{"output": "/tmp/media", "limiter": "window"}, flags)
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"view", "download", "history", "popular", "config", "version"} {
		assert.True(t, names[want], want)
	}
}
