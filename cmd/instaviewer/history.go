package main

import (
	"os"

	"github.com/spf13/cobra"

	"instaviewer/pkg/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recent searches",
	Long: `The five most recent searches are kept so they can be picked again from the
search dropdown. Where they are stored is set by history.backend in the
configuration (file, encrypted, keyring, sqlite or none).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ui.RenderHistory(os.Stdout, a.history.Read())
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		a.history.Clear()
		ui.PrintSuccess("Recent searches cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
