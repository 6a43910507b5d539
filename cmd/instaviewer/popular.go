package main

import (
	"os"

	"github.com/spf13/cobra"

	"instaviewer/pkg/instagram"
	"instaviewer/pkg/ui"
)

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List suggested profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.RenderPopular(os.Stdout, instagram.PopularProfiles)
	},
}

func init() {
	rootCmd.AddCommand(popularCmd)
}
