package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	errs "instaviewer/pkg/errors"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/ui"
	"instaviewer/pkg/viewer"
)

var (
	viewTab  string
	viewJSON bool
)

// viewCmd prints a profile and one or more tabs
var viewCmd = &cobra.Command{
	Use:   "view <username>",
	Short: "Print a profile and its content",
	Long: `Look up a public profile and print its details followed by the content of
the selected tab. Stories are loaded together with the profile; other tabs
are fetched on request.`,
	Example: `  instaviewer view natgeo
  instaviewer view @natgeo --tab reels
  instaviewer view natgeo --tab all --json`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVarP(&viewTab, "tab", "t", string(instagram.CategoryStories), "tab to show (stories, posts, reels, highlights, all)")
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "print JSON instead of text")
}

// parseTabs accepts a category name or "all"
func parseTabs(s string) ([]instagram.Category, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return instagram.Categories, nil
	}
	c, err := instagram.ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return []instagram.Category{c}, nil
}

// loadProfile runs a search and fetches tabs. It fails when the profile
// itself could not be loaded; the notifier has already shown why.
func loadProfile(cmd *cobra.Command, s *viewer.Session, username string, tabs []instagram.Category) (viewer.State, error) {
	ctx := cmd.Context()

	if err := s.Search(ctx, username); err != nil {
		if errs.IsValidation(err) {
			return viewer.State{}, errors.New(errs.UserMessage(err, err.Error()))
		}
		return viewer.State{}, err
	}
	if s.State().Profile == nil {
		return viewer.State{}, fmt.Errorf("profile @%s could not be loaded", s.State().Username)
	}

	for _, c := range tabs {
		s.SelectTab(ctx, c)
	}
	return s.State(), nil
}

type viewOutput struct {
	Profile instagram.Profile                       `json:"profile"`
	Tabs    map[instagram.Category][]instagram.Post `json:"tabs"`
}

func runView(cmd *cobra.Command, args []string) error {
	tabs, err := parseTabs(viewTab)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := loadProfile(cmd, a.session(), args[0], tabs)
	if err != nil {
		return err
	}

	if viewJSON {
		out := viewOutput{Profile: *state.Profile, Tabs: make(map[instagram.Category][]instagram.Post, len(tabs))}
		for _, c := range tabs {
			out.Tabs[c] = state.Posts(c)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	ui.RenderProfile(os.Stdout, *state.Profile)
	for _, c := range tabs {
		fmt.Fprintln(os.Stdout)
		ui.RenderPosts(os.Stdout, c, state.Posts(c))
	}
	return nil
}
