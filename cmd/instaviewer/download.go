package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"instaviewer/internal/downloader"
	"instaviewer/pkg/instagram"
	"instaviewer/pkg/metadata"
	"instaviewer/pkg/ratelimit"
	"instaviewer/pkg/storage"
	"instaviewer/pkg/ui"
)

var (
	downloadTab      string
	outputDir        string
	concurrent       int
	rateLimit        int
	limiterKind      string
	writeMetadata    bool
	downloadVerbose  bool
	maxErrorsToPrint = 5
)

// downloadCmd saves the media of a tab
var downloadCmd = &cobra.Command{
	Use:   "download <username>",
	Short: "Download the media of a profile tab",
	Long: `Fetch a tab of a public profile and save every image and video through the
media proxy. Files already present in the output directory are skipped, so
running the command again only fetches what is new.`,
	Example: `  instaviewer download natgeo --tab posts
  instaviewer download natgeo --tab all --output ./media --concurrent 5
  instaviewer download natgeo --tab stories --metadata=false
  instaviewer download natgeo --rate-limit 20 --limiter window`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadTab, "tab", "t", string(instagram.CategoryPosts), "tab to download (stories, posts, reels, highlights, all)")
	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ./downloads)")
	downloadCmd.Flags().IntVar(&concurrent, "concurrent", 3, "number of concurrent downloads")
	downloadCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "media requests per minute")
	downloadCmd.Flags().StringVar(&limiterKind, "limiter", "", "rate limiter: token (burst per minute) or window (sliding minute)")
	downloadCmd.Flags().BoolVar(&writeMetadata, "metadata", true, "write a JSON sidecar next to each file")
	downloadCmd.Flags().BoolVarP(&downloadVerbose, "verbose", "v", false, "print one line per file")
}

func downloadFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if changed("rate-limit") {
		flags["rate-limit"] = rateLimit
	}
	if changed("limiter") {
		flags["limiter"] = limiterKind
	}
	if changed("metadata") {
		flags["metadata"] = writeMetadata
	}
	return flags
}

func runDownload(cmd *cobra.Command, args []string) error {
	tabs, err := parseTabs(downloadTab)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false, downloadFlags(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	ui.PrintLogo()

	state, err := loadProfile(cmd, a.session(), args[0], tabs)
	if err != nil {
		return err
	}
	username := state.Profile.Username
	ui.PrintHighlight(fmt.Sprintf("Downloading %s of @%s", downloadTab, username))

	manager, err := storage.NewManager(a.cfg.Download.OutputDir, a.cfg.Download.CreateUserFolders)
	if err != nil {
		return err
	}
	limiter := ratelimit.New(a.cfg.Download.RateLimiter, a.cfg.Download.RequestsPerMinute)

	var total downloader.Summary
	for _, c := range tabs {
		posts := state.Posts(c)
		if len(posts) == 0 {
			ui.PrintWarning(fmt.Sprintf("No %s to download", c))
			continue
		}

		jobs := downloader.Jobs(posts, c)
		pool := downloader.NewWorkerPool(cmd.Context(), a.cfg.Download.ConcurrentDownloads, a.client, manager, limiter, a.log)
		pool.WriteMetadata(a.cfg.Download.WriteMetadata)

		progress := ui.NewProgressDisplay(os.Stdout, fmt.Sprintf("%s/%s", username, c), len(jobs), downloadVerbose)
		summary := downloader.Run(pool, jobs, progress.Update)
		progress.Finish()
		ui.PrintInfo("Elapsed", progress.Elapsed().Round(time.Millisecond).String())

		total.Downloaded += summary.Downloaded
		total.Skipped += summary.Skipped
		total.Failed += summary.Failed
		total.Bytes += summary.Bytes
		total.Errors = append(total.Errors, summary.Errors...)
	}

	for i, err := range total.Errors {
		if i == maxErrorsToPrint {
			ui.PrintWarning(fmt.Sprintf("... and %d more errors", len(total.Errors)-maxErrorsToPrint))
			break
		}
		ui.PrintWarning("Failed", err)
	}

	// Sidecars left behind by media the user deleted
	if a.cfg.Download.CreateUserFolders {
		userDir := filepath.Dir(manager.Path(username, "x"))
		if removed, err := metadata.CleanOrphaned(userDir); err == nil && removed > 0 {
			a.log.InfoWithFields("removed orphaned metadata", map[string]interface{}{"count": removed})
		}
	}

	ui.PrintInfo("Saved to", manager.OutputDir())
	if total.Downloaded == 0 && total.Failed == 0 {
		a.notifier.SendNotification("Up to date", total.String())
		return nil
	}
	if total.Failed > 0 {
		a.notifier.SendError("Download finished with errors", total.String())
		return fmt.Errorf("%d of %d files failed", total.Failed, total.Downloaded+total.Skipped+total.Failed)
	}
	a.notifier.SendSuccess("Download complete", total.String())
	return nil
}
