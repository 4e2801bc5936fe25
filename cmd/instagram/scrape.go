package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	instagram "github.com/RavensCloud/instagram-gofun"
	"github.com/RavensCloud/instagram-gofun/internal/config"
	"github.com/RavensCloud/instagram-gofun/internal/logging"
)

var scrapeFlags struct {
	method     string
	details    bool
	maxPosts   int
	output     string
	session    string
	descriptor string
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Fetch a profile and its recent posts and save them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log, closer, err := logging.New(os.Stderr, logging.Opts{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer closer.Close()

		s, err := newScraper(cfg, scrapeFlags.descriptor, log)
		if err != nil {
			return err
		}

		maxPosts := scrapeFlags.maxPosts
		if maxPosts <= 0 {
			maxPosts = cfg.Instagram.MaxPosts
		}
		out := outputPath(username, scrapeFlags.output)

		log.Info("starting scrape",
			"username", username,
			"method", scrapeFlags.method,
			"details", scrapeFlags.details,
			"max_posts", maxPosts,
			"output", out,
		)

		res := s.Acquire(cmd.Context(), username, instagram.AcquireOptions{
			Strategy:       instagram.Strategy(scrapeFlags.method),
			MaxPosts:       maxPosts,
			IncludeDetails: scrapeFlags.details,
			SessionID:      scrapeFlags.session,
		})
		if !res.Success {
			return fmt.Errorf("scraping failed: %s", res.Error.Message)
		}

		if err := writeResult(out, res); err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), res, out)
		return nil
	},
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVarP(&scrapeFlags.method, "method", "m", string(instagram.StrategyAuto), "scraping method: api, browser or auto")
	f.BoolVarP(&scrapeFlags.details, "details", "d", false, "include per-post details")
	f.IntVarP(&scrapeFlags.maxPosts, "max-posts", "p", 0, "maximum number of posts (default from config, 20)")
	f.StringVarP(&scrapeFlags.output, "output", "o", "", "output file (default ./<username>_profile.json)")
	f.StringVar(&scrapeFlags.session, "session", "", "proxy session id (random when empty)")
	f.StringVar(&scrapeFlags.descriptor, "descriptor", "", "JSON file overriding page locators")
	rootCmd.AddCommand(scrapeCmd)
}

// newScraper maps cfg onto a Scraper. descriptorPath overrides the configured
// descriptor file when set.
func newScraper(cfg *config.Config, descriptorPath string, log *slog.Logger) (*instagram.Scraper, error) {
	retry := instagram.DefaultRetryConfig()
	retry.MaxRetries = cfg.Instagram.Retries

	s := instagram.New().
		WithLogger(log).
		WithBaseURL(cfg.Instagram.BaseURL).
		WithProfileDelay(cfg.Instagram.ProfileDelay).
		WithRequestTimeout(cfg.Instagram.RequestTimeout).
		WithNavigationTimeout(cfg.Instagram.NavigationTimeout).
		WithScrollDelay(cfg.Instagram.ScrollDelay).
		WithResourceBlocking(cfg.Instagram.BlockResources).
		WithRetry(retry)

	if err := s.SetProxy(cfg.ProxyURL()); err != nil {
		return nil, fmt.Errorf("proxy: %w", err)
	}
	if cfg.Proxy.Username != "" {
		s.WithCredentialIssuer(instagram.SessionCredentials{
			Username: cfg.Proxy.Username,
			Password: cfg.Proxy.Password,
		})
	}

	if descriptorPath == "" {
		descriptorPath = cfg.Instagram.Descriptor
	}
	if descriptorPath != "" {
		d, err := instagram.LoadDescriptor(descriptorPath)
		if err != nil {
			return nil, err
		}
		s.WithDescriptor(d)
	}
	return s, nil
}

func outputPath(username, flag string) string {
	if flag != "" {
		return flag
	}
	return "./" + username + "_profile.json"
}

func writeResult(path string, res instagram.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, res instagram.Result, out string) {
	p := res.Data
	fullName := p.FullName
	if fullName == "" {
		fullName = "N/A"
	}
	postsCount := "N/A"
	if p.PostsCount > 0 {
		postsCount = strconv.Itoa(p.PostsCount)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Method", res.Method},
		{"Profile", fmt.Sprintf("%s (%s)", p.Username, fullName)},
		{"Followers", p.FollowersCount},
		{"Posts scraped", fmt.Sprintf("%d/%s", len(p.Posts), postsCount)},
		{"Saved to", out},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
