// cmd/depths/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fromthedepths/internal/builder"
	"fromthedepths/internal/config"
	"fromthedepths/internal/post"
	"fromthedepths/internal/scaffold"
	"fromthedepths/internal/server"
)

type appConfig struct {
	configFile string
	debug      bool
	unsafe     bool
	port       int
	logger     *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &appConfig{}

	root := &cobra.Command{
		Use:   "depths",
		Short: "depths - builds the From the Depths blog from MDX posts",
		Long: `depths reads dated MDX posts, renders them with the site's custom
components, and writes the blog index, tag cloud, search index, RSS feed
and static pages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if app.debug {
				level = slog.LevelDebug
			}
			app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(app.logger)
		},
	}
	root.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default is ./"+config.DefaultFile+")")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug logging.")
	root.PersistentFlags().BoolVar(&app.unsafe, "unsafe", false, "Disable HTML sanitization of previews and post pages.")

	root.AddCommand(newBuildCmd(app), newServeCmd(app), newNewCmd(app))
	return root
}

func newBuildCmd(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the site from content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.buildOptions()
			opts.CleanDestination = true
			return runBuild(cmd.Context(), app, opts)
		},
	}
}

func newServeCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local dev server with auto-rebuild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			siteCfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			// Each rebuild reloads the config so edits to site.yaml apply.
			buildFunc := func(ctx context.Context, opts builder.BuildOptions) error {
				return runBuild(ctx, app, opts)
			}
			watch := []string{siteCfg.ContentDir, siteCfg.TemplateDir, siteCfg.StaticDir}
			if siteCfg.File != "" {
				watch = append(watch, siteCfg.File)
			}
			return server.Run(cmd.Context(), app.port, siteCfg.OutputDir, buildFunc, app.buildOptions(), watch)
		},
	}
	cmd.Flags().IntVar(&app.port, "port", 1313, "Port for the local development server.")
	return cmd
}

func newNewCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new site or post",
	}

	site := &cobra.Command{
		Use:   "site <dir>",
		Short: "Create a new site scaffold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.CreateNewSite(args[0], time.Now())
		},
	}

	var (
		tags []string
		date string
	)
	postCmd := &cobra.Command{
		Use:   "post <title>",
		Short: "Create a new dated post from the archetype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteCfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			when := time.Now()
			if date != "" {
				when, err = time.Parse(post.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
			}
			opts := scaffold.PostOptions{
				ContentDir: siteCfg.ContentDir,
				Title:      args[0],
				Tags:       cleanTags(tags),
				Date:       when,
			}
			if _, err := os.Stat(scaffold.ArchetypePath); err == nil {
				opts.Archetype = scaffold.ArchetypePath
			}
			path, err := scaffold.NewPost(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created:", path)
			return nil
		},
	}
	postCmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags.")
	postCmd.Flags().StringVar(&date, "date", "", "Publish date as YYYY-MM-DD (default today).")

	cmd.AddCommand(site, postCmd)
	return cmd
}

func (app *appConfig) buildOptions() builder.BuildOptions {
	return builder.BuildOptions{
		Unsafe: app.unsafe,
		Logger: app.logger,
	}
}

func (app *appConfig) siteConfig() (config.SiteConfig, error) {
	siteCfg, err := config.LoadSiteConfig(app.configFile)
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load site config: %w", err)
	}
	if siteCfg.File != "" {
		app.logger.Debug("using config file", "file", siteCfg.File)
	}
	return siteCfg, nil
}

func runBuild(ctx context.Context, app *appConfig, opts builder.BuildOptions) error {
	fmt.Println("--- Building site ---")
	siteCfg, err := app.siteConfig()
	if err != nil {
		return err
	}
	res, err := builder.Build(ctx, siteCfg, opts)
	if err != nil {
		if errors.Is(err, post.ErrMalformedFrontMatter) || errors.Is(err, post.ErrInvalidDate) {
			return fmt.Errorf("content errors in %s:\n%w", filepath.Clean(siteCfg.ContentDir), err)
		}
		return fmt.Errorf("site generation failed: %w", err)
	}
	fmt.Printf("📄 Site: %d posts, %d tags.\n", res.Posts, res.Tags)
	fmt.Printf("✅ Success! Generated %d pages.\n", res.Pages)
	return nil
}

// cleanTags trims tags from --tags and drops empty ones.
func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
