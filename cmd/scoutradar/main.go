// Package main provides the scoutradar CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scoutradar/internal/credentials"
	"scoutradar/internal/display"
	"scoutradar/internal/logger"
	"scoutradar/internal/pipeline"
	"scoutradar/internal/snapshot"
	"scoutradar/internal/soundcloud"
	"scoutradar/internal/youtube"
)

// version is set via ldflags at release build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion picks the effective version string: an ldflags-provided
// value wins, otherwise the module version embedded by `go install` is used.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// getAPIURL returns the YouTube API base URL (overridable for testing).
func getAPIURL() string {
	if url := os.Getenv("SCOUTRADAR_API_URL"); url != "" {
		return url
	}
	return ""
}

// newRootCmd creates the root command for the scoutradar CLI.
func newRootCmd() *cobra.Command {
	info, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:     "scoutradar",
		Short:   "Resolve artists to their YouTube identity and engagement",
		Long:    "Scoutradar resolves an artist name to its canonical YouTube channel and aggregates engagement statistics across the channel's catalog.",
		Version: resolveVersion(version, info),
	}

	rootCmd.SetVersionTemplate("scoutradar version {{.Version}}\n")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newTrendingCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// newResolveCmd creates the resolve subcommand.
func newResolveCmd() *cobra.Command {
	var timeout time.Duration
	var dbPath string

	cmd := &cobra.Command{
		Use:   "resolve <artist name>",
		Short: "Resolve an artist and aggregate channel engagement",
		Long:  "Resolve an artist name to its canonical YouTube channel, enumerate the channel's videos and aggregate views, likes and comments.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			creds, err := credentials.Load()
			if err != nil {
				return err
			}

			log := logger.New(os.Getenv("SCOUTRADAR_LOG_LEVEL"))

			opts := []youtube.ClientOption{}
			if url := getAPIURL(); url != "" {
				opts = append(opts, youtube.WithBaseURL(url))
			}
			client := youtube.NewClient(creds.YouTubeAPIKey, opts...)

			pipe, err := pipeline.New(client, pipeline.DefaultConfig(), log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := pipe.Run(ctx, name)
			if err != nil {
				if errors.Is(err, pipeline.ErrArtistNotFound) {
					return fmt.Errorf("no channel found for %q", name)
				}
				return err
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResult(result))

			if dbPath != "" {
				if err := saveSnapshot(ctx, dbPath, name, result); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "snapshot: %v\n", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Overall deadline for the run")
	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path to save the result snapshot")

	return cmd
}

// saveSnapshot persists one pipeline result to the snapshot database.
func saveSnapshot(ctx context.Context, dbPath, name string, result *pipeline.Result) error {
	store, err := snapshot.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(ctx, snapshot.FromResult(name, result))
}

// newTrendingCmd creates the trending subcommand.
func newTrendingCmd() *cobra.Command {
	var genre string
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending artists from SoundCloud charts",
		Long:  "List artists currently charting on SoundCloud, ordered by chart position.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Chart discovery needs no YouTube key.
			clientID := credentials.SoundCloudClientID()

			opts := []soundcloud.ClientOption{}
			if url := os.Getenv("SCOUTRADAR_CHARTS_URL"); url != "" {
				opts = append(opts, soundcloud.WithBaseURL(url))
			}
			client := soundcloud.NewClient(clientID, opts...)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			artists, err := client.TrendingArtists(ctx, genre, kind, limit)
			if err != nil {
				return fmt.Errorf("fetch charts: %w", err)
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrending(artists))
			return nil
		},
	}

	cmd.Flags().StringVarP(&genre, "genre", "g", soundcloud.GenreHipHop, "Chart genre tag")
	cmd.Flags().StringVarP(&kind, "kind", "k", soundcloud.KindTrending, "Chart kind (trending or top)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of artists to display")

	return cmd
}

// newHistoryCmd creates the history subcommand.
func newHistoryCmd() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently captured snapshots",
		Long:  "Show the most recent artist snapshots saved with 'resolve --db'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("missing database: set --db to the snapshot database path")
			}

			store, err := snapshot.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			snaps, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}

			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots recorded yet.")
				return nil
			}

			for _, snap := range snaps {
				line := fmt.Sprintf("%s  %-20s %s  views=%d likes=%d comments=%d",
					snap.CapturedAt.Format("2006-01-02 15:04"),
					snap.ArtistName, snap.ChannelID,
					snap.Views, snap.Likes, snap.Comments)
				if snap.Partial {
					line += "  (partial)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path to read snapshots from")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of snapshots to display")

	return cmd
}
