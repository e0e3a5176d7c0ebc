// Package display provides terminal output formatting for scoutradar.
package display

import (
	"fmt"
	"strings"
	"time"

	"scoutradar/internal/pipeline"
	"scoutradar/internal/soundcloud"
)

const separator = " • "

// TerminalFormatter formats pipeline results for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatResult renders the resolved artist and its aggregate summary.
func (f *TerminalFormatter) FormatResult(result *pipeline.Result) string {
	var lines []string

	header := fmt.Sprintf("[YOUTUBE] %s", result.Artist.Title)
	if result.Partial {
		header += "  (partial)"
	}
	lines = append(lines, header)

	meta := fmt.Sprintf("  %s%ssince %s", result.Artist.ID, separator, f.FormatSince(result.Artist.PublishedAt))
	lines = append(lines, meta)

	if result.Artist.SubscriberCount > 0 || result.Artist.VideoCount > 0 {
		lines = append(lines, fmt.Sprintf("  %d subscribers%s%d videos",
			result.Artist.SubscriberCount, separator, result.Artist.VideoCount))
	}

	if desc := f.TruncateText(strings.TrimSpace(result.Artist.Description), 120); desc != "" {
		lines = append(lines, "  "+desc)
	}

	lines = append(lines, "  "+f.formatSummary(result))

	if n := len(result.Anomalies); n > 0 {
		lines = append(lines, fmt.Sprintf("  %s skipped (unreadable stats)", pluralizeCount(n, "video")))
	}

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) formatSummary(result *pipeline.Result) string {
	parts := []string{
		fmt.Sprintf("%d views", result.Summary.Views),
		fmt.Sprintf("%d likes", result.Summary.Likes),
		fmt.Sprintf("%d comments", result.Summary.Comments),
	}
	return strings.Join(parts, separator)
}

// FormatTrending renders a chart-discovery listing.
func (f *TerminalFormatter) FormatTrending(artists []soundcloud.Artist) string {
	if len(artists) == 0 {
		return "No trending artists to display.\n"
	}

	var lines []string
	for i, artist := range artists {
		line := fmt.Sprintf("%2d. %s", i+1, artist.Username)
		if artist.Permalink != "" {
			line += separator + artist.Permalink
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatSince formats a channel's creation time, as an age for young channels
// and as a date for everything older than a year.
func (f *TerminalFormatter) FormatSince(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return "today"
	case diff < 30*24*time.Hour:
		return pluralizeCount(int(diff.Hours()/24), "day") + " ago"
	case diff < 365*24*time.Hour:
		return pluralizeCount(int(diff.Hours()/24/30), "month") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralizeCount returns "N unit" or "N units" based on count.
func pluralizeCount(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return text[:maxLen-3] + "..."
}
