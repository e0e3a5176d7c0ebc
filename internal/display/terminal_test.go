package display

import (
	"strings"
	"testing"
	"time"

	"scoutradar/internal/pipeline"
	"scoutradar/internal/soundcloud"
	"scoutradar/internal/stats"
	"scoutradar/internal/youtube"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Artist: youtube.ChannelProfile{
			ID:              "UC123",
			Title:           "insyt.",
			Description:     "underground hip-hop from toronto",
			PublishedAt:     time.Now().Add(-2 * 365 * 24 * time.Hour),
			SubscriberCount: 1200,
			VideoCount:      34,
		},
		Summary: stats.Summary{Views: 45000, Likes: 3200, Comments: 410},
	}
}

func TestFormatResult(t *testing.T) {
	output := NewTerminalFormatter().FormatResult(sampleResult())

	for _, want := range []string{"[YOUTUBE] insyt.", "UC123", "1200 subscribers", "34 videos", "45000 views", "3200 likes", "410 comments"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "(partial)") {
		t.Error("complete results must not be marked partial")
	}
}

func TestFormatResult_MarksPartial(t *testing.T) {
	result := sampleResult()
	result.Partial = true

	output := NewTerminalFormatter().FormatResult(result)

	if !strings.Contains(output, "(partial)") {
		t.Errorf("partial results must carry an explicit flag, got:\n%s", output)
	}
}

func TestFormatResult_ReportsAnomalies(t *testing.T) {
	result := sampleResult()
	result.Anomalies = []stats.Anomaly{{VideoID: "v1"}, {VideoID: "v2"}}

	output := NewTerminalFormatter().FormatResult(result)

	if !strings.Contains(output, "2 videos skipped") {
		t.Errorf("anomalies should be counted in the output, got:\n%s", output)
	}
}

func TestFormatResult_ZeroMetricsStillShown(t *testing.T) {
	result := sampleResult()
	result.Summary = stats.Summary{}

	output := NewTerminalFormatter().FormatResult(result)

	if !strings.Contains(output, "0 views") {
		t.Errorf("a zero summary is a valid result and must be printed, got:\n%s", output)
	}
}

func TestFormatTrending(t *testing.T) {
	artists := []soundcloud.Artist{
		{ID: 1, Username: "artist-one", Permalink: "https://soundcloud.com/artist-one"},
		{ID: 2, Username: "artist-two"},
	}

	output := NewTerminalFormatter().FormatTrending(artists)

	if !strings.Contains(output, " 1. artist-one") {
		t.Errorf("expected numbered listing, got:\n%s", output)
	}
	if !strings.Contains(output, "artist-two") {
		t.Errorf("expected second artist, got:\n%s", output)
	}
}

func TestFormatTrending_Empty(t *testing.T) {
	output := NewTerminalFormatter().FormatTrending(nil)

	if output != "No trending artists to display.\n" {
		t.Errorf("unexpected empty-listing output: %q", output)
	}
}

func TestFormatSince(t *testing.T) {
	f := NewTerminalFormatter()

	if got := f.FormatSince(time.Time{}); got != "unknown" {
		t.Errorf("zero time should format as unknown, got %q", got)
	}
	if got := f.FormatSince(time.Now().Add(-3 * time.Hour)); got != "today" {
		t.Errorf("expected today, got %q", got)
	}
	if got := f.FormatSince(time.Now().Add(-72 * time.Hour)); got != "3 days ago" {
		t.Errorf("expected '3 days ago', got %q", got)
	}
	old := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := f.FormatSince(old); got != "Jun 1, 2019" {
		t.Errorf("expected 'Jun 1, 2019', got %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	f := NewTerminalFormatter()

	if got := f.TruncateText("short", 10); got != "short" {
		t.Errorf("short text should pass through, got %q", got)
	}
	if got := f.TruncateText("a very long description indeed", 10); got != "a very ..." {
		t.Errorf("expected truncation with ellipsis, got %q", got)
	}
	if len(f.TruncateText("abcdefghij", 10)) > 10 {
		t.Error("truncated text must not exceed maxLen")
	}
}
