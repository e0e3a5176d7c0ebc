package stats

import (
	"fmt"
	"sort"

	"scoutradar/internal/youtube"
)

// Metric field names as the provider reports them.
const (
	MetricViews    = "viewCount"
	MetricLikes    = "likeCount"
	MetricComments = "commentCount"
)

// Summary holds the aggregate engagement totals for a channel.
type Summary struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Anomaly records one video whose statistics record was skipped because a
// metric could not be coerced to an integer.
type Anomaly struct {
	VideoID string
	Err     error
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("video %s skipped: %v", a.VideoID, a.Err)
}

// Summarize reduces raw per-video statistics to aggregate totals. Each
// record's tracked metrics are coerced exactly once; a record that fails
// coercion on any metric contributes nothing and is reported as one anomaly.
// Missing metric fields contribute zero. The reduction is a plain sum, so the
// result is invariant to the map's iteration order; anomalies are sorted by
// video id for the same reason. Summarize(nil) returns all-zero totals.
func Summarize(raw map[string]youtube.RawStats) (Summary, []Anomaly) {
	var summary Summary
	var anomalies []Anomaly

	for id, record := range raw {
		views, err := coerce(record, MetricViews)
		if err != nil {
			anomalies = append(anomalies, Anomaly{VideoID: id, Err: err})
			continue
		}
		likes, err := coerce(record, MetricLikes)
		if err != nil {
			anomalies = append(anomalies, Anomaly{VideoID: id, Err: err})
			continue
		}
		comments, err := coerce(record, MetricComments)
		if err != nil {
			anomalies = append(anomalies, Anomaly{VideoID: id, Err: err})
			continue
		}

		summary.Views += views
		summary.Likes += likes
		summary.Comments += comments
	}

	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].VideoID < anomalies[j].VideoID
	})

	return summary, anomalies
}

// coerce resolves one metric field. Absent fields are a zero contribution,
// not an error; present fields that do not parse are.
func coerce(record youtube.RawStats, metric string) (int64, error) {
	value, ok := record[metric]
	if !ok {
		return 0, nil
	}
	n, err := value.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", metric, err)
	}
	return n, nil
}
