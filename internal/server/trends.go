package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stride/internal/strava"
)

const (
	metricDistance  = "distance"
	metricTime      = "time"
	metricElevation = "elevation"
)

// weekBucket is one week's aggregate in a trend report.
type weekBucket struct {
	Start time.Time
	Count int
	Value float64 // meters, seconds or meters climbed depending on metric
}

// trendReport is the result of bucketing a period of activities by week.
type trendReport struct {
	Metric  string
	Weeks   []weekBucket // oldest first
	Verdict string
}

// buildTrendReport fetches the period's activities and aggregates them.
func (s *Server) buildTrendReport(ctx context.Context, weeks int, metric string) (*trendReport, error) {
	periodStart := time.Now().AddDate(0, 0, -7*weeks).Truncate(24 * time.Hour)

	// One maximal page covers a full year of training for most athletes;
	// the analysis tolerates truncation of very dense histories.
	activities, err := s.client.ListActivities(ctx, strava.ListActivitiesOptions{
		After:   periodStart.Unix(),
		PerPage: 200,
	})
	if err != nil {
		return nil, err
	}

	return aggregateTrend(activities, periodStart, weeks, metric), nil
}

// aggregateTrend buckets activities into calendar weeks from periodStart
// and derives a direction verdict.
func aggregateTrend(activities []strava.Activity, periodStart time.Time, weeks int, metric string) *trendReport {
	report := &trendReport{Metric: metric, Weeks: make([]weekBucket, weeks)}
	for i := range report.Weeks {
		report.Weeks[i].Start = periodStart.AddDate(0, 0, 7*i)
	}

	for _, a := range activities {
		start, err := time.Parse(time.RFC3339, a.StartDate)
		if err != nil {
			continue
		}
		idx := int(start.Sub(periodStart).Hours() / (24 * 7))
		if idx < 0 || idx >= weeks {
			continue
		}
		report.Weeks[idx].Count++
		switch metric {
		case metricTime:
			report.Weeks[idx].Value += float64(a.MovingTime)
		case metricElevation:
			report.Weeks[idx].Value += a.TotalElevationGain
		default:
			report.Weeks[idx].Value += a.Distance
		}
	}

	report.Verdict = trendVerdict(report.Weeks)
	return report
}

// trendVerdict compares the average of the later half of the period with
// the earlier half. A five percent band counts as steady.
func trendVerdict(weeks []weekBucket) string {
	if len(weeks) < 2 {
		return "not enough data"
	}
	half := len(weeks) / 2
	var early, late float64
	for i, w := range weeks {
		if i < half {
			early += w.Value
		} else {
			late += w.Value
		}
	}
	early /= float64(half)
	late /= float64(len(weeks) - half)

	switch {
	case early == 0 && late == 0:
		return "no recorded volume"
	case late > early*1.05:
		return "improving"
	case late < early*0.95:
		return "declining"
	default:
		return "steady"
	}
}

// Render formats the report for tool output.
func (r *trendReport) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly %s over %d weeks:\n", r.Metric, len(r.Weeks))
	for _, w := range r.Weeks {
		fmt.Fprintf(&b, "  week of %s: %2d activities, %s\n",
			w.Start.Format("2006-01-02"), w.Count, r.formatValue(w.Value))
	}
	fmt.Fprintf(&b, "Trend: %s\n", r.Verdict)
	return b.String()
}

func (r *trendReport) formatValue(v float64) string {
	switch r.Metric {
	case metricTime:
		return formatDuration(int(v))
	case metricElevation:
		return fmt.Sprintf("%.0f m climbed", v)
	default:
		return formatDistance(v)
	}
}
