package server

import (
	"fmt"
	"strings"
	"time"

	"stride/internal/strava"
)

// formatDistance renders meters as kilometers, or bare meters below 1 km.
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

// formatDuration renders seconds as h/m/s.
func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// formatSpeed renders m/s as km/h.
func formatSpeed(metersPerSecond float64) string {
	return fmt.Sprintf("%.1f km/h", metersPerSecond*3.6)
}

// formatPace renders m/s as min/km, the customary unit for runs.
func formatPace(metersPerSecond float64) string {
	if metersPerSecond <= 0 {
		return "-"
	}
	secPerKm := 1000 / metersPerSecond
	min := int(secPerKm) / 60
	sec := int(secPerKm) % 60
	return fmt.Sprintf("%d:%02d /km", min, sec)
}

// isRunType reports whether pace is the natural speed unit for the
// activity.
func isRunType(activityType string) bool {
	switch activityType {
	case "Run", "TrailRun", "VirtualRun", "Walk", "Hike":
		return true
	default:
		return false
	}
}

// formatActivityLine renders one activity as a single summary line.
func formatActivityLine(a strava.Activity) string {
	speed := formatSpeed(a.AverageSpeed)
	if isRunType(a.Type) {
		speed = formatPace(a.AverageSpeed)
	}
	return fmt.Sprintf("[%d] %s | %s | %s | %s | %s | %s",
		a.ID, a.StartDateLocal, a.Type, a.Name,
		formatDistance(a.Distance), formatDuration(a.MovingTime), speed)
}

// formatActivityDetail renders the full detail view of one activity.
func formatActivityDetail(a *strava.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", a.Name, a.Type)
	fmt.Fprintf(&b, "  ID:         %d\n", a.ID)
	fmt.Fprintf(&b, "  Start:      %s\n", a.StartDateLocal)
	fmt.Fprintf(&b, "  Distance:   %s\n", formatDistance(a.Distance))
	fmt.Fprintf(&b, "  Moving:     %s (elapsed %s)\n", formatDuration(a.MovingTime), formatDuration(a.ElapsedTime))
	fmt.Fprintf(&b, "  Elevation:  %.0f m\n", a.TotalElevationGain)
	if isRunType(a.Type) {
		fmt.Fprintf(&b, "  Pace:       %s\n", formatPace(a.AverageSpeed))
	} else {
		fmt.Fprintf(&b, "  Avg speed:  %s (max %s)\n", formatSpeed(a.AverageSpeed), formatSpeed(a.MaxSpeed))
	}
	if a.AverageHeartrate > 0 {
		fmt.Fprintf(&b, "  Heartrate:  %.0f avg / %.0f max\n", a.AverageHeartrate, a.MaxHeartrate)
	}
	if a.AverageWatts > 0 {
		fmt.Fprintf(&b, "  Power:      %.0f W avg\n", a.AverageWatts)
	}
	if a.Calories > 0 {
		fmt.Fprintf(&b, "  Calories:   %.0f\n", a.Calories)
	}
	if a.KudosCount > 0 || a.PRCount > 0 {
		fmt.Fprintf(&b, "  Kudos: %d  PRs: %d\n", a.KudosCount, a.PRCount)
	}
	if a.Description != "" {
		fmt.Fprintf(&b, "  Notes:      %s\n", a.Description)
	}
	return b.String()
}

// formatTotals renders one stats rollup line.
func formatTotals(label string, t strava.ActivityTotals) string {
	return fmt.Sprintf("  %-10s %3d activities | %s | %s | %.0f m climbed",
		label, t.Count, formatDistance(t.Distance), formatDuration(t.MovingTime), t.ElevationGain)
}

// formatAthleteStats renders the full stats view.
func formatAthleteStats(stats *strava.AthleteStats) string {
	var b strings.Builder
	b.WriteString("Recent (last 4 weeks):\n")
	b.WriteString(formatTotals("Rides", stats.RecentRideTotals) + "\n")
	b.WriteString(formatTotals("Runs", stats.RecentRunTotals) + "\n")
	b.WriteString(formatTotals("Swims", stats.RecentSwimTotals) + "\n")
	b.WriteString("Year to date:\n")
	b.WriteString(formatTotals("Rides", stats.YTDRideTotals) + "\n")
	b.WriteString(formatTotals("Runs", stats.YTDRunTotals) + "\n")
	b.WriteString(formatTotals("Swims", stats.YTDSwimTotals) + "\n")
	b.WriteString("All time:\n")
	b.WriteString(formatTotals("Rides", stats.AllRideTotals) + "\n")
	b.WriteString(formatTotals("Runs", stats.AllRunTotals) + "\n")
	b.WriteString(formatTotals("Swims", stats.AllSwimTotals) + "\n")
	if stats.BiggestRideDistance > 0 {
		fmt.Fprintf(&b, "Biggest ride: %s\n", formatDistance(stats.BiggestRideDistance))
	}
	return b.String()
}
