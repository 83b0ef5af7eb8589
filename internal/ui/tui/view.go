package tui

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

func currentSpinner(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}

func renderView(m Model) string {
	var b strings.Builder

	title := fmt.Sprintf("podlet: pods in %s", m.Namespace)
	b.WriteString(titleStyle.Render(title))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(currentSpinner(m.SpinnerFrame)))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.Rows) == 0 {
		b.WriteString(dimStyle.Render("No pods running."))
		b.WriteString("\n")
	} else {
		renderPodTable(&b, m)
	}

	footer := "q quit  r refresh"
	if !m.LastRefresh.IsZero() {
		footer += fmt.Sprintf("  (updated %s ago)", duration.HumanDuration(m.now().Sub(m.LastRefresh)))
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func renderPodTable(b *strings.Builder, m Model) {
	now := m.now()
	fmt.Fprintf(b, "  %s\n", headerStyle.Render(fmt.Sprintf(
		"%-28s %-16s %-10s %-9s %-16s %s",
		"NAME", "DEPLOYMENT", "STATUS", "RESTARTS", "VOLUMES", "AGE")))

	for _, row := range m.Rows {
		status := row.Phase
		styled := status
		switch {
		case row.Ready:
			styled = readyStyle.Render(fmt.Sprintf("%-10s", status))
		case row.Phase == "Failed":
			styled = failedStyle.Render(fmt.Sprintf("%-10s", status))
		default:
			styled = staleStyle.Render(fmt.Sprintf("%-10s", status))
		}

		sync := renderSyncState(row, now, m.SyncEvery)
		age := duration.HumanDuration(now.Sub(row.StartedAt))
		fmt.Fprintf(b, "  %-28s %-16s %s %-9d %-16s %s\n",
			row.Name, row.Deployment, styled, row.Restarts, sync, age)
	}
}

// renderSyncState classifies a pod's projected volume freshness against
// the configured resync interval.
func renderSyncState(row PodRow, now time.Time, every time.Duration) string {
	if row.LastVolumeSync.IsZero() {
		return dimStyle.Render("never synced")
	}
	since := now.Sub(row.LastVolumeSync)
	if every > 0 && since > 2*every {
		return staleStyle.Render(fmt.Sprintf("stale (%s ago)", duration.HumanDuration(since)))
	}
	return readyStyle.Render(fmt.Sprintf("synced %s ago", duration.HumanDuration(since)))
}
