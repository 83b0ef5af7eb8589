// Package tui provides a Bubble Tea terminal dashboard for watching pods.
package tui

import "time"

// PodRow is one pod's display state in the watch dashboard.
type PodRow struct {
	Namespace      string
	Name           string
	Deployment     string
	Phase          string
	Ready          bool
	Restarts       int32
	StartedAt      time.Time
	LastVolumeSync time.Time
}

// SnapshotMsg carries the latest pod rows read from the store.
type SnapshotMsg struct {
	Rows []PodRow
	Err  error
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error that ends the watch.
type ErrMsg struct{ Err error }
