package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FetchFunc reads the current pod rows for the watched namespace.
type FetchFunc func() ([]PodRow, error)

// Model is the Bubble Tea model for the pod watch dashboard.
type Model struct {
	Namespace string
	Rows      []PodRow

	// SyncEvery is the configured volume resync interval, used to decide
	// whether a pod's projected volumes are fresh or stale.
	SyncEvery time.Duration

	LastRefresh  time.Time
	SpinnerFrame int

	Width  int
	Height int
	Err    error

	fetch FetchFunc
	now   func() time.Time
}

// NewWatchModel creates a dashboard model polling fetch for pod state.
func NewWatchModel(namespace string, syncEvery time.Duration, fetch FetchFunc) Model {
	return Model{
		Namespace: namespace,
		SyncEvery: syncEvery,
		fetch:     fetch,
		now:       time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case SnapshotMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}
		m.Rows = msg.Rows
		m.LastRefresh = m.now()

	case TickMsg:
		m.SpinnerFrame++
		return m, tea.Batch(m.fetchCmd(), tickCmd())

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) fetchCmd() tea.Cmd {
	fetch := m.fetch
	if fetch == nil {
		return nil
	}
	return func() tea.Msg {
		rows, err := fetch()
		return SnapshotMsg{Rows: rows, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
