package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pacer/internal/workload"
	"github.com/valter-silva-au/pacer/pkg/progress"
)

// dashboardTickInterval is the repaint cadence of the TUI view.
const dashboardTickInterval = 100 * time.Millisecond

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// frameSink captures the most recent rendered frame in memory so the TUI can
// embed it in its own view instead of writing to the terminal directly.
type frameSink struct {
	mu    sync.Mutex
	frame string
}

func (s *frameSink) WriteFrame(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	return nil
}

func (s *frameSink) Line() error { return nil }

func (s *frameSink) SetCursorVisible(bool) {}

// Frame returns the last written frame.
func (s *frameSink) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

type tickMsg time.Time

// workloadDoneMsg carries the workload's result back to the model.
type workloadDoneMsg struct {
	err error
}

type dashboardModel struct {
	workload *workload.Workload
	progress *progress.Progress
	sink     *frameSink

	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	finished bool
	err      error
}

func newDashboardModel(w *workload.Workload) dashboardModel {
	sink := &frameSink{}
	ctx, cancel := context.WithCancel(context.Background())
	return dashboardModel{
		workload: w,
		progress: newEngine(progress.WithSink(sink), progress.WithAutoRefresh(false)),
		sink:     sink,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.runWorkload, dashboardTick())
}

// runWorkload drives the scripted tasks and reports when they are done.
func (m dashboardModel) runWorkload() tea.Msg {
	return workloadDoneMsg{err: m.workload.Run(m.ctx, m.progress)}
}

func dashboardTick() tea.Cmd {
	return tea.Tick(dashboardTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		_ = m.progress.Refresh()
		if m.finished {
			return m, nil
		}
		return m, dashboardTick()

	case workloadDoneMsg:
		m.finished = true
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
		_ = m.progress.Refresh()
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	title := titleStyle.Render(" Pacer Dashboard ")
	help := helpStyle.Render("q: quit")

	frame := m.sink.Frame()
	if frame == "" {
		frame = "Starting workload..."
	}
	body := frameStyle.Render(frame)

	var status string
	switch {
	case m.err != nil:
		status = errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.finished:
		status = doneStyle.Render("All tasks finished.")
	}
	if status != "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, body, status, help)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [script.yaml]",
	Short: "Interactive TUI view of a running workload",
	Long: `Launch an interactive terminal dashboard rendering a workload's progress
bars inside a full-screen view.

With no argument the built-in demonstration workload runs; pass a workload
script to watch your own. Quit with q.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := workload.Default()
		if len(args) == 1 {
			loaded, err := workload.Load(args[0])
			if err != nil {
				return err
			}
			w = loaded
		}

		p := tea.NewProgram(newDashboardModel(w), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
