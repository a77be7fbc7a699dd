// Package ui provides the interactive scan view built on bubbletea.
package ui

import (
	"context"
	"fmt"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
)

type scanDoneMsg struct {
	report *scanner.ScanReport
	err    error
}

type progressMsg progress.ScanProgress

// ScanModel drives an interactive duplicate scan with live progress
type ScanModel struct {
	engine  *scanner.Engine
	root    string
	cancel  context.CancelFunc
	updates <-chan progress.ScanProgress

	spinner spinner.Model
	bar     bprogress.Model

	current progress.ScanProgress
	report  *scanner.ScanReport
	err     error
	done    bool
}

// NewScanModel creates a scan view for root. The engine must already have
// pr attached as its progress reporter.
func NewScanModel(engine *scanner.Engine, pr *progress.ProgressReporter, root string) *ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return &ScanModel{
		engine:  engine,
		root:    root,
		updates: pr.Subscribe(),
		spinner: s,
		bar:     bprogress.New(bprogress.WithDefaultGradient()),
	}
}

// Init starts the scan and the progress listeners
func (m *ScanModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			report, err := m.engine.Scan(ctx, m.root)
			return scanDoneMsg{report: report, err: err}
		},
		m.waitForProgress,
	)
}

func (m *ScanModel) waitForProgress() tea.Msg {
	sp, ok := <-m.updates
	if !ok {
		return nil
	}
	return progressMsg(sp)
}

// Update handles messages
func (m *ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.current = progress.ScanProgress(msg)
		return m, m.waitForProgress

	case scanDoneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the scan view
func (m *ScanModel) View() string {
	if m.done {
		return m.summaryView()
	}

	title := styles.TitleStyle.Render("🔍 Scanning for duplicates")
	root := styles.FilePathStyle.Render(m.root)

	var body string
	switch m.current.Phase {
	case progress.PhaseCounting, "":
		body = fmt.Sprintf("%s Counting files...", m.spinner.View())
	default:
		frac := 0.0
		if m.current.FilesTotal > 0 {
			frac = float64(m.current.FilesHashed) / float64(m.current.FilesTotal)
		}
		body = fmt.Sprintf("%s Hashing %d/%d files (%s)\n\n%s\n\n%s",
			m.spinner.View(),
			m.current.FilesHashed,
			m.current.FilesTotal,
			styles.StatStyle.Render(humanize.IBytes(uint64(m.current.BytesHashed))),
			m.bar.ViewAs(frac),
			styles.FilePathStyle.Render(truncatePath(m.current.CurrentPath, 70)))
	}

	help := styles.HelpStyle.Render("q to cancel")

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", title, root, body, help)
}

func (m *ScanModel) summaryView() string {
	if m.err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("✗ Scan failed: %v", m.err)) + "\n"
	}

	r := m.report
	lines := fmt.Sprintf("Files scanned: %d (%s)\nDuplicate groups: %d\nReclaimable: %s",
		r.TotalFiles,
		humanize.IBytes(uint64(r.TotalBytes)),
		len(r.Groups),
		styles.StatStyle.Render(humanize.IBytes(uint64(r.TotalDuplicateBytes))))
	if len(r.Skipped) > 0 {
		lines += fmt.Sprintf("\nSkipped: %d", len(r.Skipped))
	}

	return styles.SuccessStyle.Render("✓ Scan complete") + "\n" + styles.PanelStyle.Render(lines) + "\n"
}

// Report returns the finished report, nil for cancelled or failed scans
func (m *ScanModel) Report() *scanner.ScanReport {
	return m.report
}

// Err returns the scan error, if any
func (m *ScanModel) Err() error {
	return m.err
}

// RunScan runs the interactive scan view and returns the resulting report
func RunScan(engine *scanner.Engine, pr *progress.ProgressReporter, root string) (*scanner.ScanReport, error) {
	model := NewScanModel(engine, pr, root)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, err
	}
	return model.Report(), model.Err()
}

func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}
