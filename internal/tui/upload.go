// Package tui renders the upload workflow in the terminal: a progress bar
// while the file streams out, a phase line while the backend generates,
// and the resulting content id on completion.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nkosarev/vidgen/internal/models"
	"github.com/nkosarev/vidgen/internal/upload"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type progressMsg int

type phaseMsg upload.Job

type doneMsg struct{}

type uploadModel struct {
	file models.FileRef

	bar     progress.Model
	spin    spinner.Model
	percent int
	job     upload.Job
}

func newUploadModel(f models.FileRef) uploadModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return uploadModel{
		file: f,
		bar:  progress.New(progress.WithDefaultGradient()),
		spin: sp,
		job:  upload.Job{Phase: upload.PhaseIdle},
	}
}

func (m uploadModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
	case progressMsg:
		m.percent = int(msg)
	case phaseMsg:
		m.job = upload.Job(msg)
	case doneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m uploadModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n",
		titleStyle.Render(m.file.Name),
		dimStyle.Render(humanize.Bytes(uint64(m.file.Size))))

	switch m.job.Phase {
	case upload.PhaseIdle, upload.PhaseUploading:
		fmt.Fprintf(&b, "  %s %d%%\n", m.bar.ViewAs(float64(m.percent)/100), m.percent)
	case upload.PhaseGenerating:
		fmt.Fprintf(&b, "  %s generating video...\n", m.spin.View())
	case upload.PhaseCompleted:
		fmt.Fprintf(&b, "  %s content id: %s\n", okStyle.Render("done"), m.job.ContentID)
	case upload.PhaseError:
		fmt.Fprintf(&b, "  %s %s\n", errStyle.Render("error:"), m.job.Err)
	}

	return b.String()
}

// Run drives the orchestrator under a live terminal view and returns the
// terminal job record.
func Run(ctx context.Context, o *upload.Orchestrator, f models.FileRef) (upload.Job, error) {
	p := tea.NewProgram(newUploadModel(f))

	var startErr error
	go func() {
		startErr = o.Start(ctx, f, upload.Sinks{
			OnProgress: func(percent int) { p.Send(progressMsg(percent)) },
			OnPhase:    func(j upload.Job) { p.Send(phaseMsg(j)) },
		})
		p.Send(doneMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		return upload.Job{}, err
	}
	if startErr != nil {
		return upload.Job{}, startErr
	}
	return final.(uploadModel).job, nil
}
