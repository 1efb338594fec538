package formatter

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	message string
	work    func() error
	err     error
	done    bool
}

func newSpinnerModel(message string, work func() error) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleBusy)),
		message: message,
		work:    work,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	work := m.work
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return doneMsg{err: work()}
	})
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			m.err = tea.ErrInterrupted
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + Dim(m.message)
}

// RunWithSpinner runs fn while animating a spinner on out. The spinner line
// is cleared before returning fn's error.
func RunWithSpinner(out io.Writer, message string, fn func() error) error {
	p := tea.NewProgram(newSpinnerModel(message, fn), tea.WithOutput(out), tea.WithInput(nil))
	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(spinnerModel).err
}
