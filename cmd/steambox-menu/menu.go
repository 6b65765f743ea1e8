// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os/exec"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hackeros/steambox/lib/progress"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Margin(1, 0, 1, 2)
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNormal   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleStatus   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Italic(true).Margin(1, 0, 0, 2)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Margin(1, 0, 0, 2)
	styleHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Margin(1, 0, 0, 2)
)

// menuEntry is one selectable operation. Interactive entries take over
// the terminal for the duration of the subprocess; streaming entries
// run in the background with their output parsed for progress events.
type menuEntry struct {
	label       string
	args        []string
	interactive bool
	streams     bool
}

var entries = []menuEntry{
	{label: "Play Steam", args: []string{"run"}, interactive: true},
	{label: "Play Steam (big picture)", args: []string{"run", "deck"}, interactive: true},
	{label: "Sandbox terminal", args: []string{"run", "terminal"}, interactive: true},
	{label: "Create environment", args: []string{"create"}, streams: true},
	{label: "Update packages", args: []string{"update"}, streams: true},
	{label: "Kill session", args: []string{"kill"}},
	{label: "Restart session", args: []string{"restart"}, interactive: true},
	{label: "Remove environment", args: []string{"remove"}},
	{label: "Status", args: []string{"status"}},
	{label: "Quit"},
}

// Messages delivered from background operations.
type (
	progressEventMsg progress.Event
	operationDoneMsg struct {
		label  string
		output string
		err    error
	}
)

type model struct {
	bin     string
	cursor  int
	status  string
	errText string
	busy    bool
	bar     progressbar.Model
	frac    float64
	events  chan tea.Msg
}

func newModel(bin string) model {
	return model{
		bin:    bin,
		status: "Select an operation.",
		bar:    progressbar.New(progressbar.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(entries)-1 {
				m.cursor++
			}
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.selectEntry()
		}

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8

	case progressEventMsg:
		m.frac = msg.Fraction
		if msg.Done {
			m.frac = 1
		}
		return m, m.listen()

	case operationDoneMsg:
		m.busy = false
		m.events = nil
		if msg.err != nil {
			m.errText = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
			m.status = "Select an operation."
		} else {
			m.errText = ""
			m.status = msg.label + " finished."
			if out := strings.TrimSpace(msg.output); out != "" {
				m.status = out
			}
		}
		return m, nil
	}

	return m, nil
}

func (m model) selectEntry() (tea.Model, tea.Cmd) {
	entry := entries[m.cursor]
	if entry.label == "Quit" {
		return m, tea.Quit
	}

	m.errText = ""

	if entry.interactive {
		// Hand the terminal over to the session for its lifetime.
		m.status = entry.label + "..."
		command := exec.Command(m.bin, entry.args...)
		return m, tea.ExecProcess(command, func(err error) tea.Msg {
			return operationDoneMsg{label: entry.label, err: err}
		})
	}

	m.busy = true
	m.frac = 0
	m.status = entry.label + "..."

	if entry.streams {
		m.events = make(chan tea.Msg, 16)
		return m, tea.Batch(m.stream(entry), m.listen())
	}
	return m, m.capture(entry)
}

// capture runs a short operation and reports its combined output.
func (m model) capture(entry menuEntry) tea.Cmd {
	return func() tea.Msg {
		output, err := exec.Command(m.bin, entry.args...).CombinedOutput()
		if err != nil {
			return operationDoneMsg{label: entry.label, output: string(output), err: err}
		}
		return operationDoneMsg{label: entry.label, output: string(output)}
	}
}

// stream runs a long operation, parsing its stdout for progress
// events, and finishes with an operationDoneMsg on the event channel.
func (m model) stream(entry menuEntry) tea.Cmd {
	events := m.events
	return func() tea.Msg {
		command := exec.Command(m.bin, entry.args...)
		stdout, err := command.StdoutPipe()
		if err != nil {
			return operationDoneMsg{label: entry.label, err: err}
		}
		if err := command.Start(); err != nil {
			return operationDoneMsg{label: entry.label, err: err}
		}

		scanErr := progress.Scan(stdout, func(e progress.Event) {
			events <- progressEventMsg(e)
		})
		// Unblock any outstanding listen; a closed channel yields a
		// nil message, which the program ignores.
		close(events)

		err = command.Wait()
		if err == nil {
			err = scanErr
		}
		return operationDoneMsg{label: entry.label, err: err}
	}
}

// listen delivers the next event from a streaming operation.
func (m model) listen() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Steambox") + "\n")

	for i, entry := range entries {
		if i == m.cursor {
			b.WriteString(styleSelected.Render("  > "+entry.label) + "\n")
		} else {
			b.WriteString(styleNormal.Render("    "+entry.label) + "\n")
		}
	}

	b.WriteString(styleStatus.Render(m.status) + "\n")
	if m.errText != "" {
		b.WriteString(styleError.Render(m.errText) + "\n")
	}
	if m.busy {
		b.WriteString("\n  " + m.bar.ViewAs(m.frac) + "\n")
	}
	b.WriteString(styleHelp.Render("up/down: move · enter: select · q: quit") + "\n")

	return b.String()
}
