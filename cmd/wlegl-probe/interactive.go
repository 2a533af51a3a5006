package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wlegl/gralloc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectStep modelState = iota
	stateEditDesc
	stateShowResult
)

var descFields = []string{"width", "height", "format", "usage"}

type interactiveModel struct {
	err      error
	probe    *probe
	opts     probeOptions
	result   string
	done     map[string]bool
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type loadedMsg struct {
	err   error
	probe *probe
}

type stepResultMsg struct {
	err    error
	name   string
	result string
}

func newInteractiveModel(opts probeOptions) *interactiveModel {
	return &interactiveModel{
		opts:  opts,
		done:  make(map[string]bool),
		state: stateSelectStep,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadBridge
}

func (m *interactiveModel) loadBridge() tea.Msg {
	p, err := newProbe(m.opts)
	return loadedMsg{probe: p, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateEditDesc && msg.String() == "q" {
				break
			}
			if m.probe != nil {
				_ = m.probe.Close()
				m.probe = nil
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectStep && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectStep && m.probe != nil && m.selected < len(m.probe.Steps())-1 {
				m.selected++
			}

		case "e":
			if m.state == stateSelectStep {
				m.prepareInputs()
				m.state = stateEditDesc
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectStep:
				if m.probe != nil {
					return m, m.runStep(m.selected)
				}

			case stateEditDesc:
				if err := m.applyInputs(); err != nil {
					m.err = err
					m.result = ""
					m.state = stateShowResult
					return m, nil
				}
				m.inputs = nil
				m.state = stateSelectStep
				return m, nil

			case stateShowResult:
				m.state = stateSelectStep
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateEditDesc && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateEditDesc:
				m.state = stateSelectStep
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectStep
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.probe = msg.probe

	case stepResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.done[msg.name] = msg.err == nil
		m.state = stateShowResult
		if msg.err == nil && m.probe != nil && m.selected < len(m.probe.Steps())-1 {
			m.selected++
		}
	}

	if m.state == stateEditDesc {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// runStep runs the step on the update goroutine; the bridge is not safe
// for concurrent use.
func (m *interactiveModel) runStep(i int) tea.Cmd {
	s := m.probe.Steps()[i]
	out, err := s.run()
	msg := stepResultMsg{name: s.name, result: out, err: err}
	return func() tea.Msg { return msg }
}

func (m *interactiveModel) prepareInputs() {
	values := []string{
		strconv.Itoa(int(m.opts.width)),
		strconv.Itoa(int(m.opts.height)),
		m.opts.format.String(),
		fmt.Sprintf("%#x", int32(m.opts.usage)),
	}
	m.inputs = make([]textinput.Model, len(descFields))
	for i, name := range descFields {
		ti := textinput.New()
		ti.Prompt = name + ": "
		ti.SetValue(values[i])
		ti.Width = 24
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) applyInputs() error {
	width, err := strconv.ParseInt(m.inputs[0].Value(), 10, 32)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	height, err := strconv.ParseInt(m.inputs[1].Value(), 10, 32)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	format, err := gralloc.ParseFormat(m.inputs[2].Value())
	if err != nil {
		return err
	}
	usage, err := strconv.ParseInt(m.inputs[3].Value(), 0, 32)
	if err != nil {
		return fmt.Errorf("usage: %w", err)
	}

	m.opts.width, m.opts.height = int32(width), int32(height)
	m.opts.format, m.opts.usage = format, gralloc.Usage(usage)
	if m.probe != nil {
		m.probe.SetDesc(m.opts.width, m.opts.height, m.opts.format, m.opts.usage)
	}
	return nil
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.probe == nil {
		return "Loading allocator module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("android_wlegl probe"))
	b.WriteString(" ")
	b.WriteString(m.probe.ModuleInfo())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%dx%d %s usage %s",
		m.opts.width, m.opts.height, m.opts.format, m.opts.usage)))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectStep:
		b.WriteString("Select a step to run:\n\n")
		for i, s := range m.probe.Steps() {
			mark := " "
			if ok, ran := m.done[s.name]; ran {
				mark = "✓"
				if !ok {
					mark = "✗"
				}
			}
			line := mark + " " + s.name
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + stepStyle.Render(line))
			}
			b.WriteString("\n")
		}
		stats := m.probe.Stats()
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("handles %d • buffers %d • request errors %d",
			stats.Handles, stats.Buffers, stats.RequestErrors)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • e edit buffer • q quit"))

	case stateEditDesc:
		b.WriteString("Buffer parameters:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter apply • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(opts probeOptions) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
