package dbg

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"breadboard/pad"
)

var (
	lcdStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// renderLCD draws the two display lines inside a frame.
func renderLCD(line1, line2 string) string {
	return lcdStyle.Render(line1 + "\n" + line2)
}

// keymap from terminal keys to controller buttons; wasd moves, jkl; are A,
// B, Select and Start, matching the shipped ROMs' expectations.
var keyButtons = map[string]pad.Button{
	"w": pad.Up,
	"s": pad.Down,
	"a": pad.Left,
	"d": pad.Right,
	"j": pad.A,
	"k": pad.B,
	"l": pad.Select,
	";": pad.Start,
}

// tickMsg paces the run loop: one frame's worth of cycles per tick.
type tickMsg time.Time

// runModel is the bubbletea model for the interactive run mode. Each frame
// executes a slice of cycles, checks halt/breakpoints, and repaints the
// display when it reports dirty.
type runModel struct {
	d        *Debugger
	skipBPs  int
	line1    string
	line2    string
	stopped  bool
	stopNote string
}

func (m runModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// cyclesPerFrame approximates the paced clock rate; bench mode runs a much
// larger slice per frame. Both modes wait for the same frame tick.
func (m *runModel) cyclesPerFrame() int {
	if m.d.bench {
		return 2_000_000
	}
	return int(16 * time.Millisecond / cycleTime)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.stopped = true
			m.stopNote = "cancelled"
			return m, tea.Quit
		default:
			if con := m.d.sys.Controller(); con != nil {
				if btn, ok := keyButtons[msg.String()]; ok {
					con.OnPress(btn)
					con.OnRelease(btn)
				}
			}
		}
		return m, nil

	case tickMsg:
		start := m.d.cycleCount
		for m.d.cycleCount-start < uint64(m.cyclesPerFrame()) {
			m.d.StepInstruction()

			if m.d.sys.Halted() {
				m.stopped = true
				m.stopNote = "halted"
				return m, tea.Quit
			}
			if m.d.atBreakpoint() {
				if m.skipBPs == 0 {
					m.stopped = true
					m.stopNote = "breakpoint"
					return m, tea.Quit
				}
				m.skipBPs--
			}
		}

		if dsp := m.d.sys.Display(); dsp != nil && dsp.Dirty() {
			m.line1, m.line2 = dsp.Output()
		}
		return m, tick()
	}
	return m, nil
}

func (m runModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("%2.2f MHz", m.d.mhz()))
	if m.d.sys.Display() == nil {
		return status + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLCD(m.line1, m.line2), status) + "\n"
}

// runInteractive drives the board under a bubbletea program until halt,
// breakpoint or Escape. skipBPs breakpoint hits are run through before
// stopping; run defaults to one so a loop can breakpoint on its own entry.
func (d *Debugger) runInteractive(out io.Writer, skipBPs int) {
	m := runModel{d: d, skipBPs: skipBPs}
	if dsp := d.sys.Display(); dsp != nil {
		m.line1, m.line2 = dsp.Output()
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		fmt.Fprintln(out, "run:", err)
		return
	}
	if fm, ok := final.(runModel); ok && fm.stopNote != "" {
		fmt.Fprintln(out, fm.stopNote)
	}
	d.showCPU(out)
}
