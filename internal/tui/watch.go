package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/newtlab/internal/newton"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const sparkWidth = 60

// Watch replays a recorded solve trace iteration by iteration. The solve
// itself has already run to completion; this only scrubs through what it
// recorded.
type Watch struct {
	problem string
	result  *newton.Result
	cursor  int
	width   int
}

func NewWatch(problem string, result *newton.Result) *Watch {
	return &Watch{
		problem: problem,
		result:  result,
		width:   80,
	}
}

func (w *Watch) Init() tea.Cmd { return nil }

func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return w, tea.Quit
		case "left", "h":
			if w.cursor > 0 {
				w.cursor--
			}
		case "right", "l":
			if w.cursor < len(w.result.Trace)-1 {
				w.cursor++
			}
		case "home", "g":
			w.cursor = 0
		case "end", "G":
			w.cursor = len(w.result.Trace) - 1
		}
	}
	return w, nil
}

func (w *Watch) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render(fmt.Sprintf("newtlab watch — %s", w.problem)))
	b.WriteString("\n\n")

	if len(w.result.Trace) == 0 {
		b.WriteString(dim.Render("no trace recorded"))
		b.WriteString("\n")
		return b.String()
	}

	it := w.result.Trace[w.cursor]

	b.WriteString(w.sparkline())
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		dim.Render("iteration"),
		white.Render(fmt.Sprintf("%d / %d", it.Index, w.result.Iterations))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		dim.Render("residual "),
		magenta.Render(fmt.Sprintf("%.6e", it.Norm))))
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		dim.Render("outcome  "),
		w.statusStyle().Render(w.result.Status.String())))

	for i, v := range it.State {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dim.Render(fmt.Sprintf("x%d", i)),
			white.Render(fmt.Sprintf("% .6f", v))))
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n")

	return b.String()
}

func (w *Watch) statusStyle() lipgloss.Style {
	switch w.result.Status {
	case newton.StatusConverged:
		return green
	case newton.StatusExhausted:
		return yellow
	default:
		return red
	}
}

// sparkline renders the residual-norm history on a log scale, marking the
// cursor position.
func (w *Watch) sparkline() string {
	bars := []rune("▁▂▃▄▅▆▇█")
	trace := w.result.Trace

	lo, hi := math.Inf(1), math.Inf(-1)
	logs := make([]float64, len(trace))
	for i, it := range trace {
		v := math.Log10(math.Max(it.Norm, 1e-16))
		logs[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	step := 1
	if len(trace) > sparkWidth {
		step = (len(trace) + sparkWidth - 1) / sparkWidth
	}

	var b strings.Builder
	for i := 0; i < len(trace); i += step {
		frac := (logs[i] - lo) / (hi - lo)
		bar := bars[int(frac*float64(len(bars)-1))]
		if i <= w.cursor && w.cursor < i+step {
			b.WriteString(cyan.Render(string(bar)))
		} else {
			b.WriteString(dim.Render(string(bar)))
		}
	}
	return b.String()
}
