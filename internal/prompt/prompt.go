package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reelcut/internal/assembly"
)

// ErrCancelled is returned when the operator quits without choosing.
var ErrCancelled = errors.New("prompt cancelled")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Choice is the operator's answer.
type Choice struct {
	Mode  assembly.Mode
	Order assembly.Order
}

type step int

const (
	stepMode step = iota
	stepOrder
	stepDone
)

type option struct {
	label string
	value string
}

var (
	modeOptions = []option{
		{label: "Join every cut into a single video", value: string(assembly.ModeCompiled)},
		{label: "Save each cut as a separate file", value: string(assembly.ModeIndividual)},
	}
	orderOptions = []option{
		{label: "Chronological (manifest order)", value: string(assembly.OrderChronological)},
		{label: "Random (shuffle all cuts)", value: string(assembly.OrderRandom)},
	}
)

// Model is the Bubble Tea model behind Ask.
type Model struct {
	step      step
	cursor    int
	choice    Choice
	cancelled bool
}

// NewModel returns a model positioned on the mode question.
func NewModel() Model {
	return Model{choice: Choice{Order: assembly.OrderChronological}}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options())-1 {
			m.cursor++
		}
	case "1", "2":
		m.cursor = int(key.String()[0] - '1')
		return m.confirm()
	case "enter":
		return m.confirm()
	}
	return m, nil
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	selected := m.options()[m.cursor].value
	m.cursor = 0
	switch m.step {
	case stepMode:
		m.choice.Mode = assembly.Mode(selected)
		if m.choice.Mode == assembly.ModeIndividual {
			m.step = stepDone
			return m, tea.Quit
		}
		m.step = stepOrder
		return m, nil
	case stepOrder:
		m.choice.Order = assembly.Order(selected)
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) options() []option {
	if m.step == stepOrder {
		return orderOptions
	}
	return modeOptions
}

// View implements tea.Model.
func (m Model) View() string {
	if m.step == stepDone || m.cancelled {
		return ""
	}
	question := "What do you want to do?"
	if m.step == stepOrder {
		question = "In which order should the final video play?"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(question))
	b.WriteString("\n\n")
	for i, opt := range m.options() {
		line := fmt.Sprintf("[%d] %s", i+1, opt.label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("1/2 or arrows + enter to choose, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result reports the final choice, or ErrCancelled.
func (m Model) Result() (Choice, error) {
	if m.cancelled || m.step != stepDone {
		return Choice{}, ErrCancelled
	}
	return m.choice, nil
}

// Ask runs the prompt on the given terminal streams.
func Ask(ctx context.Context, in io.Reader, out io.Writer) (Choice, error) {
	program := tea.NewProgram(NewModel(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return Choice{}, ErrCancelled
		}
		return Choice{}, fmt.Errorf("run prompt: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Choice{}, fmt.Errorf("unexpected prompt model %T", final)
	}
	return model.Result()
}
