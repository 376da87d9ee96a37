package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	cferrors "github.com/cargofeat/cargo-features/pkg/errors"
	"github.com/cargofeat/cargo-features/pkg/prompt"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const defaultListHeight = 10

// scroll moves cursor by delta within n rows, keeping it inside the window
// [offset, offset+height).
func scroll(cursor, offset, height, n, delta int) (int, int) {
	if cursor+delta < 0 || cursor+delta >= n {
		return cursor, offset
	}
	cursor += delta
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	return cursor, offset
}

func listHeight(msg tea.WindowSizeMsg) int {
	return max(msg.Height-5, 3)
}

// =============================================================================
// selectModel - single choice with a fuzzy filter
// =============================================================================

type selectModel struct {
	title   string
	options []prompt.Option
	labels  []string
	input   textinput.Model

	visible []int // indices into options, best match first
	cursor  int
	offset  int
	height  int

	chosen    int
	cancelled bool
}

func newSelectModel(title string, options []prompt.Option, filter string) selectModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "type to filter"
	ti.CharLimit = 256
	ti.SetValue(filter)
	ti.CursorEnd()
	ti.Focus()

	m := selectModel{
		title:   title,
		options: options,
		labels:  prompt.Labels(options),
		input:   ti,
		height:  defaultListHeight,
		chosen:  -1,
	}
	m.refilter()
	return m
}

// refilter recomputes the visible rows from the filter text.
func (m *selectModel) refilter() {
	m.visible = m.visible[:0]
	query := m.input.Value()
	if query == "" {
		for i := range m.options {
			m.visible = append(m.visible, i)
		}
	} else {
		for _, match := range fuzzy.Find(query, m.labels) {
			m.visible = append(m.visible, match.Index)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "ctrl+p":
			m.cursor, m.offset = scroll(m.cursor, m.offset, m.height, len(m.visible), -1)
			return m, nil
		case "down", "ctrl+n":
			m.cursor, m.offset = scroll(m.cursor, m.offset, m.height, len(m.visible), 1)
			return m, nil
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			m.chosen = m.visible[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = listHeight(msg)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m selectModel) View() string {
	if m.chosen >= 0 {
		return StyleTitle.Render(m.title) + " " + StyleHighlight.Render(m.labels[m.chosen]) + "\n"
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(" ")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.height, len(m.visible))
	for row := m.offset; row < end; row++ {
		opt := m.options[m.visible[row]]
		if row == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + opt.Label))
		} else {
			b.WriteString("  " + listNormalStyle.Render(opt.Label))
		}
		if opt.Detail != "" {
			b.WriteString(" " + listDimStyle.Render(opt.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]  ↑/↓ navigate  ⏎ select  esc cancel", len(m.visible), len(m.options))))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// multiSelectModel - toggle a subset
// =============================================================================

type multiSelectModel struct {
	title   string
	options []prompt.Option
	checked []bool

	cursor int
	offset int
	height int

	done      bool
	cancelled bool
}

func newMultiSelectModel(title string, options []prompt.Option, checked []int) multiSelectModel {
	m := multiSelectModel{
		title:   title,
		options: options,
		checked: make([]bool, len(options)),
		height:  defaultListHeight,
	}
	for _, i := range checked {
		if i >= 0 && i < len(options) {
			m.checked[i] = true
		}
	}
	return m
}

// selected returns the checked indices in ascending order.
func (m multiSelectModel) selected() []int {
	out := []int{}
	for i, c := range m.checked {
		if c {
			out = append(out, i)
		}
	}
	return out
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			m.cursor, m.offset = scroll(m.cursor, m.offset, m.height, len(m.options), -1)
		case "down", "j":
			m.cursor, m.offset = scroll(m.cursor, m.offset, m.height, len(m.options), 1)
		case " ", "x":
			if len(m.options) > 0 {
				m.checked[m.cursor] = !m.checked[m.cursor]
			}
		case "right", "a":
			for i := range m.checked {
				m.checked[i] = true
			}
		case "left", "n":
			for i := range m.checked {
				m.checked[i] = false
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = listHeight(msg)
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	if m.done {
		var names []string
		for _, i := range m.selected() {
			names = append(names, m.options[i].Label)
		}
		return StyleTitle.Render(m.title) + " " + StyleHighlight.Render(strings.Join(names, ", ")) + "\n"
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")

	end := min(m.offset+m.height, len(m.options))
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		cursor := "  "
		label := listNormalStyle.Render(opt.Label)
		if i == m.cursor {
			cursor = listSelectedStyle.Render("▸ ")
			label = listSelectedStyle.Render(opt.Label)
		}
		b.WriteString(cursor + renderMark(m.checked[i]) + " " + label)
		if opt.Detail != "" {
			b.WriteString(" " + listDimStyle.Render(opt.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  → all  ← none  ⏎ confirm  esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// TUISelector - prompt.Selector backed by bubbletea
// =============================================================================

// TUISelector runs selection prompts on a terminal.
type TUISelector struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewTUISelector reads keys from in and draws on out. Prompts fail with
// SELECTION_FAILED when in is not a terminal.
func NewTUISelector(in *os.File, out io.Writer) *TUISelector {
	fd := in.Fd()
	return &TUISelector{
		in:          in,
		out:         out,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (s *TUISelector) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	if !s.interactive {
		return nil, cferrors.New(cferrors.ErrCodeSelection, "interactive selection requires a terminal; pass --package and --dependency to narrow the prompts")
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(s.in), tea.WithOutput(s.out))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, prompt.ErrCancelled
		}
		return nil, cferrors.Wrap(cferrors.ErrCodeSelection, err, "run prompt")
	}
	return final, nil
}

// SelectOne implements prompt.Selector.
func (s *TUISelector) SelectOne(ctx context.Context, title string, options []prompt.Option, filter string) (int, error) {
	final, err := s.run(ctx, newSelectModel(title, options, filter))
	if err != nil {
		return -1, err
	}
	m, ok := final.(selectModel)
	if !ok || m.cancelled || m.chosen < 0 {
		return -1, prompt.ErrCancelled
	}
	return m.chosen, nil
}

// SelectMany implements prompt.Selector.
func (s *TUISelector) SelectMany(ctx context.Context, title string, options []prompt.Option, checked []int) ([]int, error) {
	final, err := s.run(ctx, newMultiSelectModel(title, options, checked))
	if err != nil {
		return nil, err
	}
	m, ok := final.(multiSelectModel)
	if !ok || m.cancelled || !m.done {
		return nil, prompt.ErrCancelled
	}
	return m.selected(), nil
}
