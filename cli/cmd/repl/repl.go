package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quasi/lang"
	"github.com/ardnew/quasi/log"
)

// editDoneMsg carries the expression composed in the editor.
type editDoneMsg struct{ src string }

// editCancelledMsg is sent when the editor was left empty.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to fix a parse error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode, or prefix a line with ':'):

  help               Print this help
  names [PATTERN]    List visible names, optionally fuzzy filtered
  row [N]            Show the selected dataset row, or select row N
  bind NAME = EXPR   Evaluate EXPR and bind the result to NAME
  quote NAME = EXPR  Bind the unevaluated EXPR to NAME, for use with !!NAME
  expand EXPR        Print EXPR with every unquote substituted
  tree EXPR          Print the expanded expression tree
  edit               Compose an expression in $EDITOR
  clear              Clear screen
  quit               Exit

Usage:
  Type an expression to evaluate it against the selected row
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func echo(mode inputMode, input string) tea.Cmd {
	if mode == modeCtrl {
		return tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))
	}

	return tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))
}

type model struct {
	ctx          context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	saved        [2]struct {
		text   string
		cursor int
	}
}

// Run reads and evaluates expressions in session until the user quits.
// History is kept in cacheDir; an empty cacheDir keeps it in memory.
func Run(
	ctx context.Context,
	session *Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entries", history.Len()),
		slog.Int("rows", session.Rows()),
	)

	_, err = tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		return m, tea.Sequence(echo(modeEval, msg.src), m.eval(msg.src))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, printError(msg.err)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("help, names, row, bind, quote, expand, tree, edit, clear, quit (Esc to return)")
		}

		hint := "Type an expression or press Esc for commands"
		if n := m.session.Rows(); n > 0 {
			hint = fmt.Sprintf("[row %d/%d] %s", m.session.Row()+1, n, hint)
		}

		return hintStyle.Render(hint)
	}

	if len(m.matches) == 0 && m.mode == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, ok := signatureOf(m.session, call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidates(m.matches, m.suggIdx, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil

	case tea.KeyRunes:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the completion selection by step, replacing the word under
// the cursor. A single candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions for the word under the cursor.
// With accept set, a word that already equals its only candidate is
// accepted so the bar does not linger.
func (m *model) refreshMatches(accept bool) {
	if m.tabActive {
		return
	}

	input := m.input.Value()

	var word string

	word, m.wordStart, m.wordEnd = wordBounds(input, m.input.Position())
	m.matches = match(word, candidates(m.mode, input, m.wordStart, m.session.Names()))
	m.suggIdx = -1

	if accept && len(m.matches) == 1 && m.matches[0].Str == word {
		m.matches = nil
	}
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode
	if rest, ok := strings.CutPrefix(input, ":"); ok && mode == modeEval {
		mode, input = modeCtrl, strings.TrimSpace(rest)
	}

	m.saved = [2]struct {
		text   string
		cursor int
	}{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctx, "repl submit",
		slog.Int("mode", int(mode)),
		slog.String("input", input),
	)

	if mode == modeCtrl {
		return m.command(input)
	}

	return m, tea.Sequence(echo(modeEval, input), m.eval(input))
}

func (m model) eval(src string) tea.Cmd {
	v, err := m.session.Eval(m.ctx, src)
	if err != nil {
		return printError(err)
	}

	return tea.Println(resultStyle.Render(formatValue(v)))
}

func (m model) command(input string) (model, tea.Cmd) {
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	out := echo(modeCtrl, input)

	switch verb {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(out, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(out, tea.Println(helpMessage))

	case "n", "names":
		return m, tea.Sequence(out, tea.Println(m.names(rest)))

	case "r", "row":
		return m, tea.Sequence(out, m.row(rest))

	case "b", "bind", "quote":
		return m, tea.Sequence(out, m.bind(verb == "quote", rest))

	case "x", "expand", "t", "tree":
		return m, tea.Sequence(out, m.expand(verb == "t" || verb == "tree", rest))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(out, m.edit(rest))

	default:
		return m, tea.Sequence(out, printError(
			fmt.Errorf("%w: unknown command %q (try 'help')", ErrUsage, verb)))
	}
}

func (m model) names(pattern string) string {
	names := m.session.Names()

	if pattern != "" {
		matches := fuzzy.Find(pattern, names)

		names = make([]string, len(matches))
		for i, mt := range matches {
			names[i] = mt.Str
		}
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := m.session.Lookup(name)
		fmt.Fprintf(&b, "  %-*s %s\n", width, name, hintStyle.Render(preview(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) row(arg string) tea.Cmd {
	if arg != "" {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return printError(fmt.Errorf("%w: row N", ErrUsage))
		}

		if err := m.session.SelectRow(i - 1); err != nil {
			return printError(err)
		}
	}

	mask := m.session.Mask()
	if mask == nil {
		return printError(ErrNoRows)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "row %d/%d\n", m.session.Row()+1, m.session.Rows())

	for _, name := range mask.Names() {
		v, _ := mask.Lookup(name)
		fmt.Fprintf(&b, "  %s = %s\n", name, formatValue(v))
	}

	return tea.Println(strings.TrimSuffix(b.String(), "\n"))
}

func (m model) bind(quote bool, arg string) tea.Cmd {
	name, src, ok := strings.Cut(arg, "=")
	name, src = strings.TrimSpace(name), strings.TrimSpace(src)

	if !ok || name == "" || src == "" || strings.ContainsAny(name, " \t") {
		return printError(fmt.Errorf("%w: bind NAME = EXPR", ErrUsage))
	}

	if quote {
		q, err := m.session.Define(m.ctx, name, src)
		if err != nil {
			return printError(err)
		}

		return tea.Println(resultStyle.Render(name + " := " + q.String()))
	}

	v, err := m.session.Bind(m.ctx, name, src)
	if err != nil {
		return printError(err)
	}

	return tea.Println(resultStyle.Render(name + " = " + formatValue(v)))
}

func (m model) expand(tree bool, src string) tea.Cmd {
	if src == "" {
		return printError(fmt.Errorf("%w: expand EXPR", ErrUsage))
	}

	q, err := m.session.Expand(m.ctx, src)
	if err != nil {
		return printError(err)
	}

	if !tree {
		return tea.Println(resultStyle.Render(q.Expr().String()))
	}

	var buf bytes.Buffer
	if err := lang.FormatTree(&buf, q.Expr(), 2); err != nil {
		return printError(err)
	}

	return tea.Println(strings.TrimSuffix(buf.String(), "\n"))
}

func (m model) edit(seed string) tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctx:     m.ctx,
		seed:    seed,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.src == "":
			return editCancelledMsg{}
		default:
			return editDoneMsg{src: cmd.src}
		}
	})
}

// recall steps through history by step. With inMode set, entries from the
// other mode are skipped; otherwise the mode follows the recalled entry.
// Stepping past the newest entry clears the input.
func (m model) recall(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchMode changes the input mode, keeping each mode's pending text.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	m.tabActive = false

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.refreshMatches(false)

	return m
}

func printError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: " + err.Error()))
}

// formatValue renders a result in expression syntax.
func formatValue(v any) string {
	switch v := v.(type) {
	case lang.Quote:
		return v.String()
	case lang.Node:
		return v.String()
	default:
		return lang.NewLiteral(v).String()
	}
}

// preview is the short description shown beside a name.
func preview(v any) string {
	switch v := v.(type) {
	case lang.Func:
		return "func"
	case lang.Quote:
		return "quote " + ellipsize(v.String(), 40)
	case nil:
		return "nil"
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "func"
	}

	if s := formatValue(v); len(s) <= 40 {
		return s
	}

	return fmt.Sprintf("%T", v)
}

func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
