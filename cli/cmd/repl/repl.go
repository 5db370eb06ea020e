package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/mexl/lang"
	"github.com/ardnew/mexl/log"
	"github.com/ardnew/mexl/model"
)

// editModelMsg is sent when editing the model file completes and it reloads.
type editModelMsg struct{ model *model.Model }

// editDeclinedMsg is sent when the user declined to re-edit after a load
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-load error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  list [CAT]    List referable identifiers, optionally of one category
  kind [KIND]   Show or switch the expression owner kind
  fold [on|off] Show or switch case-insensitive identifier matching
  edit          Edit the model file in external $EDITOR and reload
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type an expression to resolve, validate, and evaluate it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Type "Category." to browse the members of one category
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the eval echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Options configures a REPL session over one loaded model.
type Options struct {
	Model    *model.Model
	Path     string // model file the session was loaded from
	Owner    lang.Owner
	CacheDir string
	Logger   log.Logger
	Fold     bool
}

// ui is the Bubble Tea model for the REPL.
type ui struct {
	ctxFunc      func() context.Context
	table        *lang.Table
	calc         *model.Calc
	history      *History
	input        textinput.Model
	opts         Options
	owner        lang.Owner
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	evalText     string
	ctrlText     string
	preTabText   string // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	evalCursor   int
	ctrlCursor   int
	mode         inputMode
	fold         bool
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Run starts the REPL over the given loaded model.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if opts.Model == nil {
		return ErrNoModel
	}

	opts.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("model", opts.Model.ID),
		slog.String("path", opts.Path),
		slog.String("kind", opts.Owner.Name),
	)

	table, err := opts.Model.Table()
	if err != nil {
		return err
	}

	calc, err := model.NewCalc(opts.Model,
		model.WithCaseFold(opts.Fold),
		model.WithLogger(opts.Logger),
	)
	if err != nil {
		return err
	}

	if err := calc.BindNetFluxes(); err != nil {
		return err
	}

	history := NewHistory(filepath.Join(opts.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	opts.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	u := newUI(ctx, opts, table, calc, history)

	p := tea.NewProgram(u, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newUI(
	ctx context.Context,
	opts Options,
	table *lang.Table,
	calc *model.Calc,
	history *History,
) ui {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return ui{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		opts:       opts,
		owner:      opts.Owner,
		fold:       opts.Fold,
		table:      table,
		calc:       calc,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (u ui) Init() tea.Cmd {
	return textinput.Blink
}

func (u ui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return u.handleKey(msg)

	case tea.WindowSizeMsg:
		u.width = msg.Width
		u.input.Width = msg.Width - len(evalPrompt) - 2

		return u, nil

	case editModelMsg:
		return u.reload(msg.model)

	case editDeclinedMsg:
		u.quitting = true

		return u, tea.Quit

	case editErrorMsg:
		return u, tea.Println(
			errorStyle.Render("🗴 — error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	u.input, cmd = u.input.Update(msg)

	return u, cmd
}

// reload swaps in a freshly edited model, rebuilding the symbol table and
// calculator the session resolves and evaluates against.
func (u ui) reload(m *model.Model) (ui, tea.Cmd) {
	table, err := m.Table()
	if err != nil {
		return u, tea.Println(errorStyle.Render("🗴 — error: " + err.Error()))
	}

	calc, err := model.NewCalc(m,
		model.WithCaseFold(u.fold),
		model.WithLogger(u.opts.Logger),
	)
	if err != nil {
		return u, tea.Println(errorStyle.Render("🗴 — error: " + err.Error()))
	}

	if err := calc.BindNetFluxes(); err != nil {
		return u, tea.Println(errorStyle.Render("🗴 — error: " + err.Error()))
	}

	u.opts.Model = m
	u.table = table
	u.calc = calc

	u.opts.Logger.TraceContext(
		u.ctxFunc(),
		"repl edit complete",
		slog.String("model", m.ID),
	)

	return u, tea.Println(resultStyle.Render("✔ — model reloaded"))
}

func (u ui) View() string {
	if u.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(u.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := u.input.Value()

	// Check if we're viewing history
	viewingHistory := u.historyIdx < u.history.Len()

	// Check if cursor is inside a function call
	cursor := u.input.Position()
	funcCall := detectFunctionCall(input, cursor)

	switch {
	case viewingHistory:
		// Show history position indicator
		pos := u.historyIdx + 1 // 1-based for display
		total := u.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		var hint string
		if u.mode == modeEval {
			hint = fmt.Sprintf("Type a %s expression or press Esc for commands",
				u.owner.Name)
		} else {
			hint = "Type: help, list, kind, fold, edit, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case funcCall.inCall && u.mode == modeEval:
		// Show function signature hint with current parameter highlighted
		signature, params := getSignature(u.owner, funcCall.name)
		if signature != "" {
			hint := renderSignatureHint(signature, params, funcCall.argIndex)
			b.WriteString(hint)
			b.WriteString("\n")
		} else if len(u.matches) > 0 {
			// Function not found, show completion bar if available
			bar := renderCandidateBar(
				u.matches, u.suggIdx, u.tabActive, u.width,
			)
			b.WriteString(bar)
			b.WriteString("\n")
		} else {
			b.WriteString("\n")
		}

	case len(u.matches) > 0:
		// Render horizontal candidate bar.
		bar := renderCandidateBar(
			u.matches, u.suggIdx, u.tabActive, u.width,
		)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

func (u ui) handleKey(msg tea.KeyMsg) (ui, tea.Cmd) {
	u.opts.Logger.TraceContext(
		u.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if u.input.Value() == "" {
			u.quitting = true

			return u, tea.Quit
		}

		u.input.SetValue("")
		u.tabActive = false
		u.historyIdx = u.history.Len()
		refreshMatches(&u, false)

		return u, nil

	case tea.KeyCtrlD:
		if u.input.Value() == "" {
			u.quitting = true

			return u, tea.Quit
		}

		return u, nil

	case tea.KeyEnter:
		if !u.tabActive || len(u.matches) == 0 {
			return u.executeInput()
		}
		// Lock in the current tab candidate without executing.
		u.tabActive = false
		refreshMatches(&u, true)

		return u, nil

	case tea.KeyTab:
		return u.handleTab(1)

	case tea.KeyShiftTab:
		return u.handleTab(-1)

	case tea.KeyUp:
		return u.historyPrev()

	case tea.KeyDown:
		return u.historyNext()

	case tea.KeyEsc:
		if u.tabActive {
			u.tabActive = false
			u.input.SetValue(u.preTabText)
			u.input.SetCursor(u.preTabCursor)
			refreshMatches(&u, false)

			return u, nil
		}

		return u.toggleMode()

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if u.tabActive && msg.String() == " " {
			u.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		u.historyIdx = u.history.Len()
		u.input, cmd = u.input.Update(msg)
		refreshMatches(&u, true)

		return u, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	u.tabActive = false
	// Reset history index when typing
	u.historyIdx = u.history.Len()
	u.input, cmd = u.input.Update(msg)
	refreshMatches(&u, false)

	return u, cmd
}

// handleTab cycles through completion candidates in the given direction.
func (u ui) handleTab(step int) (ui, tea.Cmd) {
	if len(u.matches) == 0 {
		return u, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(u.matches) == 1 {
		replaceCurrentWord(&u, u.matches[0].Str)
		u.tabActive = false
		u.suggIdx = -1
		u.matches = nil

		return u, nil
	}

	if u.tabActive {
		u.suggIdx += step
		if u.suggIdx >= len(u.matches) {
			u.suggIdx = 0
		}

		if u.suggIdx < 0 {
			u.suggIdx = len(u.matches) - 1
		}
	} else {
		u.tabActive = true
		u.preTabText = u.input.Value()
		u.preTabCursor = u.input.Position()

		if step > 0 {
			u.suggIdx = 0
		} else {
			u.suggIdx = len(u.matches) - 1
		}
	}

	replaceCurrentWord(&u, u.matches[u.suggIdx].Str)

	return u, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(u *ui, replacement string) {
	input := u.input.Value()
	newInput := input[:u.wordStart] + replacement + input[u.wordEnd:]
	newCursor := u.wordStart + len(replacement)

	u.input.SetValue(newInput)
	u.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	u.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(u *ui, autoConfirm bool) {
	u.matches, u.candidates, u.wordStart, u.wordEnd = u.computeMatches()

	if !u.tabActive {
		u.suggIdx = -1
	}

	if !autoConfirm || len(u.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := u.matches[0].Str
	word := u.input.Value()[u.wordStart:u.wordEnd]

	if word == candidate {
		replaceCurrentWord(u, candidate)
		u.tabActive = false
		u.suggIdx = -1
		u.matches = nil
	}
}

func (u ui) executeInput() (ui, tea.Cmd) {
	input := strings.TrimSpace(u.input.Value())
	if input == "" {
		return u, nil
	}

	// Reset both mode inputs after submission
	u.evalText = ""
	u.evalCursor = 0
	u.ctrlText = ""
	u.ctrlCursor = 0
	u.input.SetValue("")

	if u.mode == modeCtrl {
		// Control mode - add to history and execute command
		_, _ = u.history.WriteWithMode(input, modeCtrl)
		u.historyIdx = u.history.Len()
		u.opts.Logger.TraceContext(
			u.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return u.executeCommand(input)
	}

	// Eval mode - add to history and evaluate
	_, _ = u.history.WriteWithMode(input, modeEval)
	u.historyIdx = u.history.Len()
	u.opts.Logger.TraceContext(
		u.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	// Echo the command
	echoCmd := tea.Println(formatCommand(input))

	// Resolve, validate, and evaluate
	result, err := u.evaluate(input)
	if err != nil {
		u.opts.Logger.TraceContext(
			u.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()),
		)

		return u, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	u.opts.Logger.TraceContext(
		u.ctxFunc(),
		"repl eval result",
		slog.String("result", result),
	)

	return u, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(result)),
	)
}

// evaluate resolves input under the session's owner kind and evaluates it
// against the loaded model.
func (u ui) evaluate(input string) (string, error) {
	p, err := lang.Parse(u.owner, "repl", input, u.table,
		lang.WithCaseFold(u.fold),
		lang.WithLogger(u.opts.Logger),
	)
	if err != nil {
		return "", err
	}

	if err := p.Validate(); err != nil {
		return "", err
	}

	u.calc.Reset()

	out, err := u.calc.Eval(p)
	if err != nil {
		return "", err
	}

	switch v := out.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil

	case bool:
		return strconv.FormatBool(v), nil

	default:
		return fmt.Sprint(v), nil
	}
}

func (u ui) executeCommand(input string) (ui, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return u, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	u.opts.Logger.TraceContext(
		u.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		u.quitting = true

		return u, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return u, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return u, tea.Sequence(echoCmd, tea.Println(u.listIdentifiers(args)))

	case "k", "kind":
		var out string

		u, out = u.switchKind(args)

		return u, tea.Sequence(echoCmd, tea.Println(out))

	case "f", "fold":
		var out string

		u, out = u.switchFold(args)

		return u, tea.Sequence(echoCmd, tea.Println(out))

	case "c", "clear":
		return u, tea.ClearScreen

	case "e", "edit":
		var editCmd tea.Cmd

		u, editCmd = u.handleEdit()

		return u, tea.Sequence(echoCmd, editCmd)

	default:
		return u, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (u ui) handleEdit() (ui, tea.Cmd) {
	cmd := &editModelCommand{
		path:    u.opts.Path,
		fold:    u.fold,
		ctxFunc: u.ctxFunc,
		logger:  u.opts.Logger,
	}

	return u, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.loaded == nil {
			return editErrorMsg{err: ErrNoModel}
		}

		return editModelMsg{model: cmd.loaded}
	})
}

// listIdentifiers renders the referable identifiers of the loaded model,
// optionally restricted to one category.
func (u ui) listIdentifiers(args []string) string {
	var b strings.Builder

	for _, cat := range u.table.Categories() {
		if len(args) > 0 && !strings.EqualFold(args[0], cat.Name) {
			continue
		}

		ids := u.table.IDs(cat.Name)

		b.WriteString(fmt.Sprintf("  %s %s\n",
			cat.Name,
			hintStyle.Render("("+strconv.Itoa(len(ids))+")"),
		))

		for _, id := range ids {
			b.WriteString("    ")
			b.WriteString(id)
			b.WriteString(hintStyle.Render(u.valuePreview(cat.Name, id)))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// valuePreview renders an identifier's current value, when one computes.
func (u ui) valuePreview(category, id string) string {
	var (
		v   float64
		err error
	)

	switch category {
	case model.ObservableCategory:
		v, err = u.calc.Observable(id)

	case model.FunctionCategory:
		v, err = u.calc.Function(id)

	default:
		obj, _, ok := u.table.Lookup(category, id, false)
		if !ok {
			return ""
		}

		switch x := obj.(type) {
		case *model.Parameter:
			v = x.Value

		case *model.Species:
			v = x.Concentration

		case *model.Compartment:
			v = x.Volume

		default:
			return ""
		}
	}

	if err != nil {
		return " = ?"
	}

	return " = " + strconv.FormatFloat(v, 'g', -1, 64)
}

// switchKind shows or switches the owner kind expressions resolve under.
func (u ui) switchKind(args []string) (ui, string) {
	if len(args) == 0 {
		return u, hintStyle.Render("kind: " + u.owner.Name)
	}

	owner, ok := ownerKind(args[0])
	if !ok {
		return u, errorStyle.Render("Unknown kind: " + args[0])
	}

	u.owner = owner

	return u, resultStyle.Render("kind: " + u.owner.Name)
}

// switchFold shows or switches case-insensitive identifier matching.
func (u ui) switchFold(args []string) (ui, string) {
	if len(args) == 0 {
		return u, hintStyle.Render("fold: " + strconv.FormatBool(u.fold))
	}

	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		u.fold = true

	case "off", "false", "0":
		u.fold = false

	default:
		return u, errorStyle.Render("Expected on or off, not: " + args[0])
	}

	calc, err := model.NewCalc(u.opts.Model,
		model.WithCaseFold(u.fold),
		model.WithLogger(u.opts.Logger),
	)
	if err != nil {
		return u, errorStyle.Render("error: " + err.Error())
	}

	if err := calc.BindNetFluxes(); err != nil {
		return u, errorStyle.Render("error: " + err.Error())
	}

	u.calc = calc

	return u, resultStyle.Render("fold: " + strconv.FormatBool(u.fold))
}

// ownerKind maps a kind name to its expression contract.
func ownerKind(name string) (lang.Owner, bool) {
	kinds := map[string]func() lang.Owner{
		"observable":     model.ObservableExpression,
		"function":       model.FunctionExpression,
		"rate-law":       model.RateLawExpression,
		"objective":      model.ObjectiveExpression,
		"stop-condition": model.StopConditionExpression,
	}

	kind, ok := kinds[strings.ToLower(name)]
	if !ok {
		return lang.Owner{}, false
	}

	return kind(), true
}

func (u ui) historyPrev() (ui, tea.Cmd) {
	if u.historyIdx > 0 {
		u.historyIdx--

		if entry, err := u.history.GetEntry(u.historyIdx); err == nil {
			// Switch mode if needed
			if u.mode != entry.Mode {
				u, _ = u.switchToMode(entry.Mode)
			}

			u.input.SetValue(entry.Line)
			u.input.SetCursor(len(entry.Line))
			refreshMatches(&u, false)
		}
	}

	return u, nil
}

func (u ui) historyNext() (ui, tea.Cmd) {
	if u.historyIdx < u.history.Len()-1 {
		u.historyIdx++

		if entry, err := u.history.GetEntry(u.historyIdx); err == nil {
			// Switch mode if needed
			if u.mode != entry.Mode {
				u, _ = u.switchToMode(entry.Mode)
			}

			u.input.SetValue(entry.Line)
			u.input.SetCursor(len(entry.Line))
			refreshMatches(&u, false)
		}
	} else {
		u.historyIdx = u.history.Len()
		u.input.SetValue("")
		refreshMatches(&u, false)
	}

	return u, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (u ui) toggleMode() (ui, tea.Cmd) {
	if u.mode == modeEval {
		return u.switchToMode(modeCtrl)
	}

	return u.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (u ui) switchToMode(mode inputMode) (ui, tea.Cmd) {
	// Save current mode's input
	if u.mode == modeEval {
		u.evalText = u.input.Value()
		u.evalCursor = u.input.Position()
	} else {
		u.ctrlText = u.input.Value()
		u.ctrlCursor = u.input.Position()
	}

	// Switch to target mode
	u.mode = mode
	if mode == modeEval {
		u.input.Prompt = promptStyle.Render(evalPrompt)
		u.input.SetValue(u.evalText)
		u.input.SetCursor(u.evalCursor)
	} else {
		u.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		u.input.SetValue(u.ctrlText)
		u.input.SetCursor(u.ctrlCursor)
	}

	refreshMatches(&u, false)

	return u, nil
}
