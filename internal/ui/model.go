package ui

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"wikipath/internal/autocomplete"
	"wikipath/internal/config"
	"wikipath/internal/domain"
	"wikipath/internal/eventbus"
	"wikipath/internal/runner"
	"wikipath/internal/ui/views"
)

// Form fields, in focus order. The first two have autocomplete.
const (
	fieldStart = iota
	fieldEnd
	fieldK
	fieldTimeLimit
	fieldMaxDepth
	fieldCount
)

var fieldLabels = [fieldCount]string{"Start", "End", "Beam width", "Time limit", "Max depth"}

var fieldPlaceholders = [fieldCount]string{"e.g. New York City", "e.g. Albert Einstein", "", "seconds", ""}

const statusTimeout = 3 * time.Second

// Service is the path-search server as the UI uses it
type Service interface {
	autocomplete.Fetcher
	runner.Service
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config

	width  int
	height int

	inputs   [fieldCount]textinput.Model
	focus    int
	complete [2]*autocomplete.Controller

	runner   *runner.Controller
	screen   *views.Screen
	renderer *views.Renderer
	layout   views.Layout

	results      viewport.Model
	resultsWidth int
	spinner      spinner.Model
	help         help.Model
	keys         keyMap

	statusMessage string
	statusKind    views.StatusKind
	statusSetAt   time.Time

	readyMarker bool
	inPagerMode bool
	closed      bool

	copyText func(string) error
	helpOps  *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. Values prefilled from cfg are never submitted on their own.
func NewModel(bus eventbus.EventBus, cfg *config.Config, svc Service) *Model {
	screen := views.NewScreen()

	m := &Model{
		bus:      bus,
		config:   cfg,
		screen:   screen,
		renderer: views.NewRenderer(cfg.UISettings.WikiBaseURL, cfg.UISettings.Hyperlinks),
		results:  viewport.New(0, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     defaultKeyMap(),
		copyText: clipboard.WriteAll,
	}
	m.spinner.Style = m.renderer.Styles().Spinner

	m.runner = runner.New(svc, screen, runner.Options{
		Resubmit:      cfg.Run.Resubmit,
		CancelTimeout: cfg.Server.CancelTimeout(),
		Bus:           bus,
	})

	acOpts := autocomplete.Options{
		MinQueryLength: cfg.Autocomplete.MinQueryLength,
		MaxSuggestions: cfg.Autocomplete.MaxSuggestions,
		Bus:            bus,
	}
	m.complete[fieldStart] = autocomplete.New(domain.FieldStart, svc, acOpts)
	m.complete[fieldEnd] = autocomplete.New(domain.FieldEnd, svc, acOpts)

	prefill := [fieldCount]string{
		cfg.Search.Start,
		cfg.Search.End,
		positive(cfg.Search.K),
		positive(cfg.Search.TimeLimit),
		positive(cfg.Search.MaxDepth),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 256
		if i >= fieldK {
			ti.CharLimit = 5
		}
		ti.Width = 40
		ti.SetValue(prefill[i])
		m.inputs[i] = ti
	}
	m.complete[fieldStart].SetValue(prefill[fieldStart])
	m.complete[fieldEnd].SetValue(prefill[fieldEnd])
	m.inputs[fieldStart].Focus()

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// SetReadyMarker makes every frame carry the e2e ready marker
func (m *Model) SetReadyMarker(on bool) {
	m.readyMarker = on
}

// Wait blocks until outstanding cancel notices have settled
func (m *Model) Wait() {
	m.runner.Wait()
}

// Mode returns the run controller's mode
func (m *Model) Mode() domain.Mode {
	return m.runner.Mode()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.resize()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.width == 0 && m.bus != nil {
			m.bus.Publish(eventbus.AppReadyEvent{Width: msg.Width, Height: msg.Height})
		}
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case suggestionsMsg:
		i := fieldIndex(msg.result.Field)
		if i < 0 {
			return nil
		}
		if m.complete[i].Apply(msg.result) && i != m.focus {
			// the user moved on while the lookup was in flight
			m.complete[i].Dismiss()
		}
		return nil

	case runOutcomeMsg:
		return m.handleOutcome(msg.outcome)

	case spinner.TickMsg:
		if !m.screen.LoaderVisible {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case EventMsg:
		return m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
		}
		return nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return nil

	case clearStatusMsg:
		if msg.set.Equal(m.statusSetAt) {
			m.statusMessage = ""
		}
		return nil

	case QuitMsg:
		return m.quit()
	}

	// cursor blink and other input internals
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}

	if m.screen.ModalOpen() {
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
			m.runner.Dismiss()
		}
		return nil
	}

	if m.runner.Mode() == domain.ModeLoading {
		if key.Matches(msg, m.keys.Cancel) && m.runner.Cancel() {
			return m.setStatus("Search cancelled", views.StatusInfo)
		}
		if key.Matches(msg, m.keys.Submit) && m.config.Run.Resubmit == domain.ResubmitRestart {
			return m.submit()
		}
		return nil
	}

	ac := m.focusedComplete()
	switch {
	case key.Matches(msg, m.keys.Help):
		return m.showHelp()

	case key.Matches(msg, m.keys.Copy):
		return m.copyPath()

	case key.Matches(msg, m.keys.PageUp):
		return m.scroll(tea.KeyMsg{Type: tea.KeyPgUp})

	case key.Matches(msg, m.keys.PageDn):
		return m.scroll(tea.KeyMsg{Type: tea.KeyPgDown})

	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Down):
		if ac != nil && len(ac.Suggestions()) > 0 {
			ac.Move(1)
			return nil
		}
		return m.setFocus(min(m.focus+1, fieldCount-1))

	case key.Matches(msg, m.keys.Up):
		if ac != nil && len(ac.Suggestions()) > 0 {
			ac.Move(-1)
			return nil
		}
		return m.setFocus(max(m.focus-1, 0))

	case key.Matches(msg, m.keys.Submit):
		if ac != nil && ac.Highlighted() >= 0 {
			return m.accept(m.focus, ac.Highlighted())
		}
		return m.submit()

	case key.Matches(msg, m.keys.Dismiss):
		if ac != nil {
			ac.Dismiss()
		}
		return nil
	}

	return m.typeInto(msg)
}

// typeInto forwards a key to the focused input and starts a lookup if its value changed
func (m *Model) typeInto(msg tea.KeyMsg) tea.Cmd {
	if m.focus >= fieldK {
		if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && !allDigits(msg.Runes)) {
			return nil
		}
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()
	if after == before {
		return cmd
	}

	if ac := m.focusedComplete(); ac != nil {
		if lookup := ac.Change(after); lookup != nil {
			return tea.Batch(cmd, lookupCmd(lookup))
		}
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if m.screen.ScrollLocked || !m.layout.InResults(msg.Y) {
			return nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return cmd
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.screen.ModalOpen() || m.runner.Mode() == domain.ModeLoading {
		return nil
	}

	if f, i, ok := m.layout.SuggestionAt(msg.Y); ok && f < len(m.complete) {
		return m.accept(f, i)
	}

	field, onField := m.layout.FieldAt(msg.Y)
	for f, ac := range m.complete {
		if !onField || field != f {
			ac.Dismiss()
		}
	}
	if onField {
		return m.setFocus(field)
	}
	return nil
}

func (m *Model) handleOutcome(o runner.Outcome) tea.Cmd {
	if !m.runner.Apply(o) {
		return nil
	}

	switch m.runner.Mode() {
	case domain.ModeShowingResults:
		m.syncResults()
		res, _ := m.screen.Result()
		return m.setStatus(fmt.Sprintf("Found a path through %d articles", len(res.Links)), views.StatusSuccess)
	case domain.ModeIdle:
		if err := m.runner.LastError(); err != nil {
			return m.setStatus(fmt.Sprintf("Search failed: %v", err), views.StatusError)
		}
	}
	return nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.CancelNoticeSentEvent:
		if e.Err != nil {
			return m.setStatus("The server did not acknowledge the cancel", views.StatusError)
		}
	case eventbus.ErrorEvent:
		return m.setStatus(e.Message, views.StatusError)
	}
	return nil
}

// submit validates the form and starts a run
func (m *Model) submit() tea.Cmd {
	req, err := m.request()
	if err != nil {
		return m.setStatus(err.Error(), views.StatusError)
	}

	for _, ac := range m.complete {
		ac.Dismiss()
	}

	call, err := m.runner.Submit(req)
	switch {
	case errors.Is(err, runner.ErrMissingEndpoint):
		return m.setStatus("Enter both a start and an end article", views.StatusError)
	case errors.Is(err, runner.ErrRunInProgress):
		return nil
	case err != nil:
		return m.setStatus(err.Error(), views.StatusError)
	}

	m.statusMessage = ""
	return tea.Batch(runCmd(call), m.spinner.Tick)
}

// request reads the run parameters off the form; blank numbers fall back to the configured defaults
func (m *Model) request() (domain.RunRequest, error) {
	req := domain.RunRequest{
		Start: m.inputs[fieldStart].Value(),
		End:   m.inputs[fieldEnd].Value(),
	}

	numbers := []struct {
		field int
		def   int
		dst   *int
	}{
		{fieldK, m.config.Search.K, &req.K},
		{fieldTimeLimit, m.config.Search.TimeLimit, &req.TimeLimit},
		{fieldMaxDepth, m.config.Search.MaxDepth, &req.MaxDepth},
	}
	for _, n := range numbers {
		raw := strings.TrimSpace(m.inputs[n.field].Value())
		if raw == "" {
			*n.dst = n.def
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return req, fmt.Errorf("%s must be a positive number", fieldLabels[n.field])
		}
		*n.dst = v
	}
	return req, nil
}

// accept writes suggestion i of field f into its input
func (m *Model) accept(f, i int) tea.Cmd {
	v, ok := m.complete[f].Accept(i)
	if !ok {
		return nil
	}
	m.inputs[f].SetValue(v)
	m.inputs[f].CursorEnd()
	return m.setFocus(f)
}

// setFocus moves focus to field i, closing the previous field's suggestions
func (m *Model) setFocus(i int) tea.Cmd {
	if i == m.focus {
		return nil
	}
	if ac := m.focusedComplete(); ac != nil {
		ac.Dismiss()
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) focusedComplete() *autocomplete.Controller {
	if m.focus < len(m.complete) {
		return m.complete[m.focus]
	}
	return nil
}

func (m *Model) scroll(msg tea.KeyMsg) tea.Cmd {
	if m.screen.ScrollLocked {
		return nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return cmd
}

func (m *Model) copyPath() tea.Cmd {
	res, ok := m.screen.Result()
	if !ok {
		return m.setStatus("No path to copy yet", views.StatusInfo)
	}
	if err := m.copyText(views.PlainPath(res)); err != nil {
		log.Printf("Clipboard copy failed: %v", err)
		return m.setStatus("Could not copy to the clipboard", views.StatusError)
	}
	return m.setStatus("Path copied to clipboard", views.StatusSuccess)
}

func (m *Model) showHelp() tea.Cmd {
	if m.program == nil {
		return nil
	}
	content := NewHelpRenderer().RenderHelpContentPlain()
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(content)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) setStatus(msg string, kind views.StatusKind) tea.Cmd {
	at := time.Now()
	m.statusMessage = msg
	m.statusKind = kind
	m.statusSetAt = at
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{set: at} })
}

// quit tears down every stream, cancelling a loading run, then exits
func (m *Model) quit() tea.Cmd {
	m.Shutdown()
	return tea.Quit
}

// Shutdown cancels every pending lookup and a loading run. It is safe to call more than once.
func (m *Model) Shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	for _, ac := range m.complete {
		ac.Close()
	}
	m.runner.Close()
}

// syncResults re-renders the found path into the results viewport
func (m *Model) syncResults() {
	res, ok := m.screen.Result()
	if !ok {
		return
	}
	m.results.SetContent(m.renderer.Results().Render(res, m.results.Width))
	m.results.GotoTop()
}

// resize fits the results viewport under the form
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	for i := range m.inputs {
		m.inputs[i].Width = max(min(m.width-20, 60), 10)
	}

	m.results.Width = max(m.width-4, 10)
	m.results.Height = max(m.height-2-m.renderer.FormHeight(m.fieldViews())-2, 3)
	if m.results.Width != m.resultsWidth {
		m.resultsWidth = m.results.Width
		m.syncResults()
	}
}

func (m *Model) fieldViews() []views.FieldView {
	fields := make([]views.FieldView, fieldCount)
	for i := range m.inputs {
		fields[i] = views.FieldView{
			Label:     fieldLabels[i],
			Input:     m.inputs[i].View(),
			Focused:   i == m.focus,
			Highlight: -1,
		}
		if i < len(m.complete) {
			fields[i].Suggestions = m.complete[i].Suggestions()
			fields[i].Highlight = m.complete[i].Highlighted()
			fields[i].Pending = m.complete[i].Pending()
		}
	}
	return fields
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Fields:        m.fieldViews(),
		StatusMessage: m.statusMessage,
		StatusKind:    m.statusKind,
		Help:          m.help.View(m.keys),
		LoaderVisible: m.screen.LoaderVisible,
		Spinner:       m.spinner.View(),
		ModalOpen:     m.screen.ModalOpen(),
		ModalMessage:  m.screen.ErrorMessage(),
		Ready:         m.readyMarker,
	}
	if _, ok := m.screen.Result(); ok {
		state.Results = m.results.View()
		if m.results.TotalLineCount() > m.results.Height {
			state.ScrollInfo = fmt.Sprintf("%3.f%%", m.results.ScrollPercent()*100)
		}
	}

	out, layout := m.renderer.Render(state)
	m.layout = layout
	return out
}

func lookupCmd(lookup autocomplete.Lookup) tea.Cmd {
	return func() tea.Msg {
		return suggestionsMsg{result: lookup()}
	}
}

func runCmd(call runner.Call) tea.Cmd {
	return func() tea.Msg {
		return runOutcomeMsg{outcome: call()}
	}
}

func fieldIndex(f domain.Field) int {
	switch f {
	case domain.FieldStart:
		return fieldStart
	case domain.FieldEnd:
		return fieldEnd
	}
	return -1
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
