package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ReadyMarker is printed in every frame when running under the e2e harness
const ReadyMarker = "__READY__"

// Offsets of the main container's padding
const (
	padTop  = 1
	padLeft = 2
)

// StatusKind selects the status line style
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// FieldView is one form row as the renderer sees it
type FieldView struct {
	Label       string
	Input       string // the rendered text input
	Focused     bool
	Suggestions []string
	Highlight   int
	Pending     bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Fields []FieldView

	Results    string // the rendered results viewport
	ScrollInfo string

	StatusMessage string
	StatusKind    StatusKind
	Help          string

	LoaderVisible bool
	Spinner       string
	ModalOpen     bool
	ModalMessage  string

	Ready bool
}

// Layout records where interactive rows landed on screen, for mouse hit-testing
type Layout struct {
	FieldRows      []int
	SuggestionRows [][]int
	ResultsTop     int
}

// InResults reports whether screen row y is at or below the results region's top
func (l Layout) InResults(y int) bool {
	return y >= l.ResultsTop
}

// SuggestionAt returns the field and suggestion index at screen row y
func (l Layout) SuggestionAt(y int) (field, index int, ok bool) {
	for f, rows := range l.SuggestionRows {
		for i, row := range rows {
			if row == y {
				return f, i, true
			}
		}
	}
	return 0, 0, false
}

// FieldAt returns the field whose input sits on screen row y
func (l Layout) FieldAt(y int) (int, bool) {
	for f, row := range l.FieldRows {
		if row == y {
			return f, true
		}
	}
	return 0, false
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	results     *ResultsRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(articleBase string, hyperlinks bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		results:     NewResultsRenderer(styles, articleBase, hyperlinks),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Results returns the results card renderer
func (r *Renderer) Results() *ResultsRenderer { return r.results }

// FormHeight is the number of rows the title, form and status line take
func (r *Renderer) FormHeight(fields []FieldView) int {
	h := lipgloss.Height(r.styles.Title.Render("wikipath"))
	for _, f := range fields {
		h += 1 + len(f.Suggestions)
	}
	return h + 2 // status line with its margin
}

// Render produces the complete view and the layout of its interactive rows
func (r *Renderer) Render(state ViewState) (string, Layout) {
	var lines []string
	layout := Layout{
		FieldRows:      make([]int, len(state.Fields)),
		SuggestionRows: make([][]int, len(state.Fields)),
	}
	add := func(block string) {
		lines = append(lines, strings.Split(block, "\n")...)
	}

	add(r.styles.Title.Render("wikipath"))

	for i, f := range state.Fields {
		label := r.styles.Label.Render(f.Label)
		if f.Focused {
			label = r.styles.LabelFocused.Render(f.Label)
		}
		row := label + f.Input
		if f.Pending {
			row += r.styles.Dim.Render(" …")
		}
		layout.FieldRows[i] = padTop + len(lines)
		add(row)

		for j, s := range f.Suggestions {
			style := r.styles.Suggestion
			if j == f.Highlight {
				style = r.styles.SuggestionHover
			}
			layout.SuggestionRows[i] = append(layout.SuggestionRows[i], padTop+len(lines))
			add(style.Render(s))
		}
	}

	status := r.styles.Status
	switch state.StatusKind {
	case StatusError:
		status = r.styles.StatusError
	case StatusSuccess:
		status = r.styles.StatusSuccess
	}
	add(status.Render(state.StatusMessage))

	layout.ResultsTop = padTop + len(lines)
	if state.Results != "" {
		add(state.Results)
		if state.ScrollInfo != "" {
			add(r.styles.Scroll.Render(state.ScrollInfo))
		}
	}

	helpText := r.styles.Help.Render(state.Help)
	if state.Ready {
		helpText += " " + ReadyMarker
	}

	// push help to the bottom, accounting for the container's vertical padding
	available := state.Height - 2
	if available <= 0 {
		available = 22
	}
	for len(lines) < available-1 {
		lines = append(lines, "")
	}
	lines = append(lines, helpText)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(strings.Join(lines, "\n"))

	if state.ModalOpen {
		return r.popupRender.RenderPopupOverlay(finalContent, r.results.RenderError(state.ModalMessage), state.Height, state.Width, r.styles.Modal), layout
	}
	if state.LoaderVisible {
		return r.popupRender.RenderPopupOverlay(finalContent, r.results.RenderLoading(state.Spinner), state.Height, state.Width, r.styles.Loader), layout
	}
	return finalContent, layout
}
