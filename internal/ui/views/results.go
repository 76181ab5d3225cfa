package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"wikipath/internal/domain"
)

// DefaultArticleBase is where article names resolve to
const DefaultArticleBase = "https://en.wikipedia.org/wiki/"

// ArticleURL builds the article reference for a human-readable name
func ArticleURL(base, name string) string {
	if base == "" {
		base = DefaultArticleBase
	}
	slug := strings.ReplaceAll(name, " ", "_")
	return base + (&url.URL{Path: slug}).EscapedPath()
}

// ElapsedLine formats the search time with two decimals
func ElapsedLine(seconds float64) string {
	return fmt.Sprintf("Time: %.2f seconds", seconds)
}

// PlainPath renders a path without styling, for the clipboard and headless output
func PlainPath(res domain.Success) string {
	return strings.Join(res.Links, " → ")
}

// ResultsRenderer renders the "Path Found" card
type ResultsRenderer struct {
	styles     *Styles
	base       string
	hyperlinks bool
}

// NewResultsRenderer creates a results renderer. With hyperlinks off the
// article reference is printed next to each name instead.
func NewResultsRenderer(styles *Styles, base string, hyperlinks bool) *ResultsRenderer {
	return &ResultsRenderer{styles: styles, base: base, hyperlinks: hyperlinks}
}

// Render produces the results card for res
func (r *ResultsRenderer) Render(res domain.Success, width int) string {
	var b strings.Builder
	b.WriteString(r.styles.CardTitle.Render("Path Found"))
	b.WriteString("\n\n")

	digits := len(fmt.Sprint(len(res.Links)))
	for i, name := range res.Links {
		ref := ArticleURL(r.base, name)
		idx := r.styles.PathIndex.Render(fmt.Sprintf("%*d.", digits, i+1))
		if r.hyperlinks {
			b.WriteString(fmt.Sprintf("%s %s", idx, termenv.Hyperlink(ref, r.styles.PathLink.Render(name))))
		} else {
			b.WriteString(fmt.Sprintf("%s %s %s", idx, r.styles.PathLink.Render(name), r.styles.URL.Render(ref)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Elapsed.Render(ElapsedLine(res.ElapsedSeconds)))

	card := r.styles.Card
	if width > 4 {
		card = card.Width(width - 2)
	}
	return card.Render(b.String())
}

// RenderError produces the error modal body
func (r *ResultsRenderer) RenderError(message string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		r.styles.ModalTitle.Render("Search Error"),
		"",
		message,
		"",
		r.styles.ModalButton.Render("[ OK ]"),
	)
}

// RenderLoading produces the loader overlay body
func (r *ResultsRenderer) RenderLoading(spinner string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		r.styles.Spinner.Render(spinner)+" Searching for a path…",
		"",
		r.styles.Dim.Render("esc to cancel"),
	)
}
