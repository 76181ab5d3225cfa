package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of the main content.
// The main content is greyed out behind it.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	if width <= 0 {
		width = lipgloss.Width(mainContent)
	}
	if height <= 0 {
		height = lipgloss.Height(mainContent)
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	base := strings.Split(pr.desaturate(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	for i, line := range strings.Split(styledPopup, "\n") {
		row := y + i
		if row >= len(base) {
			base = append(base, "")
		}
		base[row] = overlayLine(base[row], line, x)
	}
	return strings.Join(base, "\n")
}

// overlayLine writes top over base starting at column x, keeping what is on either side
func overlayLine(base, top string, x int) string {
	left := ansi.Truncate(base, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ansi.TruncateLeft(base, x+ansi.StringWidth(top), "")
	return left + top + right
}

// desaturate strips styling and recolors text dim gray
func (pr *PopupRenderer) desaturate(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		plain := ansi.Strip(line)
		if plain == "" {
			lines[i] = ""
			continue
		}
		lines[i] = pr.styles.Backdrop.Render(plain)
	}
	return strings.Join(lines, "\n")
}
