package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	entry := func(b *strings.Builder, k, desc string) {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Width(14).Render(k), descStyle.Render(desc)))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("wikipath Help"))
	help.WriteString("\n")
	help.WriteString("Finds the shortest chain of links between two Wikipedia articles.\n")

	help.WriteString(sectionStyle.Render("Form"))
	help.WriteString("\n")
	entry(&help, "Tab/Shift+Tab", "Move between fields")
	entry(&help, "↑/↓", "Highlight a suggestion, or move between fields")
	entry(&help, "Enter", "Accept the highlighted suggestion, or search")
	entry(&help, "Esc", "Close the suggestion list")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	entry(&help, "Esc, Ctrl+X", "Cancel the running search")
	entry(&help, "Esc, Enter", "Close the error dialog")
	entry(&help, "PgUp/PgDn", "Scroll the found path")
	entry(&help, "Ctrl+Y", "Copy the found path")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	entry(&help, "Click", "Pick a suggestion, or focus a field")
	entry(&help, "Wheel", "Scroll the found path")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Limits"))
	help.WriteString("\n")
	entry(&help, "Beam width", "Links kept at each step of the search (k)")
	entry(&help, "Time limit", "Seconds before the server gives up")
	entry(&help, "Max depth", "Longest chain of links considered")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	entry(&help, "F1", "Show this help")
	help.WriteString(fmt.Sprintf("  %s %s", keyStyle.Width(14).Render("Ctrl+C"), descStyle.Render("Quit")))

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// give ov time to leave the alternate screen before we take it back
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
