package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("37")  // Teal - titles, identifiers
	colorOK     = lipgloss.Color("71")  // Green - success, cache hits
	colorWarn   = lipgloss.Color("178") // Amber - overlaps, empty results
	colorFail   = lipgloss.Color("167") // Soft red - rejections
	colorLink   = lipgloss.Color("75")  // Light blue - addresses, commands
	colorText   = lipgloss.Color("255") // Bright white - values
	colorMuted  = lipgloss.Color("245") // Gray - labels
	colorFaint  = lipgloss.Color("240") // Dim gray - details, borders
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for layout names and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight for item and layout identifiers.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleLink for listen addresses.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue for data values such as location identifiers.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorOK)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value in a fixed-width column.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printStats prints item and location counts on one line, marking whether
// every export came from the cache.
func printStats(itemCount, assigned int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d items", itemCount))}
	if assigned > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d locations", assigned)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
