package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
	"github.com/jedrzejginter/toolkit/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// Output formats for resolve.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// =============================================================================
// Status Output
// =============================================================================

// Status lines go to stderr so stdout carries only command output.
var statusOut io.Writer = os.Stderr

func printSuccess(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a planned file line.
func printFile(f feature.File) {
	line := "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(f.Path)
	if f.Dir {
		line += StyleDim.Render("/")
	}
	line += " " + StyleDim.Render("("+f.Owner+")")
	fmt.Fprintln(statusOut, line)
}

// printPlan lists the template files the selection emits.
func printPlan(files []feature.File) {
	if len(files) == 0 {
		return
	}
	printInfo("Template files (%d)", len(files))
	for _, f := range files {
		printFile(f)
	}
}

// printStats prints run statistics on a single line.
func printStats(s pipeline.Stats) {
	parts := []string{
		fmt.Sprintf("%d features", s.Features),
		fmt.Sprintf("%d packages", s.Packages),
		fmt.Sprintf("resolved in %s", s.ResolveTime.Round(time.Millisecond)),
		fmt.Sprintf("%s total", s.Total().Round(time.Millisecond)),
	}
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Command Output
// =============================================================================

// renderResolved writes r to w in the given format.
func renderResolved(w io.Writer, r manifest.Resolved, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	var rows [][]string
	for _, e := range r.Entries() {
		rows = append(rows, []string{e.Name, e.Version, e.Kind})
	}
	_, err := fmt.Fprintln(w, newTable("Package", "Version", "Kind").Rows(rows...).Render())
	if err != nil {
		return err
	}
	if len(r.Scripts) == 0 {
		return nil
	}
	rows = nil
	for _, name := range slices.Sorted(maps.Keys(r.Scripts)) {
		rows = append(rows, []string{name, r.Scripts[name]})
	}
	_, err = fmt.Fprintln(w, newTable("Script", "Command").Rows(rows...).Render())
	return err
}

// renderFeatures writes the feature catalogue to w.
func renderFeatures(w io.Writer) error {
	var rows [][]string
	for _, f := range feature.All() {
		rows = append(rows, []string{f.String(), f.Description()})
	}
	_, err := fmt.Fprintln(w, newTable("Feature", "Description").Rows(rows...).Render())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return styleCell.Foreground(colorCyan)
			}
			return styleCell
		})
}
