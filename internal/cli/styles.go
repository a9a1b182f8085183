// SPDX-License-Identifier: EPL-2.0

// Package cli renders user-facing terminal output for the audmark command.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#5F5FD7") // indigo
	successColor = lipgloss.Color("#00AA00")
	errorColor   = lipgloss.Color("#D70000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

const appTitle = "audmark"

// PrintVersion prints version information.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, TitleStyle.Render(appTitle))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message.
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSuccess prints a success message.
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints a key/value line.
func PrintInfo(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// Summary describes one finished watermark run.
type Summary struct {
	Input      string
	Output     string
	SampleRate int
	Channels   int
	Frames     int
	Bytes      int64
}

// PrintSummary prints a boxed report of a finished run.
func PrintSummary(w io.Writer, s Summary) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Watermark applied"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Input:    ", s.Input},
		{"Output:   ", s.Output},
		{"Format:   ", fmt.Sprintf("%d Hz, %d ch, 16-bit PCM", s.SampleRate, s.Channels)},
		{"Duration: ", FormatDuration(s.Frames, s.SampleRate)},
		{"Size:     ", FormatBytes(s.Bytes)},
	}

	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(KeyStyle.Render(r[0]))
		b.WriteString(ValueStyle.Render(r[1]))
	}

	fmt.Fprintln(w, BoxStyle.Render(b.String()))
}

// FormatDuration formats a frame count at a sample rate as seconds.
func FormatDuration(frames, sampleRate int) string {
	if sampleRate <= 0 {
		return "0.0s"
	}

	secs := float64(frames) / float64(sampleRate)
	if secs < 1 {
		return fmt.Sprintf("%.0fms", secs*1000)
	}

	return fmt.Sprintf("%.1fs", secs)
}

// FormatBytes formats bytes into human-readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
