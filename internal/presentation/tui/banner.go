package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{`        _            `, "#34d399"},
	{` __   _(_)_ __   ___ `, "#10b981"},
	{` \ \ / / | '_ \ / _ \`, "#059669"},
	{`  \ V /| | | | |  __/`, "#047857"},
	{`   \_/ |_|_| |_|\___|`, "#065f46"},
}

// PrintBanner writes the vine banner, colored when w is a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out, out.String("   v"+version).Faint())
	fmt.Fprintln(out)
}

// Prompt styles the REPL prompt.
func Prompt(w io.Writer, text string) string {
	out := termenv.NewOutput(w)
	return out.String(text).Bold().Foreground(out.Color("#10b981")).String()
}

// Errorf styles an error line.
func Errorf(w io.Writer, format string, args ...any) string {
	out := termenv.NewOutput(w)
	return out.String(fmt.Sprintf(format, args...)).Foreground(out.Color("#f87171")).String()
}
