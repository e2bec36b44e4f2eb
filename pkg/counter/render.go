package counter

import (
	"fmt"
	"strings"
)

// Markdown renders a read-only view of the state.
func Markdown(s State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Counter: %d\n\n", s.Count)
	if s.Timer.Running {
		b.WriteString("- timer: running\n")
	} else {
		b.WriteString("- timer: idle\n")
	}
	if s.IsDisplayingSecondsElapsed {
		fmt.Fprintf(&b, "- seconds elapsed: %d\n", s.SecondsElapsed)
	}
	switch {
	case s.IsLoadingFact:
		b.WriteString("- fact: _loading..._\n")
	case s.Fact != "":
		fmt.Fprintf(&b, "- fact: %s\n", s.Fact)
	}
	if s.Alert != nil {
		fmt.Fprintf(&b, "\n> **%s**\n> %s\n", s.Alert.Title, s.Alert.Message)
	}
	return b.String()
}
