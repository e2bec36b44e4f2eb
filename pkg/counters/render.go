package counters

import (
	"fmt"
	"strings"
)

// Markdown renders a read-only view of the state.
func Markdown(s State) string {
	var b strings.Builder
	b.WriteString("# Counters\n\n")
	if s.Rows.Len() == 0 {
		b.WriteString("_No counters._\n")
	}
	for _, row := range s.Rows.Items() {
		c := row.Counter
		fmt.Fprintf(&b, "- `%s`: **%d**", row.ID, c.Count)
		if c.Timer.Running {
			fmt.Fprintf(&b, " (timer %ds)", c.SecondsElapsed)
		}
		if c.Alert != nil {
			fmt.Fprintf(&b, " _%s_", c.Alert.Message)
		}
		b.WriteString("\n")
	}
	if p := s.FactPrompt; p != nil {
		fmt.Fprintf(&b, "\n## Fact about %d\n\n", p.Count)
		if p.IsLoading {
			b.WriteString("_loading..._\n")
		} else {
			fmt.Fprintf(&b, "%s\n", p.Fact)
		}
	}
	return b.String()
}
