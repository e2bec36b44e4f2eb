package inventory

import (
	"fmt"
	"strings"
)

// Markdown renders a read-only view of the state.
func Markdown(s State) string {
	var b strings.Builder
	b.WriteString("# Inventory\n\n")

	if s.Items.Len() == 0 {
		b.WriteString("_No items._\n")
	} else {
		b.WriteString("| ID | Name | Color | Stock |\n|---|---|---|---|\n")
		for _, item := range s.Items.Items() {
			color := "-"
			if item.Color != nil {
				color = item.Color.Name
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", item.ID, item.Name, color, item.Status)
		}
	}

	if s.AddItem != nil {
		writeForm(&b, "Add item", *s.AddItem)
	}
	if s.DuplicateItem != nil {
		writeForm(&b, "Duplicate item", *s.DuplicateItem)
	}
	if s.Alert != nil {
		fmt.Fprintf(&b, "\n> **%s**\n> %s\n", s.Alert.Title, s.Alert.Message)
	}
	return b.String()
}

func writeForm(b *strings.Builder, title string, f ItemForm) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	fmt.Fprintf(b, "- name: %s\n", f.Item.Name)
	if f.Item.Color != nil {
		fmt.Fprintf(b, "- color: %s\n", f.Item.Color.Name)
	}
	fmt.Fprintf(b, "- %s\n", f.Item.Status)
}
