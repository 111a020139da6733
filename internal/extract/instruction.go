package extract

import (
	"fmt"
	"strings"

	"github.com/mfelder/voxfill/internal/form"
)

// Instruction builds the default extraction instruction: one line per field
// identity with its kind and selectable options, plus normalization rules.
func Instruction(catalog form.Catalog) string {
	var b strings.Builder
	b.WriteString("You extract form field values from user text.\n")
	b.WriteString("Respond with exactly one JSON object and nothing else.\n")
	b.WriteString("The object must contain every key listed below.\n\n")
	b.WriteString("Fields:\n")

	for _, key := range catalog.Keys() {
		fields := catalog.ByKey(key)
		switch fields[0].Kind {
		case form.KindRadio:
			fmt.Fprintf(&b, "- %q: single choice, one of [%s]\n", key, joinOptions(groupOptions(fields)))
		case form.KindCheckbox:
			fmt.Fprintf(&b, "- %q: multiple choice, JSON array drawn from [%s]\n", key, joinOptions(groupOptions(fields)))
		case form.KindSelect:
			fmt.Fprintf(&b, "- %q: single choice, one of [%s]\n", key, joinOptions(fields[0].Options))
		default:
			fmt.Fprintf(&b, "- %q: %s\n", key, fields[0].Kind)
		}
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- A field not mentioned in the text becomes an empty string (empty array for multiple choice).\n")
	b.WriteString("- Dates use the format YYYY-MM-DD.\n")
	b.WriteString("- Email addresses are lowercase and contain no spaces.\n")
	b.WriteString("- Free text starts with a capital letter.\n")

	return b.String()
}

func groupOptions(fields []form.Field) []string {
	options := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.OptionValue != "" {
			options = append(options, field.OptionValue)
		}
	}
	return options
}

func joinOptions(options []string) string {
	quoted := make([]string, 0, len(options))
	for _, option := range options {
		quoted = append(quoted, fmt.Sprintf("%q", option))
	}
	return strings.Join(quoted, ", ")
}
