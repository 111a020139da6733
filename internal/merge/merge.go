// Package merge combines extracted field values with live form state and
// classifies the result. Both operations are pure: no I/O, no failure mode.
package merge

import (
	"slices"
	"strings"

	"github.com/mfelder/voxfill/internal/form"
)

// ValidationResult classifies one merged record against its catalog.
type ValidationResult struct {
	MissingFields []string
	HasErrors     bool
}

// Merge overlays extracted values onto live field state. Resolution order per
// merge identity: extracted value, else live current value, else empty. The
// returned record carries one entry for every catalog identity.
func Merge(catalog form.Catalog, extracted form.Values) form.Values {
	merged := make(form.Values, len(catalog))
	for _, key := range catalog.Keys() {
		fields := catalog.ByKey(key)
		switch fields[0].Kind {
		case form.KindRadio:
			merged[key] = resolveRadio(fields, extracted[key])
		case form.KindCheckbox:
			merged[key] = resolveCheckbox(fields, extracted[key])
		default:
			merged[key] = resolvePlain(fields[0], extracted, key)
		}
	}
	return merged
}

// Validate reports which catalog identities remain unresolved, in catalog
// order. A plain field is missing when its value trims to blank; a grouped
// field is missing when no member of the group is selected.
func Validate(catalog form.Catalog, merged form.Values) ValidationResult {
	missing := make([]string, 0)
	for _, key := range catalog.Keys() {
		fields := catalog.ByKey(key)
		value := merged[key]
		if fields[0].Kind == form.KindCheckbox {
			if len(value.Choices) == 0 {
				missing = append(missing, key)
			}
			continue
		}
		if strings.TrimSpace(value.Text) == "" {
			missing = append(missing, key)
		}
	}
	return ValidationResult{MissingFields: missing, HasErrors: len(missing) > 0}
}

func resolvePlain(field form.Field, extracted form.Values, key string) form.Value {
	if value, ok := extracted[key]; ok && strings.TrimSpace(value.Text) != "" {
		return form.TextValue(value.Text)
	}
	return form.TextValue(field.CurrentValue)
}

// resolveRadio prefers the extracted choice over the currently checked input.
func resolveRadio(fields []form.Field, extracted form.Value) form.Value {
	choice := strings.TrimSpace(extracted.Text)
	if choice == "" && len(extracted.Choices) > 0 {
		choice = strings.TrimSpace(extracted.Choices[0])
	}
	if choice != "" {
		return form.TextValue(choice)
	}
	for _, field := range fields {
		if field.Checked {
			return form.TextValue(field.OptionValue)
		}
	}
	return form.Value{}
}

// resolveCheckbox selects every option named by the extracted array; when the
// extraction is empty for the group, selection falls back to checked inputs.
func resolveCheckbox(fields []form.Field, extracted form.Value) form.Value {
	wanted := extracted.Choices
	if len(wanted) == 0 && strings.TrimSpace(extracted.Text) != "" {
		wanted = []string{strings.TrimSpace(extracted.Text)}
	}

	selected := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(wanted) > 0 {
			if slices.Contains(wanted, field.OptionValue) {
				selected = append(selected, field.OptionValue)
			}
			continue
		}
		if field.Checked {
			selected = append(selected, field.OptionValue)
		}
	}
	if len(selected) == 0 {
		return form.Value{}
	}
	return form.ChoiceValue(selected...)
}
