package merge

import (
	"slices"

	"github.com/mfelder/voxfill/internal/form"
)

// Apply folds a merged record back into a catalog copy: current values and
// checked states take the resolved values, so a later Merge against the
// returned catalog treats them as prior answers. The input catalog is not
// modified.
func Apply(catalog form.Catalog, record form.Values) form.Catalog {
	updated := slices.Clone(catalog)
	for i, field := range updated {
		value, ok := record[field.Key()]
		if !ok {
			continue
		}
		switch field.Kind {
		case form.KindRadio:
			updated[i].Checked = value.Text == field.OptionValue && value.Text != ""
		case form.KindCheckbox:
			updated[i].Checked = slices.Contains(value.Choices, field.OptionValue)
		default:
			updated[i].CurrentValue = value.Text
		}
	}
	return updated
}
