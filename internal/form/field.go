// Package form models fillable form fields and the injected live-form port.
package form

import "strings"

// Kind identifies the input type of one form field.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindTel      Kind = "tel"
	KindTextarea Kind = "textarea"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
)

// Grouped reports whether inputs of this kind share identity via group name.
func (k Kind) Grouped() bool {
	return k == KindRadio || k == KindCheckbox
}

// Field is one fillable form input in document order.
// Radio and checkbox inputs appear once per option, sharing a GroupName.
type Field struct {
	ID           string
	Kind         Kind
	GroupName    string
	OptionValue  string   // value attribute of a radio/checkbox input
	Options      []string // selectable values of a select element
	CurrentValue string   // live value of a plain field
	Checked      bool     // live checked state of a radio/checkbox input
}

// Key returns the field's merge identity: group name for grouped inputs, else ID.
func (f Field) Key() string {
	if f.Kind.Grouped() && strings.TrimSpace(f.GroupName) != "" {
		return f.GroupName
	}
	return f.ID
}

// Catalog is the ordered set of fillable fields of one form.
type Catalog []Field

// Keys returns unique merge identities in document order.
func (c Catalog) Keys() []string {
	seen := make(map[string]struct{}, len(c))
	keys := make([]string, 0, len(c))
	for _, field := range c {
		key := field.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// ByKey returns all fields sharing one merge identity, in document order.
func (c Catalog) ByKey(key string) []Field {
	fields := make([]Field, 0, 2)
	for _, field := range c {
		if field.Key() == key {
			fields = append(fields, field)
		}
	}
	return fields
}

// Value is one resolved field value: scalar text or a multi-choice set.
type Value struct {
	Text    string
	Choices []string
}

// TextValue wraps a scalar string value.
func TextValue(text string) Value {
	return Value{Text: text}
}

// ChoiceValue wraps a multi-choice value set.
func ChoiceValue(choices ...string) Value {
	return Value{Choices: choices}
}

// Blank reports whether the value carries no usable content.
func (v Value) Blank() bool {
	if len(v.Choices) > 0 {
		return false
	}
	return strings.TrimSpace(v.Text) == ""
}

// Values maps merge identities to resolved or extracted values.
type Values map[string]Value
