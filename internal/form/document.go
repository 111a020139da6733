package form

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
)

// DocumentSource is a Port backed by a JSON forms document on disk. It stands
// in for live DOM access, which stays outside the core: a browser bridge can
// export the same document shape and re-import written values.
type DocumentSource struct {
	path string

	mu    sync.Mutex
	forms map[string]Catalog
	order []string
}

type documentFile struct {
	Forms []documentForm `json:"forms"`
}

type documentForm struct {
	ID     string          `json:"id"`
	Fields []documentField `json:"fields"`
}

type documentField struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Group   string   `json:"group,omitempty"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value,omitempty"`
	Checked bool     `json:"checked,omitempty"`
}

// OpenDocument loads a forms document from path.
func OpenDocument(path string) (*DocumentSource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms document %q: %w", path, err)
	}
	source, err := ParseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parse forms document %q: %w", path, err)
	}
	source.path = path
	return source, nil
}

// ParseDocument builds an in-memory source from raw document bytes.
func ParseDocument(content []byte) (*DocumentSource, error) {
	var doc documentFile
	if err := sonic.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	forms := make(map[string]Catalog, len(doc.Forms))
	order := make([]string, 0, len(doc.Forms))
	for _, f := range doc.Forms {
		catalog := make(Catalog, 0, len(f.Fields))
		for _, df := range f.Fields {
			catalog = append(catalog, Field{
				ID:           df.ID,
				Kind:         Kind(df.Kind),
				GroupName:    df.Group,
				OptionValue:  df.Option,
				Options:      df.Options,
				CurrentValue: df.Value,
				Checked:      df.Checked,
			})
		}
		forms[f.ID] = catalog
		order = append(order, f.ID)
	}

	return &DocumentSource{forms: forms, order: order}, nil
}

// FormIDs lists form identifiers in document order.
func (s *DocumentSource) FormIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Fields implements Port.
func (s *DocumentSource) Fields(_ context.Context, formID string) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.forms[formID]
	if !ok {
		return nil, fmt.Errorf("form %q: %w", formID, ErrNotFound)
	}
	return slices.Clone(catalog), nil
}

// Write implements Port: resolved values update current values and checked
// states, then the document is persisted when it was opened from a file.
func (s *DocumentSource) Write(_ context.Context, formID string, values Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.forms[formID]
	if !ok {
		return fmt.Errorf("form %q: %w", formID, ErrNotFound)
	}

	for i, field := range catalog {
		value, ok := values[field.Key()]
		if !ok {
			continue
		}
		if field.Kind.Grouped() {
			selected := slices.Contains(value.Choices, field.OptionValue)
			if field.Kind == KindRadio {
				selected = value.Text == field.OptionValue
			}
			catalog[i].Checked = selected
			continue
		}
		catalog[i].CurrentValue = value.Text
	}
	s.forms[formID] = catalog

	if s.path == "" {
		return nil
	}
	return s.persistLocked()
}

// persistLocked serializes all forms back to the backing file.
func (s *DocumentSource) persistLocked() error {
	doc := documentFile{Forms: make([]documentForm, 0, len(s.order))}
	for _, formID := range s.order {
		catalog := s.forms[formID]
		fields := make([]documentField, 0, len(catalog))
		for _, field := range catalog {
			fields = append(fields, documentField{
				ID:      field.ID,
				Kind:    string(field.Kind),
				Group:   field.GroupName,
				Option:  field.OptionValue,
				Options: field.Options,
				Value:   field.CurrentValue,
				Checked: field.Checked,
			})
		}
		doc.Forms = append(doc.Forms, documentForm{ID: formID, Fields: fields})
	}

	content, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode forms document: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0o600); err != nil {
		return fmt.Errorf("write forms document %q: %w", s.path, err)
	}
	return nil
}
