package form

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested form does not exist.
var ErrNotFound = errors.New("form not found")

// Port is the injected live-form access surface. The dialogue controller and
// merge engine never touch UI primitives directly; all reads of current field
// state and all write-backs of resolved values go through this interface.
type Port interface {
	// Fields returns the form's fillable fields with live current values,
	// or ErrNotFound when no such form exists.
	Fields(ctx context.Context, formID string) (Catalog, error)

	// Write applies resolved values back to the live form.
	Write(ctx context.Context, formID string, values Values) error
}

// ReadCatalog snapshots a form's field catalog through the port.
func ReadCatalog(ctx context.Context, port Port, formID string) (Catalog, error) {
	catalog, err := port.Fields(ctx, formID)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}
