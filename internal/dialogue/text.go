package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mfelder/voxfill/internal/extract"
	"github.com/mfelder/voxfill/internal/form"
	"github.com/mfelder/voxfill/internal/fsm"
	"github.com/mfelder/voxfill/internal/merge"
)

// FillByText extracts field values from one block of source text, merges them
// with live form state, and writes the result back. Exactly one feedback
// notification is raised per call.
func (c *Controller) FillByText(ctx context.Context, formID string, sourceText string) (Result, error) {
	result := Result{SessionID: uuid.NewString(), StartedAt: time.Now(), State: fsm.StateIdle}

	if strings.TrimSpace(sourceText) == "" {
		result.FinishedAt = time.Now()
		return result, extract.ErrInvalidInput
	}

	catalog, err := form.ReadCatalog(ctx, c.port, formID)
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	extracted, err := c.extractor.Extract(ctx, sourceText, catalog, "")
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	record := merge.Merge(catalog, extracted)
	validation := merge.Validate(catalog, record)

	if validation.HasErrors {
		c.feedback.MissingFields(ctx, validation.MissingFields)
	} else {
		c.feedback.Success(ctx)
	}

	if err := c.port.Write(ctx, formID, record); err != nil {
		result.FinishedAt = time.Now()
		return result, fmt.Errorf("write resolved values: %w", err)
	}

	c.logger.Info("text fill complete",
		"session", result.SessionID,
		"form", formID,
		"missing", len(validation.MissingFields),
	)

	result.Record = record
	result.Validation = validation
	result.State = fsm.StateDone
	result.Turns = 1
	result.FinishedAt = time.Now()
	return result, nil
}
