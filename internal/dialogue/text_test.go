package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfelder/voxfill/internal/extract"
	"github.com/mfelder/voxfill/internal/form"
)

func TestFillByTextEmptySourceIsInvalidInput(t *testing.T) {
	ctrl := NewController(nil, &fakePort{catalog: contactCatalog()}, &fakeExtractor{}, nil, nil, nil)

	_, err := ctrl.FillByText(context.Background(), "contact", "   ")
	require.ErrorIs(t, err, extract.ErrInvalidInput)
}

func TestFillByTextRoundTrip(t *testing.T) {
	port := &fakePort{catalog: contactCatalog()}
	extractor := &fakeExtractor{steps: []extractStep{{values: completeValues()}}}
	feedback := &fakeFeedback{}
	ctrl := NewController(nil, port, extractor, nil, nil, feedback)

	result, err := ctrl.FillByText(context.Background(), "contact", "I am John Doe, a@b.com, female")
	require.NoError(t, err)
	require.False(t, result.Validation.HasErrors)
	require.Empty(t, result.Validation.MissingFields)
	require.Equal(t, "John Doe", result.Record["name"].Text)
	require.Equal(t, "female", result.Record["gender"].Text)

	// Exactly one success notification, no missing-field feedback.
	require.Equal(t, 1, feedback.successes)
	require.Empty(t, feedback.missing)

	// Resolved values written back through the port.
	require.Len(t, port.writes, 1)
	require.Equal(t, result.Record, port.writes[0])
}

func TestFillByTextReportsMissingFieldsOnce(t *testing.T) {
	port := &fakePort{catalog: contactCatalog()}
	extractor := &fakeExtractor{steps: []extractStep{{values: form.Values{"name": form.TextValue("John")}}}}
	feedback := &fakeFeedback{}
	ctrl := NewController(nil, port, extractor, nil, nil, feedback)

	result, err := ctrl.FillByText(context.Background(), "contact", "I am John")
	require.NoError(t, err)
	require.True(t, result.Validation.HasErrors)
	require.Equal(t, []string{"email", "gender"}, result.Validation.MissingFields)
	require.Zero(t, feedback.successes)
	require.Equal(t, [][]string{{"email", "gender"}}, feedback.missing)
}

func TestFillByTextUnknownFormIsNotFound(t *testing.T) {
	port := &fakePort{fieldsErr: form.ErrNotFound}
	ctrl := NewController(nil, port, &fakeExtractor{}, nil, nil, nil)

	_, err := ctrl.FillByText(context.Background(), "missing", "text")
	require.ErrorIs(t, err, form.ErrNotFound)
}

func TestFillByTextServiceErrorPropagates(t *testing.T) {
	port := &fakePort{catalog: contactCatalog()}
	extractor := &fakeExtractor{steps: []extractStep{{err: extract.ErrService}}}
	ctrl := NewController(nil, port, extractor, nil, nil, nil)

	_, err := ctrl.FillByText(context.Background(), "contact", "text")
	require.ErrorIs(t, err, extract.ErrService)
}

func TestFillByTextWriteFailurePropagates(t *testing.T) {
	port := &fakePort{catalog: contactCatalog(), writeErr: errBoom}
	extractor := &fakeExtractor{steps: []extractStep{{values: completeValues()}}}
	ctrl := NewController(nil, port, extractor, nil, nil, nil)

	_, err := ctrl.FillByText(context.Background(), "contact", "text")
	require.ErrorIs(t, err, errBoom)
}
