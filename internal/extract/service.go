// Package extract adapts a chat model into the structured field extractor.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mfelder/voxfill/internal/form"
)

var (
	// ErrInvalidInput indicates there was no source text to extract from.
	ErrInvalidInput = errors.New("no source text to extract from")
	// ErrService indicates the extraction backend failed or returned
	// unparseable output. Retry is the caller's responsibility.
	ErrService = errors.New("extraction service failure")
)

// Service sends source text plus the field catalog to a chat model and
// parses the structured response. One remote call per Extract, no retries.
type Service struct {
	chatModel model.BaseChatModel
	logger    *slog.Logger
}

// NewService constructs an extraction service over a chat model.
func NewService(chatModel model.BaseChatModel, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{chatModel: chatModel, logger: logger}
}

// Extract maps free text onto the catalog's field identities. A non-empty
// promptOverride replaces the default instruction.
func (s *Service) Extract(ctx context.Context, text string, catalog form.Catalog, promptOverride string) (form.Values, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	instruction := promptOverride
	if strings.TrimSpace(instruction) == "" {
		instruction = Instruction(catalog)
	}

	messages := []*schema.Message{
		schema.SystemMessage(instruction),
		schema.UserMessage(text),
	}

	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	values, err := parseResponse(response.Content)
	if err != nil {
		s.logger.Warn("unparseable extraction response", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	return normalizeValues(catalog, values), nil
}
