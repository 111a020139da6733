// Package dialogue coordinates the voice form-filling turn loop and the
// text-only fill path.
package dialogue

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfelder/voxfill/internal/form"
	"github.com/mfelder/voxfill/internal/fsm"
	"github.com/mfelder/voxfill/internal/merge"
	"github.com/mfelder/voxfill/internal/speech"
)

// Status is the playback/recording snapshot pushed to the caller at every
// phase transition. At most one flag is true.
type Status struct {
	IsPlaying   bool
	IsRecording bool
}

// StatusFunc receives status snapshots synchronously, in transition order.
// It must not block and must not panic; snapshots are fire-and-forget.
type StatusFunc func(Status)

// Extractor is the dialogue-facing subset of the extraction service.
type Extractor interface {
	Extract(ctx context.Context, text string, catalog form.Catalog, promptOverride string) (form.Values, error)
}

// Feedback renders validation outcomes to the user interface. Purely
// observational; the controller never consumes a return value.
type Feedback interface {
	Success(ctx context.Context)
	MissingFields(ctx context.Context, fields []string)
}

// noopFeedback preserves dialogue flow when no feedback surface is wired.
type noopFeedback struct{}

func (noopFeedback) Success(context.Context)                {}
func (noopFeedback) MissingFields(context.Context, []string) {}

// Result is the complete output of one fill invocation.
type Result struct {
	SessionID  string
	Record     form.Values
	Validation merge.ValidationResult
	State      fsm.State
	Turns      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Controller orchestrates fill sessions over injected collaborators. It holds
// no per-session state; concurrent sessions over different forms are safe.
type Controller struct {
	logger    *slog.Logger
	port      form.Port
	extractor Extractor
	speaker   speech.Speaker
	listener  speech.Listener
	feedback  Feedback
}

// NewController constructs a dialogue controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	port form.Port,
	extractor Extractor,
	speaker speech.Speaker,
	listener speech.Listener,
	feedback Feedback,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if speaker == nil {
		speaker = speech.PlaceholderSpeaker{}
	}
	if listener == nil {
		listener = speech.PlaceholderListener{}
	}
	if feedback == nil {
		feedback = noopFeedback{}
	}
	return &Controller{
		logger:    logger,
		port:      port,
		extractor: extractor,
		speaker:   speaker,
		listener:  listener,
		feedback:  feedback,
	}
}
