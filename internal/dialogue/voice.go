package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfelder/voxfill/internal/form"
	"github.com/mfelder/voxfill/internal/fsm"
	"github.com/mfelder/voxfill/internal/locale"
	"github.com/mfelder/voxfill/internal/merge"
)

// VoiceOptions tunes one voice fill session.
type VoiceOptions struct {
	// Prompt overrides the default extraction instruction when non-empty.
	Prompt string
	// Language selects the dialogue language ("en" default, "de").
	Language string
	// OnStatus receives playback/recording snapshots; may be nil.
	OnStatus StatusFunc
}

// voiceSession carries the state of one running turn loop.
type voiceSession struct {
	id       string
	formID   string
	language string
	opts     VoiceOptions
	catalog  form.Catalog
	record   form.Values
	state    fsm.State
	turns    int
}

// FillByVoice runs the spoken turn loop until every field resolves: speak a
// prompt, listen, extract, merge, validate, repeat. Extraction and playback
// faults are recovered with a spoken retry notice; the loop itself is
// unbounded and ends only on success or context cancellation.
func (c *Controller) FillByVoice(ctx context.Context, formID string, opts VoiceOptions) (Result, error) {
	result := Result{SessionID: uuid.NewString(), StartedAt: time.Now()}

	language, err := locale.Validate(opts.Language)
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	catalog, err := form.ReadCatalog(ctx, c.port, formID)
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	session := &voiceSession{
		id:       result.SessionID,
		formID:   formID,
		language: language,
		opts:     opts,
		catalog:  catalog,
		state:    fsm.StateIdle,
	}

	c.logger.Info("voice session start",
		"session", session.id,
		"form", formID,
		"language", language,
		"fields", len(catalog.Keys()),
	)

	record, err := c.runTurnLoop(ctx, session)
	result.Record = record
	result.State = session.state
	result.Turns = session.turns
	result.FinishedAt = time.Now()
	if err != nil {
		c.logger.Warn("voice session aborted", "session", session.id, "error", err.Error())
		return result, err
	}

	result.Validation = merge.Validate(session.catalog, record)
	c.logger.Info("voice session complete", "session", session.id, "turns", session.turns)
	return result, nil
}

// runTurnLoop drives the state machine from greeting to confirmation.
func (c *Controller) runTurnLoop(ctx context.Context, session *voiceSession) (form.Values, error) {
	if err := c.transition(session, fsm.EventBegin); err != nil {
		return nil, err
	}
	c.speakPrompt(ctx, session, locale.MessageWelcome)
	if err := c.transition(session, fsm.EventGreeted); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return session.record, err
		}

		transcript := c.listenOnce(ctx, session)
		if err := ctx.Err(); err != nil {
			return session.record, err
		}
		if err := c.transition(session, fsm.EventHeard); err != nil {
			return nil, err
		}
		session.turns++

		c.emitStatus(session, Status{})
		extracted, err := c.extractor.Extract(ctx, transcript, session.catalog, session.opts.Prompt)
		if err != nil {
			// Recovered locally: spoken retry notice, back to listening.
			c.logger.Warn("extraction failed",
				"session", session.id,
				"turn", session.turns,
				"error", err.Error(),
			)
			c.speakPrompt(ctx, session, locale.MessageRetry)
			if terr := c.transition(session, fsm.EventRetry); terr != nil {
				return nil, terr
			}
			continue
		}
		if err := c.transition(session, fsm.EventExtracted); err != nil {
			return nil, err
		}

		session.record = merge.Merge(session.catalog, extracted)
		session.catalog = merge.Apply(session.catalog, session.record)
		validation := merge.Validate(session.catalog, session.record)

		if validation.HasErrors {
			c.feedback.MissingFields(ctx, validation.MissingFields)
			if err := c.transition(session, fsm.EventIncomplete); err != nil {
				return nil, err
			}
			c.speakPrompt(ctx, session, locale.MessageMissing)
			if err := c.transition(session, fsm.EventCorrected); err != nil {
				return nil, err
			}
			continue
		}

		c.feedback.Success(ctx)
		if err := c.transition(session, fsm.EventComplete); err != nil {
			return nil, err
		}
		c.speakPrompt(ctx, session, locale.MessageSuccess)
		if err := c.transition(session, fsm.EventConfirmed); err != nil {
			return nil, err
		}

		if err := c.port.Write(ctx, session.formID, session.record); err != nil {
			return session.record, fmt.Errorf("write resolved values: %w", err)
		}
		return session.record, nil
	}
}

// listenOnce captures one utterance. Recognition faults resolve to silence.
func (c *Controller) listenOnce(ctx context.Context, session *voiceSession) string {
	c.emitStatus(session, Status{IsRecording: true})
	transcript, err := c.listener.Listen(ctx, locale.SpeechCode(session.language))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ""
		}
		c.logger.Warn("recognition failed", "session", session.id, "error", err.Error())
		return ""
	}
	return transcript
}

// speakPrompt plays one locale prompt. Playback faults are logged and the
// loop continues; they never terminate the session.
func (c *Controller) speakPrompt(ctx context.Context, session *voiceSession, message locale.Message) {
	c.emitStatus(session, Status{IsPlaying: true})
	text := locale.Prompt(session.language, message)
	if err := c.speaker.Speak(ctx, text, locale.SpeechCode(session.language)); err != nil {
		c.logger.Warn("playback failed",
			"session", session.id,
			"message", string(message),
			"error", err.Error(),
		)
	}
	c.emitStatus(session, Status{})
}

// transition applies one FSM event to the session state.
func (c *Controller) transition(session *voiceSession, event fsm.Event) error {
	next, err := fsm.Transition(session.state, event)
	if err != nil {
		return err
	}
	session.state = next
	return nil
}

// emitStatus pushes one snapshot to the caller, synchronously and in order.
func (c *Controller) emitStatus(session *voiceSession, status Status) {
	if session.opts.OnStatus == nil {
		return
	}
	session.opts.OnStatus(status)
}
