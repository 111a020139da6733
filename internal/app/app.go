// Package app dispatches CLI commands against the runtime wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/mfelder/voxfill/internal/audio"
	"github.com/mfelder/voxfill/internal/cli"
	"github.com/mfelder/voxfill/internal/config"
	"github.com/mfelder/voxfill/internal/dialogue"
	"github.com/mfelder/voxfill/internal/doctor"
	"github.com/mfelder/voxfill/internal/extract"
	"github.com/mfelder/voxfill/internal/feedback"
	"github.com/mfelder/voxfill/internal/form"
	"github.com/mfelder/voxfill/internal/ipc"
	"github.com/mfelder/voxfill/internal/logging"
	"github.com/mfelder/voxfill/internal/pipeline"
	"github.com/mfelder/voxfill/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("voxfill"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("voxfill"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	if parsed.DocumentPath != "" {
		cfgLoaded.Config.Forms.Document = parsed.DocumentPath
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandCancel:
		return r.forwardOrFail(ctx, "cancel")
	case cli.CommandFill:
		return r.commandFill(ctx, cfgLoaded.Config, parsed, logger)
	case cli.CommandVoice:
		return r.commandVoice(ctx, cfgLoaded.Config, parsed, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, "status")
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		line := resp.State
		if resp.FormID != "" {
			line = fmt.Sprintf("%s form=%s turns=%d", resp.State, resp.FormID, resp.Turns)
		}
		fmt.Fprintln(r.Stdout, line)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active voxfill session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// openDocument loads the forms document and resolves the target form.
func (r Runner) openDocument(cfg config.Config, parsed cli.Parsed) (*form.DocumentSource, string, error) {
	path := strings.TrimSpace(cfg.Forms.Document)
	if path == "" {
		return nil, "", errors.New("no forms document configured (use --document or forms.document)")
	}

	source, err := form.OpenDocument(path)
	if err != nil {
		return nil, "", err
	}

	formID := strings.TrimSpace(parsed.FormID)
	if formID == "" {
		ids := source.FormIDs()
		if len(ids) == 0 {
			return nil, "", fmt.Errorf("forms document %q contains no forms", path)
		}
		formID = ids[0]
	}
	return source, formID, nil
}

// newExtractor builds the chat-model-backed extraction service.
func newExtractor(ctx context.Context, cfg config.ModelConfig, logger *slog.Logger) (*extract.Service, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize chat model: %w", err)
	}
	return extract.NewService(chatModel, logger), nil
}

func (r Runner) commandFill(ctx context.Context, cfg config.Config, parsed cli.Parsed, logger *slog.Logger) int {
	source, formID, err := r.openDocument(cfg, parsed)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	extractor, err := newExtractor(ctx, cfg.Model, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	notifier := feedback.New(cfg.Feedback, r.Stdout, logger)
	controller := dialogue.NewController(logger, source, extractor, nil, nil, notifier)

	result, err := controller.FillByText(ctx, formID, parsed.Text)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("text fill failed", "form", formID, "error", err.Error())
		return 1
	}

	r.printRecord(ctx, source, formID, result.Record)
	logFillResult(logger, formID, result)
	if result.Validation.HasErrors {
		return 1
	}
	return 0
}

func (r Runner) commandVoice(ctx context.Context, cfg config.Config, parsed cli.Parsed, logger *slog.Logger) int {
	source, formID, err := r.openDocument(cfg, parsed)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	extractor, err := newExtractor(ctx, cfg.Model, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	language := parsed.Language
	if strings.TrimSpace(language) == "" {
		language = cfg.Dialogue.Language
	}
	prompt := parsed.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = cfg.Dialogue.Prompt
	}

	speaker := pipeline.NewSpeaker(cfg, logger)
	listener := pipeline.NewListener(cfg, logger)
	notifier := feedback.New(cfg.Feedback, r.Stdout, logger)
	controller := dialogue.NewController(logger, source, extractor, speaker, listener, notifier)

	sessionCtx, sessionCancel := context.WithCancel(ctx)
	defer sessionCancel()

	var mu sync.Mutex
	state := "starting"
	turns := 0
	cancelled := false

	onStatus := func(status dialogue.Status) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case status.IsPlaying:
			state = "speaking"
		case status.IsRecording:
			state = "listening"
			turns++
		default:
			state = "processing"
		}
	}

	shutdownIPC := r.startControlSocket(ctx, formID, func() (string, int) {
		mu.Lock()
		defer mu.Unlock()
		return state, turns
	}, func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		sessionCancel()
	}, logger)
	defer shutdownIPC()

	result, err := controller.FillByVoice(sessionCtx, formID, dialogue.VoiceOptions{
		Prompt:   prompt,
		Language: language,
		OnStatus: onStatus,
	})

	mu.Lock()
	wasCancelled := cancelled
	mu.Unlock()

	if err != nil {
		if wasCancelled && errors.Is(err, context.Canceled) {
			fmt.Fprintln(r.Stdout, "cancelled")
			logger.Info("voice session cancelled", "form", formID)
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("voice session failed", "form", formID, "error", err.Error())
		return 1
	}

	r.printRecord(ctx, source, formID, result.Record)
	logFillResult(logger, formID, result)
	return 0
}

// startControlSocket exposes status/cancel over the runtime socket. It is
// best effort: a missing runtime dir degrades to a session without remote
// control.
func (r Runner) startControlSocket(
	ctx context.Context,
	formID string,
	snapshot func() (string, int),
	cancel func(),
	logger *slog.Logger,
) func() {
	noop := func() {}

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		logger.Warn("control socket unavailable", "error", err.Error())
		return noop
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		logger.Warn("control socket unavailable", "error", err.Error())
		return noop
	}

	serverCtx, serverCancel := context.WithCancel(ctx)
	serverErrCh := make(chan error, 1)
	handler := ipc.HandlerFunc(func(_ context.Context, req ipc.Request) ipc.Response {
		switch req.Command {
		case "status":
			state, turns := snapshot()
			return ipc.Response{OK: true, State: state, FormID: formID, Turns: turns}
		case "cancel":
			cancel()
			return ipc.Response{OK: true, Message: "cancelled"}
		default:
			return ipc.Response{OK: false, Error: fmt.Sprintf("unsupported command %q", req.Command)}
		}
	})
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, handler)
	}()

	return func() {
		serverCancel()
		if serveErr := <-serverErrCh; serveErr != nil {
			logger.Warn("ipc server failed", "error", serveErr.Error())
		}
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}
}

// printRecord renders resolved values in catalog order.
func (r Runner) printRecord(ctx context.Context, port form.Port, formID string, record form.Values) {
	catalog, err := form.ReadCatalog(ctx, port, formID)
	if err != nil {
		return
	}

	for _, key := range catalog.Keys() {
		value, ok := record[key]
		if !ok {
			continue
		}
		rendered := value.Text
		if len(value.Choices) > 0 {
			rendered = strings.Join(value.Choices, ", ")
		}
		fmt.Fprintf(r.Stdout, "%s: %s\n", key, rendered)
	}
}

func logFillResult(logger *slog.Logger, formID string, result dialogue.Result) {
	if logger == nil {
		return
	}
	logger.Info("fill session complete",
		"session_id", result.SessionID,
		"form", formID,
		"state", result.State,
		"turns", result.Turns,
		"fields", len(result.Record),
		"missing", result.Validation.MissingFields,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	)
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
