// Package doctor runs runtime readiness diagnostics for config, backends, audio, and forms.
package doctor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mfelder/voxfill/internal/audio"
	"github.com/mfelder/voxfill/internal/config"
	"github.com/mfelder/voxfill/internal/form"
)

const probeTimeout = 2 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkModel(cfg.Config.Model))
	checks = append(checks, checkTTSReady(cfg.Config.TTS))
	checks = append(checks, checkASRReachable(cfg.Config.ASR))
	checks = append(checks, checkAudioSelection(cfg.Config))
	checks = append(checks, checkFormsDocument(cfg.Config.Forms))

	return Report{Checks: checks}
}

// checkModel validates extraction backend credentials and base URL shape.
func checkModel(cfg config.ModelConfig) Check {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Check{Name: "model", Pass: false, Message: "model.api_key is empty (set VOXFILL_API_KEY or model.api_key)"}
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Check{Name: "model", Pass: false, Message: fmt.Sprintf("model.base_url %q is not a valid URL", cfg.BaseURL)}
	}
	return Check{Name: "model", Pass: true, Message: fmt.Sprintf("%s via %s", cfg.Model, parsed.Host)}
}

// checkTTSReady probes the synthesis backend health endpoint.
func checkTTSReady(cfg config.TTSConfig) Check {
	base := strings.TrimSpace(cfg.Endpoint)
	if base == "" {
		return Check{Name: "tts.ready", Pass: false, Message: "tts.endpoint is empty"}
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	healthURL := strings.TrimRight(base, "/") + "/v1/health"
	client := http.Client{Timeout: probeTimeout}
	resp, err := client.Get(healthURL)
	if err != nil {
		return Check{Name: "tts.ready", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "tts.ready", Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, healthURL)}
	}
	return Check{Name: "tts.ready", Pass: true, Message: fmt.Sprintf("ready at %s", healthURL)}
}

// checkASRReachable opens a TCP connection to the recognizer endpoint.
func checkASRReachable(cfg config.ASRConfig) Check {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return Check{Name: "asr.ready", Pass: false, Message: "asr.endpoint is empty"}
	}

	hostPort := endpoint
	if strings.Contains(hostPort, "://") {
		parsed, err := url.Parse(hostPort)
		if err != nil || parsed.Host == "" {
			return Check{Name: "asr.ready", Pass: false, Message: fmt.Sprintf("asr.endpoint %q is not a valid URL", endpoint)}
		}
		hostPort = parsed.Host
	}

	conn, err := net.DialTimeout("tcp", hostPort, probeTimeout)
	if err != nil {
		return Check{Name: "asr.ready", Pass: false, Message: fmt.Sprintf("dial failed: %v", err)}
	}
	_ = conn.Close()
	return Check{Name: "asr.ready", Pass: true, Message: fmt.Sprintf("reachable at %s", hostPort)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkFormsDocument opens and parses the configured form document.
func checkFormsDocument(cfg config.FormsConfig) Check {
	path := strings.TrimSpace(cfg.Document)
	if path == "" {
		return Check{Name: "forms.document", Pass: false, Message: "forms.document is empty"}
	}

	if _, err := form.OpenDocument(path); err != nil {
		return Check{Name: "forms.document", Pass: false, Message: err.Error()}
	}
	return Check{Name: "forms.document", Pass: true, Message: fmt.Sprintf("parsed %q", path)}
}
