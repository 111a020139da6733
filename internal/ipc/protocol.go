// Package ipc exposes a unix-socket control channel for running fill sessions.
package ipc

// Request is one newline-delimited JSON command from a client.
type Request struct {
	Command string `json:"command"`
}

// Response reports the outcome of one command.
type Response struct {
	OK        bool   `json:"ok"`
	State     string `json:"state,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	FormID    string `json:"form_id,omitempty"`
	Turns     int    `json:"turns,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}
