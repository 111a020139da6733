package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventBegin)
	require.NoError(t, err)
	require.Equal(t, StateGreeting, next)

	next, err = Transition(next, EventGreeted)
	require.NoError(t, err)
	require.Equal(t, StateListening, next)

	next, err = Transition(next, EventHeard)
	require.NoError(t, err)
	require.Equal(t, StateExtracting, next)

	next, err = Transition(next, EventExtracted)
	require.NoError(t, err)
	require.Equal(t, StateValidating, next)

	next, err = Transition(next, EventComplete)
	require.NoError(t, err)
	require.Equal(t, StateConfirming, next)

	next, err = Transition(next, EventConfirmed)
	require.NoError(t, err)
	require.Equal(t, StateDone, next)
}

func TestTransitionCorrectionLoop(t *testing.T) {
	next, err := Transition(StateValidating, EventIncomplete)
	require.NoError(t, err)
	require.Equal(t, StateCorrecting, next)

	next, err = Transition(next, EventCorrected)
	require.NoError(t, err)
	require.Equal(t, StateListening, next)
}

func TestTransitionRetryFromAnyLiveState(t *testing.T) {
	states := []State{StateIdle, StateGreeting, StateListening, StateExtracting, StateValidating, StateCorrecting, StateConfirming}
	for _, state := range states {
		next, err := Transition(state, EventRetry)
		require.NoError(t, err)
		require.Equal(t, StateListening, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "idle heard invalid", state: StateIdle, event: EventHeard, want: StateIdle, wantErr: true},
		{name: "idle confirmed invalid", state: StateIdle, event: EventConfirmed, want: StateIdle, wantErr: true},
		{name: "greeting begin invalid", state: StateGreeting, event: EventBegin, want: StateGreeting, wantErr: true},
		{name: "listening extracted invalid", state: StateListening, event: EventExtracted, want: StateListening, wantErr: true},
		{name: "extracting heard invalid", state: StateExtracting, event: EventHeard, want: StateExtracting, wantErr: true},
		{name: "validating heard invalid", state: StateValidating, event: EventHeard, want: StateValidating, wantErr: true},
		{name: "correcting complete invalid", state: StateCorrecting, event: EventComplete, want: StateCorrecting, wantErr: true},
		{name: "confirming incomplete invalid", state: StateConfirming, event: EventIncomplete, want: StateConfirming, wantErr: true},
		{name: "done retry invalid", state: StateDone, event: EventRetry, want: StateDone, wantErr: true},
		{name: "done begin invalid", state: StateDone, event: EventBegin, want: StateDone, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventBegin)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
