package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateGreeting   State = "greeting"
	StateListening  State = "listening"
	StateExtracting State = "extracting"
	StateValidating State = "validating"
	StateCorrecting State = "correcting"
	StateConfirming State = "confirming"
	StateDone       State = "done"
)

const (
	EventBegin      Event = "begin"
	EventGreeted    Event = "greeted"
	EventHeard      Event = "heard"
	EventExtracted  Event = "extracted"
	EventComplete   Event = "complete"
	EventIncomplete Event = "incomplete"
	EventCorrected  Event = "corrected"
	EventConfirmed  Event = "confirmed"
	EventRetry      Event = "retry"
)

func Transition(current State, event Event) (State, error) {
	if event == EventRetry {
		// Spoken retry notice returns any live state to listening.
		if current == StateDone {
			return current, invalidTransition(current, event)
		}
		return StateListening, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventBegin:
			return StateGreeting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateGreeting:
		switch event {
		case EventGreeted:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateListening:
		switch event {
		case EventHeard:
			return StateExtracting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateExtracting:
		switch event {
		case EventExtracted:
			return StateValidating, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateValidating:
		switch event {
		case EventComplete:
			return StateConfirming, nil
		case EventIncomplete:
			return StateCorrecting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCorrecting:
		switch event {
		case EventCorrected:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateConfirming:
		switch event {
		case EventConfirmed:
			return StateDone, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDone:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
