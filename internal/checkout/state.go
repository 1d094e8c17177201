package checkout

import (
	"fmt"
)

type State string

const (
	StateIdle         State = "idle"
	StateValidating   State = "validating"
	StateDecrementing State = "decrementing"
	StatePersisting   State = "persisting"
	StateCommitted    State = "committed"
	StateFailed       State = "failed"
)

var transitions = map[State][]State{
	StateIdle:         {StateValidating, StateFailed},
	StateValidating:   {StateDecrementing, StateFailed},
	StateDecrementing: {StatePersisting, StateFailed},
	StatePersisting:   {StateCommitted, StateFailed},
}

func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateFailed
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// attempt tracks one checkout run through the state machine.
type attempt struct {
	state    State
	failedIn State
}

func newAttempt() *attempt {
	return &attempt{state: StateIdle}
}

func (a *attempt) advance(next State) {
	if !a.state.CanTransitionTo(next) {
		panic(fmt.Sprintf("checkout: illegal transition %s -> %s", a.state, next))
	}
	a.state = next
}

func (a *attempt) fail() {
	a.failedIn = a.state
	a.advance(StateFailed)
}
