package workflow

import "fmt"

// StateMachine tracks the current state of a single invoice and validates
// transitions against the chain it was built for
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, transitioning to the new state if allowed
	Fire(trigger Trigger) (State, error)

	// Peek returns the state the trigger would transition to, without firing
	Peek(trigger Trigger) (State, bool)

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// stateMachine implements StateMachine over an immutable transition table
type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger]State
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state
func (m *stateMachine) CanFire(trigger Trigger) bool {
	_, ok := m.Peek(trigger)
	return ok
}

// Peek returns the state the trigger would transition to, without firing
func (m *stateMachine) Peek(trigger Trigger) (State, bool) {
	outgoing, ok := m.transitions[m.currentState]
	if !ok {
		return "", false
	}
	to, ok := outgoing[trigger]
	return to, ok
}

// Fire executes the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(trigger Trigger) (State, error) {
	to, ok := m.Peek(trigger)
	if !ok {
		return m.currentState, fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}
	m.currentState = to
	return to, nil
}

// PermittedTriggers returns all triggers that can be fired in the current state
func (m *stateMachine) PermittedTriggers() []Trigger {
	outgoing, ok := m.transitions[m.currentState]
	if !ok {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(outgoing))
	for trigger := range outgoing {
		triggers = append(triggers, trigger)
	}

	return triggers
}
