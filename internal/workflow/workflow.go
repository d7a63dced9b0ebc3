// Package workflow provides central transition tables for status fields.
// Every status mutation goes through a Machine so that controllers cannot
// assign arbitrary enum values.
package workflow

import "fmt"

// Action names a state-changing operation on a status field.
type Action string

// Machine is an immutable transition table (state, action) -> next state.
// Lookups on actions or states not present in the table fail, which makes
// terminal states simply states with no outgoing entries.
type Machine struct {
	name        string
	transitions map[string]map[Action]string
}

// New builds a Machine from a transition table. The table is not copied;
// callers declare it once at package level and never mutate it.
func New(name string, transitions map[string]map[Action]string) *Machine {
	return &Machine{
		name:        name,
		transitions: transitions,
	}
}

// Next returns the state that applying action in state leads to.
func (m *Machine) Next(state string, action Action) (string, error) {
	actions, ok := m.transitions[state]
	if !ok {
		return "", fmt.Errorf("%s: no transitions from terminal or unknown status %q", m.name, state)
	}
	next, ok := actions[action]
	if !ok {
		return "", fmt.Errorf("%s: action %q not allowed in status %q", m.name, action, state)
	}
	return next, nil
}

// Can reports whether action is allowed in state.
func (m *Machine) Can(state string, action Action) bool {
	_, err := m.Next(state, action)
	return err == nil
}
