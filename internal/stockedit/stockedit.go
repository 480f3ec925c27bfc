// Package stockedit models the lifecycle of one editable stock field:
//
//	Viewing → Editing → Saving → Saved
//	                      └────→ Reverting → Viewing
//
// A failed save is never rolled back locally; the Reverting state ends only
// after the authoritative data has been fetched again.
package stockedit

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidTransition is returned for a transition the current state forbids
var ErrInvalidTransition = errors.New("invalid edit transition")

type State string

const (
	Viewing   State = "viewing"
	Editing   State = "editing"
	Saving    State = "saving"
	Saved     State = "saved"
	Reverting State = "reverting"
)

// Machine is the state of one product's edit
type Machine struct {
	mu    sync.Mutex
	state State
}

// New starts in Viewing
func New() *Machine {
	return &Machine{state: Viewing}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin opens an edit from Viewing or after a previous save
func (m *Machine) Begin() error {
	return m.move(Editing, Viewing, Saved)
}

// Cancel abandons an edit that was never submitted
func (m *Machine) Cancel() error {
	return m.move(Viewing, Editing)
}

// Submit marks the optimistic value as applied and the request as in flight
func (m *Machine) Submit() error {
	return m.move(Saving, Editing)
}

// Confirm records backend acceptance
func (m *Machine) Confirm() error {
	return m.move(Saved, Saving)
}

// Fail records backend rejection; a re-fetch must follow
func (m *Machine) Fail() error {
	return m.move(Reverting, Saving)
}

// Resynced closes a revert once fresh data has been loaded
func (m *Machine) Resynced() error {
	return m.move(Viewing, Reverting)
}

func (m *Machine) move(to State, from ...State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, allowed := range from {
		if m.state == allowed {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, m.state, to)
}

// Registry holds one machine per product id
type Registry struct {
	mu       sync.Mutex
	machines map[string]*Machine
}

func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]*Machine)}
}

// For returns the product's machine, creating it in Viewing
func (r *Registry) For(productID string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.machines[productID]
	if !ok {
		m = New()
		r.machines[productID] = m
	}
	return m
}

// State reports a product's state without creating a machine
func (r *Registry) State(productID string) State {
	r.mu.Lock()
	m, ok := r.machines[productID]
	r.mu.Unlock()

	if !ok {
		return Viewing
	}
	return m.State()
}
