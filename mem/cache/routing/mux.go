// Package routing provides the multiplexer that connects the hierarchy to its
// levels.
package routing

import "fmt"

// A Route tells a Mux how to connect its inputs to its outputs.
type Route struct {
	broadcast bool
	index     int
}

// Broadcast drives every output from input 0.
func Broadcast() Route {
	return Route{broadcast: true}
}

// Select drives output 0 from input i.
func Select(i int) Route {
	return Route{index: i}
}

// IsBroadcast tells if the route is a broadcast.
func (r Route) IsBroadcast() bool {
	return r.broadcast
}

// Index returns the selected input of a select route.
func (r Route) Index() int {
	return r.index
}

func (r Route) String() string {
	if r.broadcast {
		return "broadcast"
	}

	return fmt.Sprintf("select(%d)", r.index)
}

// Mux is an N-way multiplexer. Values written to the inputs only reach the
// outputs when Settle is called, so every reader in a tick sees the same
// settled values.
type Mux[T any] struct {
	name    string
	route   Route
	inputs  []T
	outputs []T
}

// NewMux creates a multiplexer with width inputs and width outputs. It
// starts with a broadcast route.
func NewMux[T any](name string, width int) *Mux[T] {
	if width < 1 {
		panic(fmt.Sprintf("mux %s: width must be >= 1", name))
	}

	return &Mux[T]{
		name:    name,
		route:   Broadcast(),
		inputs:  make([]T, width),
		outputs: make([]T, width),
	}
}

// Name returns the name of the mux.
func (m *Mux[T]) Name() string {
	return m.name
}

// Width returns the number of inputs and outputs.
func (m *Mux[T]) Width() int {
	return len(m.inputs)
}

// Route returns the current route.
func (m *Mux[T]) Route() Route {
	return m.route
}

// SetRoute changes the route. It takes effect at the next Settle.
func (m *Mux[T]) SetRoute(r Route) {
	if !r.broadcast && (r.index < 0 || r.index >= len(m.inputs)) {
		panic(fmt.Sprintf("mux %s: select %d out of range [0, %d)",
			m.name, r.index, len(m.inputs)))
	}

	m.route = r
}

// Drive writes v to input i.
func (m *Mux[T]) Drive(i int, v T) {
	m.inputs[i] = v
}

// Settle propagates the inputs to the outputs according to the route.
func (m *Mux[T]) Settle() {
	if m.route.broadcast {
		for i := range m.outputs {
			m.outputs[i] = m.inputs[0]
		}

		return
	}

	var zero T
	for i := range m.outputs {
		m.outputs[i] = zero
	}

	m.outputs[0] = m.inputs[m.route.index]
}

// Output returns the settled value of output i.
func (m *Mux[T]) Output(i int) T {
	return m.outputs[i]
}
