package param

import (
	"fmt"
	"sync/atomic"
)

// Mailbox holds the latest pending value of each discrete property.
//
// Post is called from the control goroutine and Drain from the audio
// goroutine. Neither blocks: each property has its own atomic slot and a
// newer Post simply replaces a value that has not been drained yet.
type Mailbox struct {
	names []string
	slots []atomic.Pointer[Value]
	index map[string]int
}

// NewMailbox creates a mailbox for the given property names.
func NewMailbox(names ...string) *Mailbox {
	m := &Mailbox{
		names: append([]string(nil), names...),
		slots: make([]atomic.Pointer[Value], len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		m.index[name] = i
	}
	return m
}

// Names returns the property names in declaration order.
func (m *Mailbox) Names() []string {
	return m.names
}

// Post stores v as the pending value of name.
func (m *Mailbox) Post(name string, v Value) error {
	i, ok := m.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}

	m.slots[i].Store(&v)

	return nil
}

// Pending reports whether any property has an undrained value.
func (m *Mailbox) Pending() bool {
	for i := range m.slots {
		if m.slots[i].Load() != nil {
			return true
		}
	}
	return false
}

// Drain hands every pending value to apply, in declaration order, and
// clears it. It returns the number of values applied.
func (m *Mailbox) Drain(apply func(name string, v Value)) int {
	n := 0
	for i := range m.slots {
		v := m.slots[i].Swap(nil)
		if v == nil {
			continue
		}
		apply(m.names[i], *v)
		n++
	}
	return n
}
