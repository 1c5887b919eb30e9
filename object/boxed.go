package object

import (
	"fmt"
)

// BoxID identifies a boxed host value in the ownership bridge's registry.
type BoxID uint64

// Boxed is a VM-visible handle wrapping host-owned memory. The payload's
// lifetime is managed by the ownership bridge: the machine's collector fires
// a finalizer when the box becomes unreachable, and the bridge releases the
// host side only when every box sharing the payload is finalized.
type Boxed struct {
	id      BoxID
	payload interface{}
}

// NewBoxed wraps a host payload under the given registry identity. Boxes
// are created through the bridge's Box call, not directly.
func NewBoxed(id BoxID, payload interface{}) *Boxed {
	return &Boxed{id: id, payload: payload}
}

func (b *Boxed) Type() Type {
	return BOXED
}

func (b *Boxed) ID() BoxID {
	return b.id
}

// Payload returns the host-owned value. The caller must not retain it past
// the box's finalization.
func (b *Boxed) Payload() interface{} {
	return b.payload
}

func (b *Boxed) Inspect() string {
	return fmt.Sprintf("#<Boxed:%d %T>", b.id, b.payload)
}

func (b *Boxed) String() string {
	return b.Inspect()
}

func (b *Boxed) Interface() interface{} {
	return b.payload
}

func (b *Boxed) Equals(other Value) bool {
	o, ok := other.(*Boxed)
	return ok && b.id == o.id
}

func (b *Boxed) IsTruthy() bool {
	return true
}
