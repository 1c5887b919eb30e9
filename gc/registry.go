// Package gc bridges host-owned memory into the machine's tracing collector.
//
// The two sides manage memory incompatibly: the host releases objects
// explicitly, the machine traces reachability. The bridge reconciles them
// with an explicit registry: boxing a host value registers a finalizer with
// the collector and increments a keep-alive count on the underlying payload;
// when the collector finds a box unreachable it fires the finalizer, which
// decrements the count and releases the host side only at zero. The same
// payload may be boxed into several machine values, or additionally retained
// by host code, without risking an early release.
package gc

import (
	"sync"
	"sync/atomic"

	"github.com/garnet-lang/garnet/object"
)

// ReleaseFunc is called exactly once, when the last keep-alive reference to
// a payload is gone. Finalizers run while the collector holds the machine,
// so a ReleaseFunc must not allocate machine-visible values.
type ReleaseFunc func(payload interface{})

// Ref is the bridge's handle on one host-owned payload. Its keep-alive
// count covers every box wrapping the payload plus any direct host retains.
type Ref struct {
	payload  interface{}
	release  ReleaseFunc
	keep     int64
	released int32
}

// Payload returns the host value this ref guards.
func (r *Ref) Payload() interface{} {
	return r.payload
}

// Retain adds a direct host-side keep-alive reference.
func (r *Ref) Retain() {
	atomic.AddInt64(&r.keep, 1)
}

// Release drops one keep-alive reference, firing the ReleaseFunc when the
// count reaches zero.
func (r *Ref) Release() {
	if atomic.AddInt64(&r.keep, -1) > 0 {
		return
	}
	if atomic.CompareAndSwapInt32(&r.released, 0, 1) && r.release != nil {
		r.release(r.payload)
	}
}

// Released reports whether the payload has been released.
func (r *Ref) Released() bool {
	return atomic.LoadInt32(&r.released) == 1
}

// Registry tracks every outstanding box of one interpreter. The machine's
// collector is wired to Finalize at boot; the interpreter calls
// ForceFinalizeAll during shutdown so no finalization is skipped.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	boxes  map[object.BoxID]*Ref
}

func NewRegistry() *Registry {
	return &Registry{boxes: map[object.BoxID]*Ref{}}
}

// NewRef registers a host payload with the bridge. The returned ref starts
// with a zero keep-alive count; Box and Retain add references.
func (g *Registry) NewRef(payload interface{}, release ReleaseFunc) *Ref {
	return &Ref{payload: payload, release: release}
}

// Box wraps the ref's payload in a new machine-visible value and increments
// the keep-alive count. Each call returns a distinct box identity.
func (g *Registry) Box(ref *Ref) *object.Boxed {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := object.BoxID(g.nextID)
	g.boxes[id] = ref
	ref.Retain()
	return object.NewBoxed(id, ref.payload)
}

// Finalize is the collector's finalizer hook: the box with the given
// identity became unreachable. Finalizing an unknown or already finalized
// box is a no-op, so re-entrant collections cannot double-release.
func (g *Registry) Finalize(id object.BoxID) {
	g.mu.Lock()
	ref, ok := g.boxes[id]
	if ok {
		delete(g.boxes, id)
	}
	g.mu.Unlock()
	if ok {
		ref.Release()
	}
}

// Outstanding returns the number of boxes not yet finalized.
func (g *Registry) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.boxes)
}

// ForceFinalizeAll finalizes every outstanding box. Called at shutdown,
// before the machine's memory is released, so host payloads cannot leak.
func (g *Registry) ForceFinalizeAll() int {
	g.mu.Lock()
	ids := make([]object.BoxID, 0, len(g.boxes))
	for id := range g.boxes {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	for _, id := range ids {
		g.Finalize(id)
	}
	return len(ids)
}
