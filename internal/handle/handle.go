// Package handle implements the ownership discipline for native object identifiers.
//
// A Strong handle owns exactly one native reference. It is created either by adopting
// a reference the caller already owns (objects returned by create calls) or by
// acquiring a new one for a borrowed identifier (objects read out of another object).
// The reference is released exactly once, by Release or, for handles that become
// unreachable, by a runtime cleanup.
package handle

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
)

// RefCounter issues the kind-specific native add-ref and release calls.
// ports.Native satisfies it.
type RefCounter interface {
	AddRef(kind domain.EntityKind, h domain.Handle) domain.Result
	Release(kind domain.EntityKind, h domain.Handle) domain.Result
}

// Strong is an owned reference to one native object.
type Strong struct {
	st      *state
	cleanup runtime.Cleanup
}

// state is kept apart from Strong so the runtime cleanup can reach it without
// keeping the Strong itself alive.
type state struct {
	g        *gate.Gate
	refs     RefCounter
	kind     domain.EntityKind
	raw      domain.Handle
	released atomic.Bool
}

// Adopt wraps a reference the caller already owns. No native call is made.
func Adopt(g *gate.Gate, refs RefCounter, kind domain.EntityKind, raw domain.Handle) (*Strong, error) {
	if raw == domain.InvalidHandle {
		return nil, fmt.Errorf("adopt %s: %w", kind, domain.ErrNilHandle)
	}
	return newStrong(g, refs, kind, raw), nil
}

// Acquire wraps a borrowed identifier and adds a native reference to it.
func Acquire(g *gate.Gate, refs RefCounter, kind domain.EntityKind, raw domain.Handle) (*Strong, error) {
	if raw == domain.InvalidHandle {
		return nil, fmt.Errorf("acquire %s: %w", kind, domain.ErrNilHandle)
	}

	var r domain.Result
	g.Run(func() {
		r = refs.AddRef(kind, raw)
	})
	if !r.IsOk() {
		return nil, domain.NewNativeError(kind.String()+"_add_ref", r, "")
	}
	return newStrong(g, refs, kind, raw), nil
}

func newStrong(g *gate.Gate, refs RefCounter, kind domain.EntityKind, raw domain.Handle) *Strong {
	h := &Strong{
		st: &state{g: g, refs: refs, kind: kind, raw: raw},
	}
	h.cleanup = runtime.AddCleanup(h, func(st *state) { _ = st.release() }, h.st)
	return h
}

// Raw returns the native identifier.
// It panics with domain.ErrHandleReleased once the handle has been released.
func (h *Strong) Raw() domain.Handle {
	if h.st.released.Load() {
		panic(fmt.Errorf("%s %#x: %w", h.st.kind, uintptr(h.st.raw), domain.ErrHandleReleased))
	}
	return h.st.raw
}

// Kind returns the native object family of the handle.
func (h *Strong) Kind() domain.EntityKind {
	return h.st.kind
}

// Released reports whether the reference has been given back.
func (h *Strong) Released() bool {
	return h.st.released.Load()
}

// Equal reports whether both handles refer to the same native object.
func (h *Strong) Equal(other *Strong) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.st.kind == other.st.kind && h.st.raw == other.st.raw
}

// Release gives the native reference back. Only the first call does anything;
// later and concurrent calls return nil.
func (h *Strong) Release() error {
	if h == nil {
		return nil
	}
	h.cleanup.Stop()
	return h.st.release()
}

func (h *Strong) String() string {
	state := "live"
	if h.Released() {
		state = "released"
	}
	return fmt.Sprintf("%s@%#x(%s)", h.st.kind, uintptr(h.st.raw), state)
}

func (s *state) release() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}

	var r domain.Result
	s.g.Run(func() {
		r = s.refs.Release(s.kind, s.raw)
	})
	if !r.IsOk() {
		return domain.NewNativeError(s.kind.String()+"_release", r, "")
	}
	return nil
}

// ReleaseAll releases every handle and returns the first error.
// Nil entries are skipped.
func ReleaseAll(handles ...*Strong) error {
	var first error
	for _, h := range handles {
		if err := h.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
