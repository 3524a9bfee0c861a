// Package gate provides the process-wide re-entrant critical section every native
// call runs under.
//
// The native library is not thread-safe and delivers some callbacks synchronously
// on the thread that called into it. The holder of a Gate is therefore a goroutine:
// a callback that runs on the calling goroutine and calls back into the library
// re-enters without blocking, while every other goroutine waits until the holder's
// depth returns to zero.
package gate

import (
	"sync"

	"github.com/petermattis/goid"
)

// Gate is a re-entrant mutual exclusion lock keyed by goroutine identity.
// The zero value is not usable; call New.
type Gate struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64 // goroutine id of the holder, 0 when free
	depth int
}

var process = New()

// Process returns the gate shared by every native call in the process.
func Process() *Gate {
	return process
}

// New creates an independent gate.
func New() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Do runs action while holding the gate and returns its error.
// The depth is unwound even when action panics; the panic continues afterwards.
func (g *Gate) Do(action func() error) error {
	g.enter()
	defer g.exit()
	return action()
}

// Run is Do for actions that cannot fail.
func (g *Gate) Run(action func()) {
	g.enter()
	defer g.exit()
	action()
}

// Held reports whether the calling goroutine currently holds the gate.
func (g *Gate) Held() bool {
	id := goid.Get()

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.depth > 0 && g.owner == id
}

// Value runs fn under the gate and returns its result.
func Value[T any](g *Gate, fn func() (T, error)) (T, error) {
	var v T
	err := g.Do(func() error {
		var err error
		v, err = fn()
		return err
	})
	return v, err
}

func (g *Gate) enter() {
	id := goid.Get()

	g.mu.Lock()
	for g.depth > 0 && g.owner != id {
		g.cond.Wait()
	}
	g.owner = id
	g.depth++
	g.mu.Unlock()
}

func (g *Gate) exit() {
	g.mu.Lock()
	g.depth--
	if g.depth == 0 {
		g.owner = 0
		g.cond.Signal()
	}
	g.mu.Unlock()
}
