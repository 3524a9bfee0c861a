package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Outcome is the state of a BrowseOperation.
type Outcome int

// Browse outcomes.
const (
	OutcomePending Outcome = iota
	OutcomeOK
	OutcomeError
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeOK:
		return "ok"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// harvestFunc reads a finished browse and creates the child entities it names.
// It runs inside the gate and returns the function that applies the result to the
// target. The returned function is only called when hv reports no error.
type harvestFunc func(hv *harvest, raw domain.Handle) (commit func())

// BrowseOperation is one asynchronous album browse, artist browse or search.
//
// The operation owns the native browse handle from creation to completion and
// releases it exactly once, whatever the outcome. On success the harvested data is
// applied to the target entity and an EntityLoadedEvent with Extended set follows;
// a BrowseCompletedEvent is published for every terminal outcome.
type BrowseOperation struct {
	id      string
	s       *Session
	kind    domain.EntityKind
	target  Entity
	harvest harvestFunc
	logger  *slog.Logger

	adoptOnce sync.Once
	h         *handle.Strong
	adoptErr  error

	mu      sync.RWMutex
	outcome Outcome
	err     error
	done    chan struct{}
}

func newBrowseOperation(s *Session, kind domain.EntityKind, target Entity, fn harvestFunc) *BrowseOperation {
	id := uuid.NewString()
	return &BrowseOperation{
		id:      id,
		s:       s,
		kind:    kind,
		target:  target,
		harvest: fn,
		logger: s.logger.With(
			slog.String("component", "browse"),
			slog.String("kind", kind.String()),
			slog.String("operation_id", id)),
		done: make(chan struct{}),
	}
}

// ID returns the identifier used in logs.
func (op *BrowseOperation) ID() string { return op.id }

// Kind returns the native browse kind.
func (op *BrowseOperation) Kind() domain.EntityKind { return op.kind }

// Target returns the entity the result is applied to.
func (op *BrowseOperation) Target() Entity { return op.target }

// Outcome returns the current outcome.
func (op *BrowseOperation) Outcome() Outcome {
	op.mu.RLock()
	defer op.mu.RUnlock()
	return op.outcome
}

// Err returns the failure of an operation that completed with OutcomeError.
func (op *BrowseOperation) Err() error {
	op.mu.RLock()
	defer op.mu.RUnlock()
	return op.err
}

// Done is closed when the operation reaches a terminal outcome.
func (op *BrowseOperation) Done() <-chan struct{} { return op.done }

// Wait blocks until the operation completes or ctx is done. Completions are only
// delivered while someone calls Session.ProcessEvents.
func (op *BrowseOperation) Wait(ctx context.Context) error {
	select {
	case <-op.done:
		return op.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// adopt takes ownership of the browse handle. The first caller wins; later calls
// return the same handle.
func (op *BrowseOperation) adopt(raw domain.Handle) (*handle.Strong, error) {
	op.adoptOnce.Do(func() {
		op.h, op.adoptErr = handle.Adopt(op.s.gate, op.s.native, op.kind, raw)
	})
	return op.h, op.adoptErr
}

// start takes ownership of the handle returned by the create call. Runs inside
// the gate.
func (op *BrowseOperation) start(raw domain.Handle) error {
	if _, err := op.adopt(raw); err != nil {
		return err
	}
	op.logger.Debug("browse started")
	return nil
}

// finish moves the operation to a terminal outcome. It reports false when the
// outcome was already set.
func (op *BrowseOperation) finish(outcome Outcome, err error) bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.outcome != OutcomePending {
		return false
	}
	op.outcome = outcome
	op.err = err
	close(op.done)
	return true
}

// complete is the native completion callback.
func (op *BrowseOperation) complete(raw domain.Handle) {
	finished := false

	defer func() {
		if r := recover(); r != nil {
			op.logger.Error("browse completion panicked", slog.Any("panic", r))
			finished = op.finish(OutcomeError, fmt.Errorf("%s completion panicked: %v", op.kind, r)) || finished
		}
		op.s.untrack(op)
		if !finished {
			return
		}
		if op.Outcome() == OutcomeOK {
			op.s.bus.Publish(EntityLoadedEvent{
				SessionEvent: newSessionEvent(op.s),
				Entity:       op.target,
				Extended:     true,
			})
		}
		op.s.bus.Publish(BrowseCompletedEvent{SessionEvent: newSessionEvent(op.s), Operation: op})
	}()

	op.s.gate.Run(func() {
		h, err := op.adopt(raw)
		if err != nil {
			finished = op.finish(OutcomeError, err)
			return
		}
		defer op.release(h)

		if op.Outcome() != OutcomePending {
			return
		}
		if op.target.base().isClosed() {
			finished = op.finish(OutcomeError, domain.ErrEntityClosed)
			return
		}
		if err := op.s.check(op.kind.String(), op.s.native.BrowseError(op.kind, raw)); err != nil {
			op.logger.Debug("browse failed", slog.Any("error", err))
			finished = op.finish(OutcomeError, err)
			return
		}

		hv := newHarvest(op.s)
		committed := false
		defer func() {
			if !committed {
				hv.abort()
			}
		}()

		commit := op.harvest(hv, raw)
		if hv.err != nil {
			op.logger.Warn("browse harvest failed", slog.Any("error", hv.err))
			finished = op.finish(OutcomeError, hv.err)
			return
		}
		commit()
		committed = true
		finished = op.finish(OutcomeOK, nil)
	})
}

func (op *BrowseOperation) release(h *handle.Strong) {
	if err := h.Release(); err != nil {
		op.logger.Warn("failed to release browse handle", slog.Any("error", err))
	}
}

// abandon fails a pending operation when the session closes. Runs inside the gate.
func (op *BrowseOperation) abandon() {
	if op.finish(OutcomeError, domain.ErrSessionClosed) {
		op.s.bus.Publish(BrowseCompletedEvent{SessionEvent: newSessionEvent(op.s), Operation: op})
	}
	if op.h != nil {
		op.release(op.h)
	}
}

// begin issues the native create call and takes ownership of the returned
// browse handle. Runs inside the gate.
//
// The operation is registered with the session before the create call so a
// completion delivered from inside it still unregisters it.
func (op *BrowseOperation) begin(create func(session domain.Handle, done ports.BrowseCallback) domain.Handle) (domain.Handle, error) {
	sraw, err := op.s.raw()
	if err != nil {
		return domain.InvalidHandle, err
	}

	op.s.track(op)
	raw := create(sraw, op.complete)
	if raw == domain.InvalidHandle {
		op.s.untrack(op)
		return domain.InvalidHandle, fmt.Errorf("create %s: %w", op.kind, domain.ErrOperationFailed)
	}
	if err := op.start(raw); err != nil {
		op.s.untrack(op)
		return domain.InvalidHandle, err
	}
	return raw, nil
}
