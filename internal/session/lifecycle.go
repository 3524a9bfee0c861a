package session

import (
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"weak"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Entity is a managed native object: a track, album, artist, user, playlist,
// search, image or link.
//
// An entity owns exactly one native reference, released by Close. Two entities
// are the same native object when Equal reports true; instance identity means nothing.
type Entity interface {
	Kind() domain.EntityKind

	// Handle returns the native identifier. It panics after Close.
	Handle() domain.Handle
	Session() *Session
	IsLoaded() bool
	Equal(other Entity) bool

	// OnLoaded calls fn each time the entity completes loading until cancel is called.
	OnLoaded(fn func()) (cancel func())
	Close() error

	base() *entity
}

// loader is implemented by every concrete entity. All methods run inside the gate.
type loader interface {
	// load reads the native snapshot of raw and commits it with entity.commitLoaded.
	// It must not commit when hv reports an error.
	load(hv *harvest, raw domain.Handle)

	// clear resets every metadata field to its default with entity.commitCleared.
	clear()

	// children returns the entities currently owned by this one.
	children() []Entity
}

// entity implements the load state machine shared by every entity kind:
// construction assigns the handle, subscribes to metadata updates and evaluates.
// Every evaluation reads the native load predicate inside the gate and either
// copies the metadata (Loaded) or resets it (NotLoaded).
//
// The bus only reaches an entity through a weak pointer. An entity the host drops
// without Close is collected; its handle cleanup returns the native reference and
// the entity cleanup removes its subscriptions.
type entity struct {
	s    *Session
	h    *handle.Strong
	self Entity
	impl loader

	subs    *subscriptions
	cleanup runtime.Cleanup

	// mu guards loaded, closed and the metadata fields of the concrete entity
	mu     sync.RWMutex
	loaded bool
	closed bool
}

// init wires the entity up. follow selects whether metadata updates re-evaluate it;
// entities that do not follow are evaluated once.
//
// A panic during the first evaluation drops the subscriptions and releases h
// before it propagates, so a half-built entity holds nothing.
func (e *entity) init(s *Session, h *handle.Strong, self Entity, impl loader, follow bool) {
	e.s = s
	e.h = h
	e.self = self
	e.impl = impl
	e.subs = &subscriptions{bus: s.bus}
	e.cleanup = runtime.AddCleanup(e, (*subscriptions).clear, e.subs)

	if follow {
		wp := weak.Make(e)
		e.subs.add(s.bus.SubscribeFiltered(domain.EventMetadataUpdated, s.ownEvent, func(domain.Event) {
			if live := wp.Value(); live != nil {
				live.evaluate()
			}
		}))
	}

	defer func() {
		if r := recover(); r != nil {
			e.mu.Lock()
			e.closed = true
			e.mu.Unlock()
			e.cleanup.Stop()
			e.subs.clear()
			_ = h.Release()
			panic(r)
		}
	}()
	e.evaluate()
}

func (e *entity) base() *entity { return e }

// Kind returns the native object family.
func (e *entity) Kind() domain.EntityKind { return e.h.Kind() }

// Handle returns the native identifier. It panics after Close.
func (e *entity) Handle() domain.Handle { return e.h.Raw() }

// Session returns the owning session.
func (e *entity) Session() *Session { return e.s }

// IsLoaded reports whether the metadata fields are populated.
func (e *entity) IsLoaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *entity) isClosed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

// Equal reports whether other refers to the same native object.
func (e *entity) Equal(other Entity) bool {
	if other == nil {
		return false
	}
	return e.h.Equal(other.base().h)
}

// OnLoaded calls fn on every completion of this entity until cancel is called.
// Close cancels every callback still registered. A fn that captures the entity
// keeps it reachable until cancel or Close.
func (e *entity) OnLoaded(fn func()) (cancel func()) {
	if e.isClosed() {
		return func() {}
	}

	wp := weak.Make(e)
	id := e.s.bus.SubscribeFiltered(domain.EventEntityLoaded, func(ev domain.Event) bool {
		loaded, ok := ev.(EntityLoadedEvent)
		return ok && loaded.Entity != nil && loaded.Entity.base() == wp.Value()
	}, func(domain.Event) { fn() })
	e.subs.add(id)

	subs := e.subs
	var once sync.Once
	return func() {
		once.Do(func() { subs.remove(id) })
	}
}

// evaluate runs one Evaluating step and signals completion when it ends Loaded.
// Closed entities ignore the request.
func (e *entity) evaluate() {
	var loaded bool

	e.s.gate.Run(func() {
		if e.isClosed() {
			return
		}

		var hv *harvest
		defer func() {
			if r := recover(); r != nil {
				if hv != nil {
					hv.abort()
				}
				panic(r)
			}
		}()

		before := e.impl.children()
		raw := e.h.Raw()

		if e.s.native.IsLoaded(e.h.Kind(), raw) {
			hv = newHarvest(e.s)
			e.impl.load(hv, raw)
			if hv.err != nil {
				hv.abort()
				e.s.logger.Warn("entity metadata harvest failed",
					slog.String("kind", e.h.Kind().String()),
					slog.Any("error", hv.err))
				e.impl.clear()
			} else {
				loaded = true
			}
		} else {
			e.impl.clear()
		}

		closeStale(before, e.impl.children())
	})

	if loaded {
		e.s.bus.Publish(EntityLoadedEvent{
			SessionEvent: newSessionEvent(e.s),
			Entity:       e.self,
		})
	}
}

// commitLoaded applies fn to the metadata fields and marks the entity loaded.
func (e *entity) commitLoaded(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
	e.loaded = true
}

// commitCleared applies fn to the metadata fields and marks the entity not loaded.
func (e *entity) commitCleared(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
	e.loaded = false
}

// Close unsubscribes, closes the owned children and releases the native reference.
// Closing twice is a no-op.
func (e *entity) Close() error {
	var err error

	e.s.gate.Run(func() {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return
		}
		e.closed = true
		e.mu.Unlock()

		e.cleanup.Stop()
		e.subs.clear()

		kids := e.impl.children()
		e.impl.clear()
		closeAll(kids)

		err = e.h.Release()
	})
	return err
}

// subscriptions are the bus registrations of one entity. They are kept apart from
// the entity so its cleanup can remove them once the entity is unreachable.
type subscriptions struct {
	bus ports.FilteringEventBus
	mu  sync.Mutex
	ids []domain.SubscriptionID
}

func (sb *subscriptions) add(id domain.SubscriptionID) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.ids = append(sb.ids, id)
}

func (sb *subscriptions) remove(id domain.SubscriptionID) {
	sb.mu.Lock()
	sb.ids = slices.DeleteFunc(sb.ids, func(other domain.SubscriptionID) bool { return other == id })
	sb.mu.Unlock()
	sb.bus.Unsubscribe(id)
}

// clear unsubscribes everything. Safe to call more than once.
func (sb *subscriptions) clear() {
	sb.mu.Lock()
	ids := sb.ids
	sb.ids = nil
	sb.mu.Unlock()
	for _, id := range ids {
		sb.bus.Unsubscribe(id)
	}
}

// harvest collects the child entities created while reading one snapshot so a
// failure part-way can close them again.
type harvest struct {
	s       *Session
	created []Entity
	err     error
}

func newHarvest(s *Session) *harvest {
	return &harvest{s: s}
}

// abort closes every entity created by this harvest.
func (hv *harvest) abort() {
	closeAll(hv.created)
	hv.created = nil
}

// fail records the first error of the harvest.
func (hv *harvest) fail(err error) {
	if hv.err == nil {
		hv.err = err
	}
}

// child returns the entity for the borrowed raw handle. current is reused when it
// already wraps raw; otherwise a new reference is acquired and wrapped with ctor.
// Returns the zero value for InvalidHandle or after a failure.
func child[E interface {
	comparable
	Entity
}](hv *harvest, current E, kind domain.EntityKind, raw domain.Handle, ctor func(*Session, *handle.Strong) E) E {
	var zero E
	if hv.err != nil || raw == domain.InvalidHandle {
		return zero
	}
	if current != zero && !current.base().isClosed() && current.base().h.Raw() == raw {
		return current
	}

	h, err := handle.Acquire(hv.s.gate, hv.s.native, kind, raw)
	if err != nil {
		hv.fail(err)
		return zero
	}
	e := ctor(hv.s, h)
	hv.created = append(hv.created, e)
	return e
}

// children maps every borrowed raw handle to an entity, reusing entities of current
// at the same position.
func children[E interface {
	comparable
	Entity
}](hv *harvest, current []E, kind domain.EntityKind, raws []domain.Handle, ctor func(*Session, *handle.Strong) E) []E {
	if len(raws) == 0 {
		return nil
	}
	out := make([]E, 0, len(raws))
	for i, raw := range raws {
		var cur E
		if i < len(current) {
			cur = current[i]
		}
		e := child(hv, cur, kind, raw, ctor)
		if hv.err != nil {
			return nil
		}
		var zero E
		if e != zero {
			out = append(out, e)
		}
	}
	return out
}

// entities converts a typed slice for loader.children.
func entities[E Entity](list ...[]E) []Entity {
	var out []Entity
	for _, l := range list {
		for _, e := range l {
			out = append(out, e)
		}
	}
	return out
}

// optional converts a possibly nil single child for loader.children.
func optional[E interface {
	comparable
	Entity
}](e E) []Entity {
	var zero E
	if e == zero {
		return nil
	}
	return []Entity{e}
}

// closeStale closes the entities of before that are not in after.
func closeStale(before, after []Entity) {
	for _, e := range before {
		if !slices.Contains(after, e) {
			_ = e.Close()
		}
	}
}

func closeAll(list []Entity) {
	for _, e := range list {
		if e != nil {
			_ = e.Close()
		}
	}
}
