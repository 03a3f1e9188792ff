package events

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	goerrors "github.com/goliatone/go-errors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-repository-kit/pkg/logger"
)

// Wildcard matches every event name.
const Wildcard = "*"

// ErrStopPropagation stops the remaining listeners when returned by one.
// Trigger does not report it as a failure.
var ErrStopPropagation = errors.New("stop event propagation")

// Event is passed to every listener of a Trigger call.
type Event struct {
	Name    string
	Target  any
	Params  map[string]any
	stopped bool
}

// Param returns a parameter value.
func (e *Event) Param(name string) (any, bool) {
	v, ok := e.Params[name]
	return v, ok
}

// StopPropagation prevents the remaining listeners from running.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener handles an event.
type Listener func(ctx context.Context, e *Event) error

var sequence atomic.Uint64

// Handle identifies an attached listener for Detach.
type Handle struct {
	id uint64
}

type entry struct {
	id       uint64
	priority int
	listener Listener
}

func newEntry(listener Listener, priority int) entry {
	return entry{id: sequence.Add(1), priority: priority, listener: listener}
}

// SharedManager holds listeners keyed by identifier then event name.
type SharedManager struct {
	listeners *xsync.MapOf[string, []entry]
}

// NewSharedManager returns an empty shared manager.
func NewSharedManager() *SharedManager {
	return &SharedManager{listeners: xsync.NewMapOf[string, []entry]()}
}

// Attach registers listener for event on every manager carrying identifier.
func (s *SharedManager) Attach(identifier, event string, listener Listener, priority int) Handle {
	e := newEntry(listener, priority)
	s.listeners.Compute(sharedKey(identifier, event), func(old []entry, _ bool) ([]entry, bool) {
		return append(slices.Clone(old), e), false
	})
	return Handle{id: e.id}
}

// Detach removes a listener attached with Attach.
func (s *SharedManager) Detach(h Handle) bool {
	removed := false
	s.listeners.Range(func(key string, _ []entry) bool {
		s.listeners.Compute(key, func(old []entry, _ bool) ([]entry, bool) {
			out := slices.DeleteFunc(slices.Clone(old), func(e entry) bool { return e.id == h.id })
			if len(out) != len(old) {
				removed = true
			}
			return out, len(out) == 0
		})
		return !removed
	})
	return removed
}

func (s *SharedManager) entries(identifiers []string, event string) []entry {
	names := []string{event}
	if event != Wildcard {
		names = append(names, Wildcard)
	}

	var out []entry
	for _, id := range identifiers {
		for _, name := range names {
			if list, ok := s.listeners.Load(sharedKey(id, name)); ok {
				out = append(out, list...)
			}
		}
	}
	return out
}

func sharedKey(identifier, event string) string {
	return identifier + "\x00" + event
}

// Manager triggers events for one component.
type Manager struct {
	mu          sync.RWMutex
	identifiers []string
	listeners   map[string][]entry
	shared      *SharedManager
	logger      *logger.Logger
}

// NewManager returns a manager seeing the shared listeners of identifiers.
// shared may be nil.
func NewManager(shared *SharedManager, identifiers ...string) *Manager {
	m := &Manager{
		listeners: map[string][]entry{},
		shared:    shared,
		logger:    logger.Nop(),
	}
	m.AddIdentifiers(identifiers...)
	return m
}

// SetLogger sets the logger used to trace triggers.
func (m *Manager) SetLogger(l *logger.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger.OrNop(l)
}

// AddIdentifiers adds identifiers, ignoring empty values and duplicates.
func (m *Manager) AddIdentifiers(identifiers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range identifiers {
		if id == "" || slices.Contains(m.identifiers, id) {
			continue
		}
		m.identifiers = append(m.identifiers, id)
	}
}

// Identifiers returns the manager identifiers.
func (m *Manager) Identifiers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.identifiers)
}

// Attach registers listener for event. Use Wildcard to receive every event.
func (m *Manager) Attach(event string, listener Listener, priority int) Handle {
	e := newEntry(listener, priority)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[event] = append(m.listeners[event], e)
	return Handle{id: e.id}
}

// Detach removes a listener attached with Attach.
func (m *Manager) Detach(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for event, list := range m.listeners {
		out := slices.DeleteFunc(slices.Clone(list), func(e entry) bool { return e.id == h.id })
		if len(out) != len(list) {
			m.listeners[event] = out
			return true
		}
	}
	return false
}

// Trigger runs the listeners of event, highest priority first. Listeners of
// equal priority run in attach order. The first listener error other than
// ErrStopPropagation aborts the trigger and is returned.
func (m *Manager) Trigger(ctx context.Context, event string, target any, params map[string]any) (*Event, error) {
	if params == nil {
		params = map[string]any{}
	}
	e := &Event{Name: event, Target: target, Params: params}

	listeners := m.collect(event)

	m.mu.RLock()
	log := m.logger
	m.mu.RUnlock()

	log.Debug().
		Str("event", event).
		Int("listeners", len(listeners)).
		Msg("trigger event")

	for _, l := range listeners {
		err := l.listener(ctx, e)
		if errors.Is(err, ErrStopPropagation) {
			e.stopped = true
			break
		}
		if err != nil {
			return e, goerrors.Wrap(err, goerrors.CategoryInternal, "listener for event "+event+" failed").
				WithTextCode("EVENT_LISTENER_FAILED")
		}
		if e.stopped {
			break
		}
	}

	return e, nil
}

func (m *Manager) collect(event string) []entry {
	m.mu.RLock()
	var out []entry
	out = append(out, m.listeners[event]...)
	if event != Wildcard {
		out = append(out, m.listeners[Wildcard]...)
	}
	identifiers := slices.Clone(m.identifiers)
	shared := m.shared
	m.mu.RUnlock()

	if shared != nil {
		out = append(out, shared.entries(identifiers, event)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].id < out[j].id
	})
	return out
}
