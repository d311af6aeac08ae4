/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entrystore

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/suparena/entityregistry/errors"
)

// Identity is the opaque token assigned to an entity when it is appended.
// Tokens are never reused within a store and the zero value names no entity.
type Identity uint64

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id == 0
}

func (id Identity) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Entity is an immutable view of a stored entity at the time it was resolved.
type Entity struct {
	ID        Identity
	Seq       int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// entry is one arena slot. Its address is fixed once appended; mu is held by
// an outstanding Handle and briefly by readers.
type entry struct {
	mu        sync.Mutex
	id        Identity
	seq       int
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func (e *entry) view() Entity {
	return Entity{
		ID:        e.id,
		Seq:       e.seq,
		Name:      e.name,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
}

// EntryStore is an append-only, insertion-ordered arena of entities.
type EntryStore struct {
	mu      sync.RWMutex
	entries []*entry
	lastID  Identity
	now     func() time.Time
}

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithClock overrides the time source used for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) {
		s.now = now
	}
}

// New creates an empty EntryStore.
func New(opts ...Option) *EntryStore {
	s := &EntryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores a new entity with the given name and returns its identity.
func (s *EntryStore) Append(name string) Identity {
	ts := s.now().UTC()
	return s.AppendAt(name, ts, ts)
}

// AppendAt is Append with explicit timestamps, used when rebuilding a store
// from a snapshot.
func (s *EntryStore) AppendAt(name string, createdAt, updatedAt time.Time) Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	s.entries = append(s.entries, &entry{
		id:        s.lastID,
		seq:       len(s.entries),
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	})
	return s.lastID
}

// slots returns the current arena contents. Entries are never removed, so the
// returned pointers stay valid after the read lock is dropped.
func (s *EntryStore) slots() []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[:len(s.entries):len(s.entries)]
}

func (s *EntryStore) lookup(id Identity) *entry {
	if id.IsZero() {
		return nil
	}
	for _, e := range s.slots() {
		if e.id == id {
			return e
		}
	}
	return nil
}

// FindByName returns the identity of the first entity, in insertion order,
// whose current name equals name.
func (s *EntryStore) FindByName(name string) (Identity, bool) {
	for _, e := range s.slots() {
		e.mu.Lock()
		match := e.name == name
		e.mu.Unlock()
		if match {
			return e.id, true
		}
	}
	return 0, false
}

// Resolve returns a view of the entity with the given identity.
func (s *EntryStore) Resolve(id Identity) (Entity, bool) {
	e := s.lookup(id)
	if e == nil {
		return Entity{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), true
}

// ResolveMutable acquires exclusive write access to the entity with the given
// identity. Every other access to that entity blocks until the handle is
// released, so callers must Release it before touching the entity again.
// Scans over the whole store (FindByName, Entities) also touch the held
// entity: calling them from the goroutine that holds the handle deadlocks.
func (s *EntryStore) ResolveMutable(id Identity) (*Handle, bool) {
	e := s.lookup(id)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	return &Handle{entry: e, now: s.now}, true
}

// Update runs fn with an exclusive handle on the entity and releases it
// afterwards, even if fn panics.
func (s *EntryStore) Update(id Identity, fn func(*Handle) error) error {
	h, ok := s.ResolveMutable(id)
	if !ok {
		return errors.NewNotFoundError("entity", id.String())
	}
	defer h.Release()
	return fn(h)
}

// Len returns the number of stored entities.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entities returns views of all entities in insertion order.
func (s *EntryStore) Entities() []Entity {
	slots := s.slots()
	out := make([]Entity, 0, len(slots))
	for _, e := range slots {
		e.mu.Lock()
		out = append(out, e.view())
		e.mu.Unlock()
	}
	return out
}

// Handle grants exclusive write access to a single entity's name. It cannot
// move, remove or replace the entity.
type Handle struct {
	mu       sync.Mutex
	entry    *entry
	now      func() time.Time
	released bool
}

// Identity returns the identity of the held entity.
func (h *Handle) Identity() Identity {
	return h.entry.id
}

// Name returns the current name of the held entity. It fails with
// ErrHandleReleased once the handle has been released.
func (h *Handle) Name() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return "", fmt.Errorf("name of entity %s: %w", h.entry.id, errors.ErrHandleReleased)
	}
	return h.entry.name, nil
}

// Rename overwrites the entity's name in place.
func (h *Handle) Rename(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return fmt.Errorf("rename entity %s: %w", h.entry.id, errors.ErrHandleReleased)
	}
	h.entry.name = name
	h.entry.updatedAt = h.now().UTC()
	return nil
}

// Release ends the handle's exclusive access. It is safe to call more than once.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.entry.mu.Unlock()
}
