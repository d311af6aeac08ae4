/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityregistry

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/entityregistry/entrystore"
	"github.com/suparena/entityregistry/errors"
)

// Registry owns an EntryStore and tracks one optional designated entity by
// identity. The designation is resolved against the store on every read, so it
// follows the entity through renames and store growth.
type Registry struct {
	// mu serialises Designate. It is held while scanning entries, so readers
	// of the designated token must not take it.
	mu         sync.Mutex
	id         string
	store      *entrystore.EntryStore
	designated atomic.Uint64
	logger     *slog.Logger
	storeOpts  []entrystore.Option
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithID sets the registry ID instead of generating one.
func WithID(id string) Option {
	return func(r *Registry) {
		r.id = id
	}
}

// WithClock sets the time source for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.storeOpts = append(r.storeOpts, entrystore.WithClock(now))
	}
}

// New creates an empty registry with no designated entity.
func New(opts ...Option) *Registry {
	r := &Registry{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = uuid.New().String()
	}
	r.store = entrystore.New(r.storeOpts...)
	return r
}

// ID returns the registry's identifier.
func (r *Registry) ID() string {
	return r.id
}

// Enter adds a new entity with the given name. Duplicate names are allowed.
func (r *Registry) Enter(name string) entrystore.Identity {
	id := r.store.Append(name)
	r.logger.Debug("entity entered",
		slog.String("registry", r.id),
		slog.String("entity", id.String()),
		slog.String("name", name))
	return id
}

// Designate makes the first entity currently named name the designated one,
// entering a new entity with that name if none exists.
//
// After this call the designation is tracked by identity: renaming the
// designated entity keeps it designated, and a later Designate with its old
// name picks whichever entity bears that name by then.
func (r *Registry) Designate(name string) entrystore.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, found := r.store.FindByName(name)
	if !found {
		id = r.Enter(name)
	}
	r.designated.Store(uint64(id))
	r.logger.Debug("entity designated",
		slog.String("registry", r.id),
		slog.String("entity", id.String()),
		slog.String("name", name),
		slog.Bool("created", !found))
	return id
}

// Designated returns the designated identity, if one has been set.
func (r *Registry) Designated() (entrystore.Identity, bool) {
	id := entrystore.Identity(r.designated.Load())
	return id, !id.IsZero()
}

// DesignatedView returns a view of the designated entity. It reports false
// only if Designate has never been called.
func (r *Registry) DesignatedView() (entrystore.Entity, bool) {
	id, ok := r.Designated()
	if !ok {
		return entrystore.Entity{}, false
	}
	e, ok := r.store.Resolve(id)
	if !ok {
		panic(errors.NewInvariantError("DesignatedView", "designated identity "+id.String()+" does not resolve"))
	}
	return e, true
}

// DesignatedMutableView returns an exclusive handle on the designated entity.
// The caller must Release it before accessing that entity again, and that
// includes registry-wide scans: Designate, Entities and Snapshot all block on
// the held entity, so the holding goroutine must not call them. Designated
// does not touch the entity and is safe while the handle is held.
func (r *Registry) DesignatedMutableView() (*entrystore.Handle, bool) {
	id, ok := r.Designated()
	if !ok {
		return nil, false
	}
	h, ok := r.store.ResolveMutable(id)
	if !ok {
		panic(errors.NewInvariantError("DesignatedMutableView", "designated identity "+id.String()+" does not resolve"))
	}
	return h, true
}

// RenameDesignated renames the designated entity through a scoped handle.
// It reports false if nothing is designated yet.
func (r *Registry) RenameDesignated(name string) (bool, error) {
	h, ok := r.DesignatedMutableView()
	if !ok {
		return false, nil
	}
	defer h.Release()

	old, err := h.Name()
	if err != nil {
		return true, err
	}
	if err := h.Rename(name); err != nil {
		return true, err
	}
	r.logger.Debug("designated entity renamed",
		slog.String("registry", r.id),
		slog.String("entity", h.Identity().String()),
		slog.String("from", old),
		slog.String("to", name))
	return true, nil
}

// Resolve returns a view of any entity in the registry.
func (r *Registry) Resolve(id entrystore.Identity) (entrystore.Entity, bool) {
	return r.store.Resolve(id)
}

// Len returns the number of entities.
func (r *Registry) Len() int {
	return r.store.Len()
}

// Entities returns views of all entities in insertion order.
func (r *Registry) Entities() []entrystore.Entity {
	return r.store.Entities()
}
