/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entrystore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityregistry/errors"
)

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func TestAppendAssignsUniqueIdentities(t *testing.T) {
	s := New()

	a := s.Append("peter")
	b := s.Append("peter")
	c := s.Append("john")

	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, s.Len())
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Append("a")
	s.Append("b")
	s.Append("c")

	entities := s.Entities()
	require.Len(t, entities, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, entities[i].Name)
		assert.Equal(t, i, entities[i].Seq)
	}
}

func TestFindByName(t *testing.T) {
	s := New()
	first := s.Append("dup")
	s.Append("dup")
	other := s.Append("other")

	t.Run("FirstMatchWins", func(t *testing.T) {
		id, ok := s.FindByName("dup")
		require.True(t, ok)
		assert.Equal(t, first, id)
	})

	t.Run("Miss", func(t *testing.T) {
		_, ok := s.FindByName("missing")
		assert.False(t, ok)
	})

	t.Run("UsesCurrentName", func(t *testing.T) {
		require.NoError(t, s.Update(other, func(h *Handle) error {
			return h.Rename("renamed")
		}))

		_, ok := s.FindByName("other")
		assert.False(t, ok)

		id, ok := s.FindByName("renamed")
		require.True(t, ok)
		assert.Equal(t, other, id)
	})
}

func TestResolve(t *testing.T) {
	s := New()
	id := s.Append("peter")

	e, ok := s.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "peter", e.Name)

	_, ok = s.Resolve(Identity(999))
	assert.False(t, ok)

	_, ok = s.Resolve(0)
	assert.False(t, ok)
}

func TestResolveReturnsCopy(t *testing.T) {
	s := New()
	id := s.Append("peter")

	e, _ := s.Resolve(id)
	e.Name = "mutated"

	again, _ := s.Resolve(id)
	assert.Equal(t, "peter", again.Name)
}

func TestRenameKeepsIdentityAndSlot(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(fixedClock(start)))
	s.Append("peter")
	id := s.Append("gomain")
	s.Append("john")

	before, _ := s.Resolve(id)

	h, ok := s.ResolveMutable(id)
	require.True(t, ok)
	assert.Equal(t, id, h.Identity())
	name, err := h.Name()
	require.NoError(t, err)
	assert.Equal(t, "gomain", name)
	require.NoError(t, h.Rename("joe"))
	h.Release()

	after, ok := s.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, id, after.ID)
	assert.Equal(t, before.Seq, after.Seq)
	assert.Equal(t, "joe", after.Name)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	names := []string{}
	for _, e := range s.Entities() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"peter", "joe", "john"}, names)
}

func TestIdentitiesSurviveGrowth(t *testing.T) {
	s := New()
	id := s.Append("anchor")
	for i := 0; i < 1000; i++ {
		s.Append("filler")
	}

	e, ok := s.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, "anchor", e.Name)
	assert.Equal(t, 0, e.Seq)
}

func TestHandleRelease(t *testing.T) {
	s := New()
	id := s.Append("peter")

	h, ok := s.ResolveMutable(id)
	require.True(t, ok)
	h.Release()
	h.Release()

	err := h.Rename("late")
	assert.True(t, errors.IsHandleReleased(err))

	name, err := h.Name()
	assert.True(t, errors.IsHandleReleased(err))
	assert.Equal(t, "", name)

	e, _ := s.Resolve(id)
	assert.Equal(t, "peter", e.Name)
}

func TestResolveMutableUnknown(t *testing.T) {
	s := New()
	h, ok := s.ResolveMutable(Identity(42))
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestUpdate(t *testing.T) {
	s := New()
	id := s.Append("peter")

	t.Run("ReleasesAfterCallback", func(t *testing.T) {
		var held *Handle
		require.NoError(t, s.Update(id, func(h *Handle) error {
			held = h
			return h.Rename("pete")
		}))
		assert.True(t, errors.IsHandleReleased(held.Rename("again")))

		e, _ := s.Resolve(id)
		assert.Equal(t, "pete", e.Name)
	})

	t.Run("PropagatesCallbackError", func(t *testing.T) {
		want := errors.NewValidationError("name", "rejected")
		err := s.Update(id, func(h *Handle) error { return want })
		assert.Equal(t, want, err)
	})

	t.Run("UnknownIdentity", func(t *testing.T) {
		err := s.Update(Identity(77), func(h *Handle) error { return nil })
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestHandleIsExclusive(t *testing.T) {
	s := New()
	id := s.Append("peter")
	other := s.Append("john")

	h, ok := s.ResolveMutable(id)
	require.True(t, ok)

	// Other entities stay accessible while the handle is held.
	e, ok := s.Resolve(other)
	require.True(t, ok)
	assert.Equal(t, "john", e.Name)
	s.Append("late")

	resolved := make(chan Entity)
	go func() {
		e, _ := s.Resolve(id)
		resolved <- e
	}()

	select {
	case <-resolved:
		t.Fatal("Resolve returned while the handle was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, h.Rename("joe"))
	h.Release()

	select {
	case e := <-resolved:
		assert.Equal(t, "joe", e.Name)
	case <-time.After(time.Second):
		t.Fatal("Resolve did not return after Release")
	}
}

func TestConcurrentAppendAndRename(t *testing.T) {
	s := New()
	id := s.Append("target")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Append("worker")
		}()
		go func() {
			defer wg.Done()
			_ = s.Update(id, func(h *Handle) error {
				return h.Rename("target")
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, s.Len())
	seen := make(map[Identity]bool)
	for _, e := range s.Entities() {
		assert.False(t, seen[e.ID], "identity %s reused", e.ID)
		seen[e.ID] = true
	}
	found, ok := s.FindByName("target")
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestAppendAt(t *testing.T) {
	s := New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)

	id := s.AppendAt("restored", created, updated)

	e, ok := s.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, updated, e.UpdatedAt)
	assert.Equal(t, 0, e.Seq)
}

func TestScansWaitOnHeldEntity(t *testing.T) {
	s := New()
	id := s.Append("peter")
	s.Append("john")

	h, ok := s.ResolveMutable(id)
	require.True(t, ok)

	listed := make(chan []Entity)
	go func() { listed <- s.Entities() }()
	found := make(chan Identity)
	go func() {
		f, _ := s.FindByName("john")
		found <- f
	}()

	select {
	case <-listed:
		t.Fatal("Entities returned while the handle was held")
	case <-found:
		t.Fatal("FindByName returned while the handle was held")
	case <-time.After(50 * time.Millisecond):
	}

	h.Release()

	select {
	case entities := <-listed:
		assert.Len(t, entities, 2)
	case <-time.After(time.Second):
		t.Fatal("Entities did not return after Release")
	}
	select {
	case f := <-found:
		assert.NotEqual(t, id, f)
	case <-time.After(time.Second):
		t.Fatal("FindByName did not return after Release")
	}
}
