/*
Package entrystore provides the append-only arena that backs the entity registry.

Every appended entity receives an Identity, a monotonically increasing token
that is never reused and never encodes a storage location. Identity and name
are independent: two entities may share a name, and renaming an entity leaves
its identity untouched.

Reads return Entity values, immutable copies taken at resolution time. Writes
go through a Handle, a scoped exclusive lock on one entity:

	h, ok := store.ResolveMutable(id)
	if ok {
	    _ = h.Rename("joe")
	    h.Release()
	}

	// or, scoped
	err := store.Update(id, func(h *entrystore.Handle) error {
	    return h.Rename("joe")
	})

While a handle is held every other read or write of that entity blocks, so a
goroutine must release its handle before resolving the same entity again.
Other entities, and appends, are unaffected.
*/
package entrystore
