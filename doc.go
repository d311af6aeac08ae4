/*
Package entityregistry tracks a growing collection of named entities and one
designated entity, referenced by a stable identity that survives both growth
of the collection and in-place renames.

Entities are never removed. Each receives an opaque identity when entered;
names are mutable and may repeat. The registry stores the designated entity's
identity, never its name or a pointer to it, and resolves it on every read.

Basic Usage:

	reg := entityregistry.New(entityregistry.WithLogger(logger))

	reg.Enter("peter")
	reg.Designate("gomain") // no "gomain" yet: entered, then designated
	reg.Enter("john")

	// rename the designated entity through its exclusive handle
	if h, ok := reg.DesignatedMutableView(); ok {
	    _ = h.Rename("joe")
	    h.Release()
	}

	e, _ := reg.DesignatedView() // e.Name == "joe", same identity as before

	reg.Designate("john") // first entity currently named "john"
	reg.Designate("joe")  // back to the renamed entity

Designation by name happens once, at Designate time, and picks the first
match in insertion order. After a rename the old name no longer leads to the
designated entity; a later Designate with the old name attaches to whichever
entity bears it then, or enters a new one.

Snapshots:

	snap := reg.Snapshot()
	restored, err := entityregistry.Restore(snap)

The snapshot package encodes snapshots as YAML and persists them through any
datastore.DataStore, including the DynamoDB implementation in datastore/ddb.
*/
package entityregistry
