/*
Package snapshot moves registry snapshots in and out of the process.

Files use a small YAML document:

	registry: 0b6f6f52-5d8e-4d2a-9a43-3f5b1c7f0e21
	entities:
	  - seq: 0
	    id: 1
	    name: peter
	    createdAt: 2025-06-01T09:01:00.000Z
	    updatedAt: 2025-06-01T09:01:00.000Z
	  - seq: 1
	    id: 2
	    name: joe
	    designated: true

Only seq and name are required; identities are reassigned on restore.

Save and Load persist a snapshot through any datastore.DataStore of
EntityRecord, one item per entity under the registry's partition
(see EntityIndexMap). Combined with the root package:

	err := snapshot.Save(ctx, store, reg.Snapshot())

	snap, err := snapshot.Load(ctx, store, id)
	reg, err := entityregistry.Restore(snap)
*/
package snapshot
