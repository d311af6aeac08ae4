/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityregistry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/suparena/entityregistry/errors"
	"github.com/suparena/entityregistry/storagemodels"
)

// Snapshot captures every entity in insertion order, flagging the designated one.
func (r *Registry) Snapshot() storagemodels.Snapshot {
	designated, _ := r.Designated()
	entities := r.store.Entities()

	snap := storagemodels.Snapshot{
		RegistryID: r.id,
		Entities:   make([]storagemodels.EntityRecord, 0, len(entities)),
	}
	for _, e := range entities {
		snap.Entities = append(snap.Entities, storagemodels.EntityRecord{
			RegistryID: r.id,
			Seq:        e.Seq,
			ID:         uint64(e.ID),
			Name:       e.Name,
			Designated: e.ID == designated,
			CreatedAt:  e.CreatedAt,
			UpdatedAt:  e.UpdatedAt,
		})
	}
	return snap
}

// Restore rebuilds a registry from a snapshot. Entities get fresh identities in
// Seq order; the designated record is restored by position, not by name, so
// snapshots with duplicate names round-trip exactly.
func Restore(snap storagemodels.Snapshot, opts ...Option) (*Registry, error) {
	records, err := validateSnapshot(snap)
	if err != nil {
		return nil, err
	}

	if snap.RegistryID != "" {
		opts = append(opts, WithID(snap.RegistryID))
	}
	r := New(opts...)
	for _, rec := range records {
		id := r.store.AppendAt(rec.Name, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
		if rec.Designated {
			r.designated.Store(uint64(id))
		}
	}

	r.logger.Info("registry restored",
		slog.String("registry", r.id),
		slog.Int("entities", len(records)),
		slog.Bool("designated", r.designated.Load() != 0))
	return r, nil
}

func validateSnapshot(snap storagemodels.Snapshot) ([]storagemodels.EntityRecord, error) {
	records := make([]storagemodels.EntityRecord, len(snap.Entities))
	copy(records, snap.Entities)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })

	designated := 0
	for i, rec := range records {
		if rec.Seq != i {
			return nil, errors.NewValidationError("Seq", fmt.Sprintf("expected sequence %d, got %d", i, rec.Seq))
		}
		if snap.RegistryID != "" && rec.RegistryID != "" && rec.RegistryID != snap.RegistryID {
			return nil, errors.NewValidationError("RegistryID",
				fmt.Sprintf("record %d belongs to registry %q, not %q", rec.Seq, rec.RegistryID, snap.RegistryID))
		}
		if rec.Designated {
			designated++
		}
	}
	if designated > 1 {
		return nil, errors.NewValidationError("Designated", fmt.Sprintf("%d records are designated, at most one allowed", designated))
	}
	return records, nil
}
