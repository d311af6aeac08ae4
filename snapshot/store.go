/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package snapshot

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entityregistry/datastore"
	"github.com/suparena/entityregistry/errors"
	"github.com/suparena/entityregistry/indexmap"
	"github.com/suparena/entityregistry/storagemodels"
)

// EntityIndexMap places every entity of a registry in one partition, one item per Seq.
var EntityIndexMap = map[string]string{
	"PK": "REGISTRY#{RegistryID}",
	"SK": "ENTITY#{Seq}",
}

func init() {
	indexmap.RegisterIndexMap[storagemodels.EntityRecord](EntityIndexMap)
}

// Save writes every record of the snapshot. Saving a later snapshot of the same
// registry overwrites the earlier records in place. A snapshot with fewer
// entities than are already stored under its registry id is refused.
func Save(ctx context.Context, ds datastore.DataStore[storagemodels.EntityRecord], snap storagemodels.Snapshot) error {
	if snap.RegistryID == "" {
		return errors.NewValidationError("RegistryID", "snapshot has no registry id")
	}

	existing, err := stored(ctx, ds, snap.RegistryID)
	if err != nil {
		return fmt.Errorf("save registry %s: %w", snap.RegistryID, err)
	}
	if len(existing) > len(snap.Entities) {
		return errors.NewValidationError("RegistryID", fmt.Sprintf(
			"registry %s already holds %d entities, snapshot has %d", snap.RegistryID, len(existing), len(snap.Entities)))
	}

	for _, rec := range snap.Entities {
		rec.RegistryID = snap.RegistryID
		if err := ds.Put(ctx, rec); err != nil {
			return fmt.Errorf("save entity %d of registry %s: %w", rec.Seq, snap.RegistryID, err)
		}
	}
	return nil
}

// Load reads back every record persisted for registryID, ordered by Seq.
func Load(ctx context.Context, ds datastore.DataStore[storagemodels.EntityRecord], registryID string) (storagemodels.Snapshot, error) {
	if registryID == "" {
		return storagemodels.Snapshot{}, errors.NewValidationError("RegistryID", "registry id is required")
	}

	records, err := stored(ctx, ds, registryID)
	if err != nil {
		return storagemodels.Snapshot{}, fmt.Errorf("load registry %s: %w", registryID, err)
	}
	if len(records) == 0 {
		return storagemodels.Snapshot{}, errors.NewNotFoundError("registry", registryID)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	return storagemodels.Snapshot{RegistryID: registryID, Entities: records}, nil
}

// stored returns the records in the partition of registryID, unordered.
func stored(ctx context.Context, ds datastore.DataStore[storagemodels.EntityRecord], registryID string) ([]storagemodels.EntityRecord, error) {
	keys, err := indexmap.Expand(EntityIndexMap, storagemodels.EntityRecord{RegistryID: registryID})
	if err != nil {
		return nil, err
	}
	records, err := ds.Query(ctx, &storagemodels.QueryParams{
		KeyConditionExpression: "PK = :pk",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: keys["PK"]},
		},
	})
	if err != nil {
		return nil, err
	}

	var out []storagemodels.EntityRecord
	for _, rec := range records {
		if rec.RegistryID == registryID {
			out = append(out, rec)
		}
	}
	return out, nil
}
