/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entityregistry/storagemodels"
)

// DataStore persists values of type T. There is no Delete: persisted
// registries only ever grow, like the registries they mirror.
type DataStore[T any] interface {
	// GetOne fetches the item whose key attributes are built from keyInput.
	GetOne(ctx context.Context, keyInput any) (*T, error)

	Put(ctx context.Context, entity T) error

	Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
}
