/*
Package datastore defines the persistence interface used to save and load
registry snapshots.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, keyInput any) (*T, error)
	    Put(ctx context.Context, entity T) error
	    Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	}

Implementations:
  - ddb: DynamoDB implementation with index-map driven keys
  - mock: In-memory implementation for testing
*/
package datastore
