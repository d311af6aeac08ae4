/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design patterns
  - Macro-based key expansion (e.g., "REGISTRY#{RegistryID}")
  - Paginated queries that follow LastEvaluatedKey

Macro Expansion:
Keys are built from the index map registered for the stored type:

	indexmap.RegisterIndexMap[storagemodels.EntityRecord](map[string]string{
	    "PK": "REGISTRY#{RegistryID}", // Becomes "REGISTRY#3f1c..."
	    "SK": "ENTITY#{Seq}",          // Becomes "ENTITY#0"
	})

Both PK and SK must expand to non-empty values. GetOne takes any value whose
fields satisfy the macros, typically a partially filled record.

The store talks to DynamoDB through the API interface, so tests can supply an
in-process fake instead of a real client.
*/
package ddb
