/*
Package storagemodels defines the data structures shared by the registry,
the snapshot codecs and the datastore implementations.

Key Types:

EntityRecord:
One entity, flattened for storage:

	rec := EntityRecord{
	    RegistryID: "3f1c...",
	    Seq:        1,
	    ID:         2,
	    Name:       "gomain",
	    Designated: true,
	}

Snapshot:
A registry's entities in insertion order. At most one record is designated.

QueryParams:
Parameters for querying a datastore:

	params := &QueryParams{
	    KeyConditionExpression: "PK = :pk",
	    ExpressionAttributeValues: map[string]types.AttributeValue{
	        ":pk": &types.AttributeValueMemberS{Value: "REGISTRY#3f1c..."},
	    },
	}
*/
package storagemodels
