/*
Package indexmap associates Go types with DynamoDB key templates.

An index map names the key attributes of a type and builds them from the
type's own fields through {Field} macros:

	indexmap.RegisterIndexMap[storagemodels.EntityRecord](map[string]string{
	    "PK": "REGISTRY#{RegistryID}",
	    "SK": "ENTITY#{Seq}",
	})

	keys, _ := indexmap.Expand(idxMap, storagemodels.EntityRecord{RegistryID: "r1", Seq: 2})
	// keys["PK"] == "REGISTRY#r1", keys["SK"] == "ENTITY#2"

Registration is thread-safe and normally happens in init functions.
*/
package indexmap
