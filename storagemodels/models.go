/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EntityRecord is the flat, persistable form of one registry entity.
// Attribute names in DynamoDB are the Go field names.
type EntityRecord struct {
	// RegistryID identifies the registry the entity belongs to.
	RegistryID string
	// Seq is the 0-based insertion position of the entity.
	Seq int
	// ID is the identity token the entity had when captured.
	ID uint64
	// Name is the entity's name at capture time.
	Name string
	// Designated marks the registry's designated entity.
	Designated bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot is a point-in-time copy of a registry.
type Snapshot struct {
	RegistryID string
	// Entities are ordered by Seq.
	Entities []EntityRecord
}

// Designated returns the record flagged as designated, if any.
func (s Snapshot) Designated() (EntityRecord, bool) {
	for _, rec := range s.Entities {
		if rec.Designated {
			return rec, true
		}
	}
	return EntityRecord{}, false
}

// QueryParams defines parameters for a DynamoDB Query operation.
type QueryParams struct {
	// KeyConditionExpression is the primary condition for the query.
	KeyConditionExpression string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// IndexName is optional if you wish to query a secondary index.
	IndexName *string
	// Limit defines an optional limit per query page.
	Limit *int32
	// ScanIndexForward specifies the order for index traversal.
	// If true (default), traversal is in ascending order.
	ScanIndexForward *bool
}
