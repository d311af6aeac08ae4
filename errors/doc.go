/*
Package errors provides semantic error types for the entity registry.

The core registry API never fails for a missing entity: lookups return
(value, ok). Errors appear at the edges instead, when a released handle is
reused, when a snapshot fails validation, or when a persisted registry cannot
be found.

Common Errors:

	var (
	    ErrNotFound          = errors.New("entity not found")
	    ErrInvalidInput      = errors.New("invalid input")
	    ErrNoIndexMap        = errors.New("no index map found for type")
	    ErrHandleReleased    = errors.New("handle already released")
	    ErrInvariantViolated = errors.New("invariant violated")
	)

Usage:

	snap, err := snapshot.Load(ctx, store, registryID)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // nothing persisted yet, start empty
	        return entityregistry.New(), nil
	    }
	    return nil, err
	}

	if err := handle.Rename("joe"); errors.IsHandleReleased(err) {
	    // the handle's scope has already ended
	}

The typed errors implement Is so wrapped values still match their sentinel.
*/
package errors
