package domain

import (
	"github.com/juju/errors"
)

// Stable machine-readable error codes returned to API clients.
const (
	CodeNotFound         = "NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeInvalidRelation  = "INVALID_RELATION"
	CodeConflict         = "CONFLICT"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeInternal         = "INTERNAL"
)

// ErrCode classifies err by its juju/errors type. Anything unrecognised is an
// infrastructure failure and reported as INTERNAL.
func ErrCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.NotFound):
		return CodeNotFound
	case errors.Is(err, errors.Forbidden):
		return CodePermissionDenied
	case errors.Is(err, errors.NotValid):
		return CodeInvalidRelation
	case errors.Is(err, errors.AlreadyExists):
		return CodeConflict
	case errors.Is(err, errors.BadRequest):
		return CodeBadRequest
	case errors.Is(err, errors.Unauthorized):
		return CodeUnauthenticated
	default:
		return CodeInternal
	}
}

// CheckOwnership fails with a Forbidden error unless the principal owns the resource.
func CheckOwnership(principalID, ownerID string) error {
	if principalID == "" || principalID != ownerID {
		return errors.Forbiddenf("principal %q does not own this resource", principalID)
	}
	return nil
}
