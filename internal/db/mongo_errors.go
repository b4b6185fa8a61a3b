package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"live-airlines/provisioner/internal/schema"
)

// Server error codes we react to.
const (
	codeUnauthorized          = 13
	codeAuthenticationFailed  = 18
	codeNamespaceExists       = 48
	codeIndexAlreadyExists    = 68
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

func isConnectionFailure(err error) bool {
	var sse topology.ServerSelectionError
	switch {
	case errors.As(err, &sse),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected):
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)
	}
	return false
}

func hasCode(err error, codes ...int) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.HasErrorCode(c) {
			return true
		}
	}
	return false
}

// classifyOp maps a driver error for the given operation to the schema error
// taxonomy.
func classifyOp(op, collection, index string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isConnectionFailure(err):
		return &schema.ConnectionError{Op: op, Err: err}
	case hasCode(err, codeNamespaceExists, codeIndexAlreadyExists):
		return schema.ErrAlreadyExists
	case hasCode(err, codeIndexOptionsConflict, codeIndexKeySpecsConflict):
		return &schema.SchemaConflictError{
			Collection: collection,
			Index:      index,
			Reason:     "server rejected the index definition",
			Err:        err,
		}
	}
	return err
}
