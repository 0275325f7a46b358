package server

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

// writeOperations change stored state and require the bearer token.
var writeOperations = map[string]bool{
	OperationCreateUser:    true,
	OperationCreateMedia:   true,
	OperationSubmitReview:  true,
	OperationSubmitReviews: true,
	OperationSubscribe:     true,
}

// AuthMiddleware validates Bearer token for write operations.
// An empty token disables the check.
func AuthMiddleware(token string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if token == "" {
				return handler(ctx, req)
			}

			// Get transport info
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing transport info")
			}

			if writeOperations[tr.Operation()] {
				// Extract Authorization header
				authHeader := tr.RequestHeader().Get("Authorization")
				if authHeader == "" {
					return nil, errors.Unauthorized("UNAUTHORIZED", "missing Authorization header")
				}

				// Check Bearer token format
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					return nil, errors.Unauthorized("UNAUTHORIZED", "invalid Authorization header format")
				}

				if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
					return nil, errors.Unauthorized("UNAUTHORIZED", "invalid token")
				}
			}

			return handler(ctx, req)
		}
	}
}
