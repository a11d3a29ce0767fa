// Package service wraps the gateway with typed calls for the auth and user
// resources.
package service

import "context"

// Gateway is the subset of *client.Client the services use.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}
