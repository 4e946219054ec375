// Package delivery defines the contract every transport adapter satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the application
// container. Serve blocks until the server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
