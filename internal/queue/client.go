// Package queue carries import jobs from the API to the workers.
package queue

import "context"

// Client enqueues import jobs.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, msg Message) error

func (f ClientFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
