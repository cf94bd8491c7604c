// Package api describes the remote operation surface: named endpoints with
// typed arguments and results, invoked through a Caller.
package api

import (
	"context"

	"github.com/dotcommander/huddle/internal/mutation"
)

// Caller invokes a named remote endpoint. args is encoded by the caller's
// transport; reply must be a pointer the result is decoded into.
type Caller interface {
	Call(ctx context.Context, name string, args any, reply any) error
}

// MutationRef names a remote write with typed input and output.
type MutationRef[In, Out any] struct {
	Name string
}

// QueryRef names a remote read with typed input and output.
type QueryRef[In, Out any] struct {
	Name string
}

// Mutation adapts ref to an operation that runs through c.
func Mutation[In, Out any](c Caller, ref MutationRef[In, Out]) mutation.Operation[In, Out] {
	return call[In, Out](c, ref.Name)
}

// Query adapts ref to an operation that runs through c.
func Query[In, Out any](c Caller, ref QueryRef[In, Out]) mutation.Operation[In, Out] {
	return call[In, Out](c, ref.Name)
}

func call[In, Out any](c Caller, name string) mutation.Operation[In, Out] {
	return func(ctx context.Context, in In) (Out, error) {
		var out Out
		if err := c.Call(ctx, name, in, &out); err != nil {
			var zero Out
			return zero, err
		}
		return out, nil
	}
}
