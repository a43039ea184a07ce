// Package context carries request-scoped values: the acting user, the project
// (tenant) the request is scoped to, and tracing identifiers.
package context

import (
	"context"
)

// ActorContext identifies who performs a mutation and which project it is scoped to.
// Both values are supplied by the upstream auth layer.
type ActorContext struct {
	ActorID   int64
	ProjectID int64
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or 0.
func GetActorID(ctx context.Context) int64 {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return 0
}

// GetProjectID returns project ID from context or 0.
func GetProjectID(ctx context.Context) int64 {
	if a := GetActor(ctx); a != nil {
		return a.ProjectID
	}
	return 0
}

// ActorRef returns the actor ID as a nullable reference for created_by/updated_by columns.
func ActorRef(ctx context.Context) *int64 {
	id := GetActorID(ctx)
	if id == 0 {
		return nil
	}
	return &id
}
