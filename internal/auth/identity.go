// Package auth consumes the auth collaborator. The core never validates
// credentials itself; it exchanges the bearer token for an Identity and
// passes that identity explicitly to every operation.
package auth

import (
	"context"

	"github.com/eventify/booking/internal/domain"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as reported by the auth service.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// Verifier exchanges an opaque bearer token for an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request identity. ErrUnauthenticated when the
// request carried no valid credential.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
