package httpx

import "context"

// Identity is what a verified bearer token asserts about its caller.
type Identity struct {
	UserID   string
	Username string
}

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity"
)

func contextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the identity AuthnMiddleware stored, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
