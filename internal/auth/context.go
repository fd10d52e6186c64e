package auth

import "context"

type ctxKey struct{}

// Identity is the verified caller. It is attached to the request context by
// the auth middleware and read back by handlers.
type Identity struct {
	UserID string
	Role   string
}

const RoleAdmin = "admin"

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// GetUserID returns "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id.UserID
	}
	return ""
}
