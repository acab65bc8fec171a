package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUsername  CtxKey = "Username"
	KeyRequestID CtxKey = "RequestID"
)

// UserIDFrom returns the authenticated user id set by the auth middleware, or "".
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(KeyUserID).(string)
	return id
}
