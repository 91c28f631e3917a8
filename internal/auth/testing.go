package auth

import "context"

// SetUserIDForTest injects a user ID into the context for testing purposes.
func SetUserIDForTest(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// SetRoleForTest injects a role into the context for testing purposes.
func SetRoleForTest(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}
