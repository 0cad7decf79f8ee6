package utils

import (
	"context"

	"recipebox/globals"
)

func GetUserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, globals.UserIDKey, userID)
}
