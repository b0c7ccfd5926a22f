package api

import (
	"context"

	"github.com/quillhub/quillhub-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the authenticated principal to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated principal from the context, or nil
// when the request is anonymous
func ctxGetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}
