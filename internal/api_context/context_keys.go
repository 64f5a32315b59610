package api_context

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type ctxKey string

const (
	IDKey          ctxKey = "id"
	AuthSubjectKey ctxKey = "authSubject"
	AuthRolesKey   ctxKey = "authRoles"
)

func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IDKey).(uuid.UUID)
	return id, ok
}

func AuthSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(AuthSubjectKey).(string)
	return sub, ok
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
