package repository

import (
	"context"

	"campus-facilities/internal/auth/domain/model"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionStore defines the interface for the session store. Sessions
// expire on their own; deleting one revokes the matching token early.
type SessionStore interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
