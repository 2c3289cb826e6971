package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetCredentials(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error
	UpdateGroup(ctx context.Context, id int64, groupID int64, at time.Time) error
}
