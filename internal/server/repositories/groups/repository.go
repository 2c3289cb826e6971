package groups

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) (models.Groups, error)
}
