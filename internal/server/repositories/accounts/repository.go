package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository is the durable store of verified accounts. Username and email
// are each unique; violations surface as common.ErrAlreadyExists and missing
// rows as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUserName(ctx context.Context, userName string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
	Replace(ctx context.Context, userName string, account *models.Account) error
	DeleteByUserName(ctx context.Context, userName string) error
}
