package repository

import (
	"context"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

type FAQRepository interface {
	Create(ctx context.Context, f *entity.FAQ) error
	Update(ctx context.Context, f *entity.FAQ) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.FAQ, error)
	List(ctx context.Context) ([]entity.FAQ, error)
	ListByCategory(ctx context.Context, category string) ([]entity.FAQ, error)
}
