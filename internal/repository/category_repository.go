package repository

import (
	"context"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
}
