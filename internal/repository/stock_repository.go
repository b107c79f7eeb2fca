package repository

import (
	"context"
	"errors"

	"stockmanager/internal/domain/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// 一覧検索（weight/containerはどちらも省略可）
type StockListQuery struct {
	Page          int
	Limit         int
	Weight        *model.Weight
	ContainerName *string
}

// 在庫の永続化だけを約束。識別キー照合は LOWER() で行う実装にする。
type StockRepository interface {
	FindByIdentity(ctx context.Context, name string, weight model.Weight, containerName string) (model.Stock, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.Stock, error)
	Save(ctx context.Context, s model.Stock) (model.Stock, error)
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, q StockListQuery) ([]model.Stock, int64, error)
	SumQuantity(ctx context.Context, weight *model.Weight) (int, error)
	DistinctContainerNames(ctx context.Context) ([]string, error)
	FindNamesByCode(ctx context.Context, code string) ([]string, error)
}
