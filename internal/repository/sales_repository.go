package repository

import (
	"context"
	"time"

	"stockmanager/internal/domain/model"

	"github.com/google/uuid"
)

// 日付範囲は両端とも省略可（nil = 無制限）
type SalesListQuery struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

type SalesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (model.Sale, error)
	Save(ctx context.Context, s model.Sale) (model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Recent(ctx context.Context, limit int) ([]model.Sale, error)
	List(ctx context.Context, q SalesListQuery) ([]model.Sale, int64, error)
}
