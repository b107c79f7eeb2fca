package repository

import (
	"context"
	"errors"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// 識別キー (name, weight, container) で1行を引く。文字列はLOWER()で照合。
func (r *StockGormRepository) FindByIdentity(ctx context.Context, name string, weight model.Weight, containerName string) (model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND weight = ? AND LOWER(container_name) = LOWER(?)",
			name, weight, containerName).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Stock{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

func (r *StockGormRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Stock{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

// Save は新規なら採番して挿入、既存なら全列を更新する。
func (r *StockGormRepository) Save(ctx context.Context, s model.Stock) (model.Stock, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Save(&s).Error; err != nil {
		return model.Stock{}, err
	}
	return s, nil
}

func (r *StockGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Stock{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// フィルタ付きページング。並びはname/idで安定させる。
func (r *StockGormRepository) List(ctx context.Context, q repo.StockListQuery) ([]model.Stock, int64, error) {
	var items []model.Stock
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Stock{})

	if q.Weight != nil {
		tx = tx.Where("weight = ?", *q.Weight)
	}
	if q.ContainerName != nil {
		tx = tx.Where("LOWER(container_name) = LOWER(?)", *q.ContainerName)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Stock{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := tx.Order("name asc").Order("id asc").
		Offset(offset).Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return []model.Stock{}, 0, err
	}

	return items, total, nil
}

// 合計数量。weight指定なしなら全体。NULL（0行）は0として返す。
func (r *StockGormRepository) SumQuantity(ctx context.Context, weight *model.Weight) (int, error) {
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Stock{}).
		Select("COALESCE(SUM(quantity), 0)")
	if weight != nil {
		tx = tx.Where("weight = ?", *weight)
	}

	if err := tx.Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *StockGormRepository) DistinctContainerNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Stock{}).
		Distinct("UPPER(TRIM(container_name))").
		Pluck("UPPER(TRIM(container_name))", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// 商品コード（LOWER照合）に一致する商品名の一覧。重複判定はusecase側。
func (r *StockGormRepository) FindNamesByCode(ctx context.Context, code string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Stock{}).
		Where("LOWER(code) = LOWER(?)", code).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
