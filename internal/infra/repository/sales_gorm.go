package repository

import (
	"context"
	"errors"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesGormRepository struct {
	db *gorm.DB
}

// DI
func NewSalesGormRepository(db *gorm.DB) *SalesGormRepository {
	return &SalesGormRepository{db: db}
}

func (r *SalesGormRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SalesGormRepository) Save(ctx context.Context, s model.Sale) (model.Sale, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Save(&s).Error; err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SalesGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 直近の販売（日付降順）
func (r *SalesGormRepository) Recent(ctx context.Context, limit int) ([]model.Sale, error) {
	var items []model.Sale
	err := r.db.WithContext(ctx).
		Order("date desc").Order("id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// 日付範囲（省略可）付きページング。日付降順。
func (r *SalesGormRepository) List(ctx context.Context, q repo.SalesListQuery) ([]model.Sale, int64, error) {
	var items []model.Sale
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Sale{})

	if q.StartDate != nil {
		tx = tx.Where("date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		tx = tx.Where("date <= ?", *q.EndDate)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Sale{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := tx.Order("date desc").Order("id desc").
		Offset(offset).Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return []model.Sale{}, 0, err
	}

	return items, total, nil
}
