package repository

import (
	"context"

	repo "stockmanager/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	stocks repo.StockRepository
	sales  repo.SalesRepository
}

func (r *txReposGorm) Stocks() repo.StockRepository { return r.stocks }
func (r *txReposGorm) Sales() repo.SalesRepository  { return r.sales }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			stocks: NewStockGormRepository(tx),
			sales:  NewSalesGormRepository(tx),
		}
		return fn(r)
	})
}
