package usecase_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"

	"github.com/google/uuid"
)

// インメモリのフェイク実装。照合の往復が必要なシナリオ
// （販売→在庫→販売…）をモックより素直に書くために使う。

type memStockRepo struct {
	m map[uuid.UUID]model.Stock
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{m: make(map[uuid.UUID]model.Stock)}
}

func (r *memStockRepo) seed(s model.Stock) model.Stock {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.m[s.ID] = s
	return s
}

func (r *memStockRepo) FindByIdentity(_ context.Context, name string, weight model.Weight, containerName string) (model.Stock, error) {
	key := model.IdentityKey(name, weight, containerName)
	for _, s := range r.m {
		if model.IdentityKey(s.Name, s.Weight, s.ContainerName) == key {
			return s, nil
		}
	}
	return model.Stock{}, repo.ErrNotFound
}

func (r *memStockRepo) FindByID(_ context.Context, id uuid.UUID) (model.Stock, error) {
	s, ok := r.m[id]
	if !ok {
		return model.Stock{}, repo.ErrNotFound
	}
	return s, nil
}

func (r *memStockRepo) Save(_ context.Context, s model.Stock) (model.Stock, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.m[s.ID] = s
	return s, nil
}

func (r *memStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *memStockRepo) List(_ context.Context, q repo.StockListQuery) ([]model.Stock, int64, error) {
	var items []model.Stock
	for _, s := range r.m {
		if q.Weight != nil && s.Weight != *q.Weight {
			continue
		}
		if q.ContainerName != nil &&
			!strings.EqualFold(strings.TrimSpace(s.ContainerName), strings.TrimSpace(*q.ContainerName)) {
			continue
		}
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	total := int64(len(items))
	offset := (q.Page - 1) * q.Limit
	if offset >= len(items) {
		return []model.Stock{}, total, nil
	}
	end := offset + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

func (r *memStockRepo) SumQuantity(_ context.Context, weight *model.Weight) (int, error) {
	total := 0
	for _, s := range r.m {
		if weight != nil && s.Weight != *weight {
			continue
		}
		total += s.Quantity
	}
	return total, nil
}

func (r *memStockRepo) DistinctContainerNames(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, s := range r.m {
		n := strings.ToUpper(strings.TrimSpace(s.ContainerName))
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *memStockRepo) FindNamesByCode(_ context.Context, code string) ([]string, error) {
	var names []string
	for _, s := range r.m {
		if strings.EqualFold(s.Code, code) {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type memSalesRepo struct {
	m map[uuid.UUID]model.Sale
}

func newMemSalesRepo() *memSalesRepo {
	return &memSalesRepo{m: make(map[uuid.UUID]model.Sale)}
}

func (r *memSalesRepo) FindByID(_ context.Context, id uuid.UUID) (model.Sale, error) {
	s, ok := r.m[id]
	if !ok {
		return model.Sale{}, repo.ErrNotFound
	}
	return s, nil
}

func (r *memSalesRepo) Save(_ context.Context, s model.Sale) (model.Sale, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.m[s.ID] = s
	return s, nil
}

func (r *memSalesRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *memSalesRepo) Recent(_ context.Context, limit int) ([]model.Sale, error) {
	items := r.sortedByDateDesc(nil, nil)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *memSalesRepo) List(_ context.Context, q repo.SalesListQuery) ([]model.Sale, int64, error) {
	items := r.sortedByDateDesc(q.StartDate, q.EndDate)
	total := int64(len(items))

	offset := (q.Page - 1) * q.Limit
	if offset >= len(items) {
		return []model.Sale{}, total, nil
	}
	end := offset + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

func (r *memSalesRepo) sortedByDateDesc(start, end *time.Time) []model.Sale {
	var items []model.Sale
	for _, s := range r.m {
		if start != nil && s.Date.Before(*start) {
			continue
		}
		if end != nil && s.Date.After(*end) {
			continue
		}
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items
}

// トランザクションはそのまま関数を実行するスタブ。
type txRepos struct {
	stocks repo.StockRepository
	sales  repo.SalesRepository
}

func (r *txRepos) Stocks() repo.StockRepository { return r.stocks }
func (r *txRepos) Sales() repo.SalesRepository  { return r.sales }

type txStub struct {
	repos txRepos
}

func newTxStub(stocks repo.StockRepository, sales repo.SalesRepository) *txStub {
	return &txStub{repos: txRepos{stocks: stocks, sales: sales}}
}

func (t *txStub) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&t.repos)
}
