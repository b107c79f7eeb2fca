package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesUsecase は販売の追加・修正・取消を在庫台帳と突き合わせる。
// どの操作も「両台帳を整合させて終わる」か「何も変えない」かのどちらか。
type SalesUsecase struct {
	tx     repo.TransactionManager
	sales  repo.SalesRepository
	stocks repo.StockRepository
	keys   *KeyMutex
}

// DI
func NewSalesUsecase(
	tx repo.TransactionManager,
	sales repo.SalesRepository,
	stocks repo.StockRepository,
	keys *KeyMutex,
) *SalesUsecase {
	return &SalesUsecase{
		tx:     tx,
		sales:  sales,
		stocks: stocks,
		keys:   keys,
	}
}

type AddSaleInput struct {
	Date          time.Time
	Code          string
	Name          string
	Quantity      int
	Price         decimal.Decimal
	Weight        model.Weight
	ContainerName string
}

type UpdateSaleInput struct {
	Quantity *int
	Price    *decimal.Decimal
}

type SaleOutput struct {
	ID            uuid.UUID       `json:"id"`
	Date          time.Time       `json:"date"`
	Code          string          `json:"code,omitempty"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Weight        model.Weight    `json:"weight"`
	ContainerName string          `json:"container_name"`
}

type SalesListOutput struct {
	Items []SaleOutput `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// AddSale は識別キーで在庫を引き、足りる場合だけ販売を記録して在庫を減らす。
// 残量がちょうど0になった在庫行は消す。
func (u *SalesUsecase) AddSale(ctx context.Context, in AddSaleInput) (SaleOutput, error) {
	name := strings.TrimSpace(in.Name)
	container := strings.TrimSpace(in.ContainerName)

	if name == "" {
		return SaleOutput{}, invalid("name required")
	}
	if container == "" {
		return SaleOutput{}, invalid("container name required")
	}
	if in.Quantity <= 0 {
		return SaleOutput{}, invalid("quantity must be greater than zero")
	}
	if in.Price.IsNegative() {
		return SaleOutput{}, invalid("price cannot be negative")
	}
	if _, err := model.ParseWeight(string(in.Weight)); err != nil {
		return SaleOutput{}, invalid(err.Error())
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	key := model.IdentityKey(name, in.Weight, container)
	u.keys.Lock(key)
	defer u.keys.Unlock(key)

	var out SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Stocks().FindByIdentity(ctx, name, in.Weight, container)
		if err == repo.ErrNotFound {
			return notFound("you don't have such product in stock")
		}
		if err != nil {
			return err
		}
		if stock.Quantity < in.Quantity {
			return insufficientStock("not enough items in stock")
		}

		sale := model.Sale{
			Date:          date,
			Code:          strings.TrimSpace(in.Code),
			Name:          name,
			Quantity:      in.Quantity,
			Price:         in.Price,
			TotalPrice:    in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			Weight:        in.Weight,
			ContainerName: container,
		}
		saved, err := r.Sales().Save(ctx, sale)
		if err != nil {
			return err
		}

		remaining := stock.Quantity - in.Quantity
		if remaining == 0 {
			if err := r.Stocks().Delete(ctx, stock.ID); err != nil {
				return err
			}
		} else {
			stock.Quantity = remaining
			if _, err := r.Stocks().Save(ctx, stock); err != nil {
				return err
			}
		}

		out = toSaleOutput(saved)
		return nil
	})
	if err != nil {
		return SaleOutput{}, err
	}
	return out, nil
}

// DeleteSale は販売を取り消して数量を在庫へ戻す。在庫行が既に消えていれば
// 数量0で作り直してから戻す。同じidをもう一度消すとNotFoundになる＝二重戻しはできない。
func (u *SalesUsecase) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return invalid("sale id required")
	}

	// キーを知るための先読み。状態はロック後のTx内で読み直す。
	probe, err := u.sales.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return notFound("sale not found")
	}
	if err != nil {
		return err
	}

	key := model.IdentityKey(probe.Name, probe.Weight, probe.ContainerName)
	u.keys.Lock(key)
	defer u.keys.Unlock(key)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sale, err := r.Sales().FindByID(ctx, id)
		if err == repo.ErrNotFound {
			return notFound("sale not found")
		}
		if err != nil {
			return err
		}

		if err := restoreToStock(ctx, r, sale, sale.Quantity); err != nil {
			return err
		}

		return r.Sales().Delete(ctx, sale.ID)
	})
}

// UpdateSale は数量/単価の片方以上を受け取り、数量差分を在庫へ反映する。
// 差分は「販売時に消費した量」ではなく現在の在庫スナップショットに対して解決する。
func (u *SalesUsecase) UpdateSale(ctx context.Context, id uuid.UUID, in UpdateSaleInput) (SaleOutput, error) {
	if id == uuid.Nil {
		return SaleOutput{}, invalid("sale id required")
	}
	if in.Quantity == nil && in.Price == nil {
		return SaleOutput{}, invalid("provide at least a quantity or price update")
	}

	probe, err := u.sales.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return SaleOutput{}, notFound("sale not found")
	}
	if err != nil {
		return SaleOutput{}, err
	}

	key := model.IdentityKey(probe.Name, probe.Weight, probe.ContainerName)
	u.keys.Lock(key)
	defer u.keys.Unlock(key)

	var out SaleOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sale, err := r.Sales().FindByID(ctx, id)
		if err == repo.ErrNotFound {
			return notFound("sale not found")
		}
		if err != nil {
			return err
		}

		newQuantity := sale.Quantity
		if in.Quantity != nil {
			newQuantity = *in.Quantity
		}
		newPrice := sale.Price
		if in.Price != nil {
			newPrice = *in.Price
		}

		if newQuantity <= 0 {
			return invalid("quantity must be greater than zero")
		}
		if newPrice.IsNegative() {
			return invalid("price cannot be negative")
		}

		delta := newQuantity - sale.Quantity
		if delta != 0 {
			if err := u.applyQuantityDelta(ctx, r, sale, delta); err != nil {
				return err
			}
		}

		sale.Quantity = newQuantity
		sale.Price = newPrice
		// 合計は常に再計算する。入力側の合計は信用しない。
		sale.TotalPrice = newPrice.Mul(decimal.NewFromInt(int64(newQuantity)))

		saved, err := r.Sales().Save(ctx, sale)
		if err != nil {
			return err
		}
		out = toSaleOutput(saved)
		return nil
	})
	if err != nil {
		return SaleOutput{}, err
	}
	return out, nil
}

// applyQuantityDelta は販売数量の増減を在庫へ反映する。
// 増（追加販売）は在庫が足りなければ失敗。減（部分取消）は在庫行が
// 消えていれば数量0で作り直してから戻す。
func (u *SalesUsecase) applyQuantityDelta(ctx context.Context, r repo.TxRepos, sale model.Sale, delta int) error {
	stock, err := r.Stocks().FindByIdentity(ctx, sale.Name, sale.Weight, sale.ContainerName)

	if delta > 0 {
		if err == repo.ErrNotFound {
			return insufficientStock("not enough stock to increase the sale quantity: item not found in stock")
		}
		if err != nil {
			return err
		}
		if stock.Quantity < delta {
			return insufficientStock(fmt.Sprintf(
				"not enough stock to increase the sale quantity: available %d, required %d",
				stock.Quantity, delta,
			))
		}

		stock.Quantity -= delta
		if stock.Quantity == 0 {
			return r.Stocks().Delete(ctx, stock.ID)
		}
		_, err = r.Stocks().Save(ctx, stock)
		return err
	}

	// delta < 0: 戻し
	if err != nil && err != repo.ErrNotFound {
		return err
	}
	return restoreToStock(ctx, r, sale, -delta)
}

// restoreToStock は販売ぶんの数量を識別キーの在庫行へ戻す。
// 行が消えていた場合（残量0で削除済み）は販売側の値で数量0から作り直す。
func restoreToStock(ctx context.Context, r repo.TxRepos, sale model.Sale, qty int) error {
	stock, err := r.Stocks().FindByIdentity(ctx, sale.Name, sale.Weight, sale.ContainerName)
	if err == repo.ErrNotFound {
		stock, err = r.Stocks().Save(ctx, model.Stock{
			Code:          sale.Code,
			Name:          sale.Name,
			Quantity:      0,
			ContainerName: sale.ContainerName,
			Weight:        sale.Weight,
		})
	}
	if err != nil {
		return err
	}

	stock.Quantity += qty
	_, err = r.Stocks().Save(ctx, stock)
	return err
}

// RecentSales は直近10件。
func (u *SalesUsecase) RecentSales(ctx context.Context) ([]SaleOutput, error) {
	items, err := u.sales.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("no sales data available")
	}
	return toSaleOutputs(items), nil
}

type ListSalesInput struct {
	Page  int
	Limit int
}

func (u *SalesUsecase) ListSales(ctx context.Context, in ListSalesInput) (SalesListOutput, error) {
	if err := validatePage(in.Page, in.Limit); err != nil {
		return SalesListOutput{}, err
	}

	items, total, err := u.sales.List(ctx, repo.SalesListQuery{Page: in.Page, Limit: in.Limit})
	if err != nil {
		return SalesListOutput{}, err
	}
	if len(items) == 0 {
		return SalesListOutput{}, notFound("no sales data available")
	}

	return SalesListOutput{
		Items: toSaleOutputs(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

type FilterSalesInput struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

func (u *SalesUsecase) FilterSales(ctx context.Context, in FilterSalesInput) (SalesListOutput, error) {
	if err := validatePage(in.Page, in.Limit); err != nil {
		return SalesListOutput{}, err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return SalesListOutput{}, invalid("end date cannot be before start date")
	}

	items, total, err := u.sales.List(ctx, repo.SalesListQuery{
		Page:      in.Page,
		Limit:     in.Limit,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	})
	if err != nil {
		return SalesListOutput{}, err
	}
	if len(items) == 0 {
		return SalesListOutput{}, notFound("no sales data available for the provided filters")
	}

	return SalesListOutput{
		Items: toSaleOutputs(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// GetItemName は商品コードから商品名を引く。コードが複数行に当たる場合は
// 曖昧なので明示的に別種のエラーで返す。
func (u *SalesUsecase) GetItemName(ctx context.Context, articleCode string) (string, error) {
	code := strings.TrimSpace(articleCode)
	if code == "" {
		return "", invalid("article code required")
	}

	names, err := u.stocks.FindNamesByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", notFound("you don't have such product in stock")
	}
	if len(names) > 1 {
		return "", duplicateIdentity("there's more than one product with this code in store, please enter the code manually")
	}
	return names[0], nil
}

func validatePage(page, limit int) error {
	if page < 1 {
		return invalid("invalid page")
	}
	if limit < 1 || limit > 100 {
		return invalid("invalid limit")
	}
	return nil
}

func toSaleOutput(s model.Sale) SaleOutput {
	return SaleOutput{
		ID:            s.ID,
		Date:          s.Date,
		Code:          s.Code,
		Name:          s.Name,
		Quantity:      s.Quantity,
		Price:         s.Price,
		TotalPrice:    s.TotalPrice,
		Weight:        s.Weight,
		ContainerName: s.ContainerName,
	}
}

func toSaleOutputs(items []model.Sale) []SaleOutput {
	outs := make([]SaleOutput, 0, len(items))
	for _, s := range items {
		outs = append(outs, toSaleOutput(s))
	}
	return outs
}
