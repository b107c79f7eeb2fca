package usecase

import (
	"context"
	"sort"
	"strings"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"

	"github.com/google/uuid"
)

// StockUsecase は在庫台帳の読み取りと、操作者による直接のCRUD。
type StockUsecase struct {
	tx     repo.TransactionManager
	stocks repo.StockRepository
	keys   *KeyMutex
}

// DI
func NewStockUsecase(tx repo.TransactionManager, stocks repo.StockRepository, keys *KeyMutex) *StockUsecase {
	return &StockUsecase{
		tx:     tx,
		stocks: stocks,
		keys:   keys,
	}
}

type StockOutput struct {
	ID            uuid.UUID    `json:"id"`
	Code          string       `json:"code,omitempty"`
	Name          string       `json:"name"`
	Quantity      int          `json:"quantity"`
	ContainerName string       `json:"container_name"`
	Weight        model.Weight `json:"weight"`
}

type StockListOutput struct {
	Items []StockOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// TotalStock は全体の合計数量。
func (u *StockUsecase) TotalStock(ctx context.Context) (int, error) {
	return u.stocks.SumQuantity(ctx, nil)
}

// TotalStockByWeight は梱包区分ごとの合計数量。
func (u *StockUsecase) TotalStockByWeight(ctx context.Context, weight model.Weight) (int, error) {
	if _, err := model.ParseWeight(string(weight)); err != nil {
		return 0, invalid(err.Error())
	}
	return u.stocks.SumQuantity(ctx, &weight)
}

type ListStockInput struct {
	Page          int
	Limit         int
	Weight        *model.Weight
	ContainerName *string
}

// ListStock は任意のweight/containerフィルタ付きページング。
// 該当0件は空ページではなくNotFoundとして返す。
func (u *StockUsecase) ListStock(ctx context.Context, in ListStockInput) (StockListOutput, error) {
	if err := validatePage(in.Page, in.Limit); err != nil {
		return StockListOutput{}, err
	}

	items, total, err := u.stocks.List(ctx, repo.StockListQuery{
		Page:          in.Page,
		Limit:         in.Limit,
		Weight:        in.Weight,
		ContainerName: in.ContainerName,
	})
	if err != nil {
		return StockListOutput{}, err
	}
	if len(items) == 0 {
		return StockListOutput{}, notFound("stock with selected criteria not found")
	}

	return StockListOutput{
		Items: toStockOutputs(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *StockUsecase) DistinctContainers(ctx context.Context) ([]string, error) {
	return u.stocks.DistinctContainerNames(ctx)
}

type AddStockInput struct {
	Code          string
	Name          string
	Quantity      int
	ContainerName string
	Weight        model.Weight
}

// AddStock は識別キーが一致する既存行があれば数量を積み増し、
// 無ければ新規行を作る。同一キーの行を2本にしない。
func (u *StockUsecase) AddStock(ctx context.Context, in AddStockInput) (StockOutput, error) {
	name := strings.TrimSpace(in.Name)
	container := strings.TrimSpace(in.ContainerName)

	if name == "" {
		return StockOutput{}, invalid("name required")
	}
	if container == "" {
		return StockOutput{}, invalid("container name required")
	}
	if in.Quantity <= 0 {
		return StockOutput{}, invalid("quantity must be greater than zero")
	}
	if _, err := model.ParseWeight(string(in.Weight)); err != nil {
		return StockOutput{}, invalid(err.Error())
	}

	key := model.IdentityKey(name, in.Weight, container)
	u.keys.Lock(key)
	defer u.keys.Unlock(key)

	var out StockOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, err := r.Stocks().FindByIdentity(ctx, name, in.Weight, container)
		if err == repo.ErrNotFound {
			saved, err := r.Stocks().Save(ctx, model.Stock{
				Code:          strings.TrimSpace(in.Code),
				Name:          name,
				Quantity:      in.Quantity,
				ContainerName: container,
				Weight:        in.Weight,
			})
			if err != nil {
				return err
			}
			out = toStockOutput(saved)
			return nil
		}
		if err != nil {
			return err
		}

		existing.Quantity += in.Quantity
		saved, err := r.Stocks().Save(ctx, existing)
		if err != nil {
			return err
		}
		out = toStockOutput(saved)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

type UpdateStockInput struct {
	Code          *string
	Name          *string
	Quantity      *int
	ContainerName *string
	Weight        *model.Weight
}

// UpdateStock はサロゲートid指定の部分更新。与えられた項目だけ反映する。
// 数量を0にした行は残さず消す（数量0の行は台帳に存在させない）。
// 識別キーが変わる更新は、移り先のキーに既存行があれば拒否する
// （同一キーの行を2本にしない）。
func (u *StockUsecase) UpdateStock(ctx context.Context, id uuid.UUID, in UpdateStockInput) (StockOutput, error) {
	if id == uuid.Nil {
		return StockOutput{}, invalid("stock id required")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return StockOutput{}, invalid("quantity cannot be negative")
	}
	if in.Weight != nil {
		if _, err := model.ParseWeight(string(*in.Weight)); err != nil {
			return StockOutput{}, invalid(err.Error())
		}
	}

	probe, err := u.stocks.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return StockOutput{}, notFound("stock item not found")
	}
	if err != nil {
		return StockOutput{}, err
	}

	// 現在のキーと移り先のキーを両方押さえる。複数キーはソート順で取る。
	oldKey := model.IdentityKey(probe.Name, probe.Weight, probe.ContainerName)
	newKey := model.IdentityKey(
		effectiveField(in.Name, probe.Name),
		effectiveWeight(in.Weight, probe.Weight),
		effectiveField(in.ContainerName, probe.ContainerName),
	)

	lockKeys := []string{oldKey}
	if newKey != oldKey {
		lockKeys = append(lockKeys, newKey)
		sort.Strings(lockKeys)
	}
	for _, k := range lockKeys {
		u.keys.Lock(k)
	}
	defer func() {
		for i := len(lockKeys) - 1; i >= 0; i-- {
			u.keys.Unlock(lockKeys[i])
		}
	}()

	var out StockOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Stocks().FindByID(ctx, id)
		if err == repo.ErrNotFound {
			return notFound("stock item not found")
		}
		if err != nil {
			return err
		}
		beforeKey := model.IdentityKey(stock.Name, stock.Weight, stock.ContainerName)

		if in.Code != nil && strings.TrimSpace(*in.Code) != "" {
			stock.Code = strings.TrimSpace(*in.Code)
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			stock.Name = strings.TrimSpace(*in.Name)
		}
		if in.ContainerName != nil && strings.TrimSpace(*in.ContainerName) != "" {
			stock.ContainerName = strings.TrimSpace(*in.ContainerName)
		}
		if in.Weight != nil {
			stock.Weight = *in.Weight
		}
		if in.Quantity != nil {
			stock.Quantity = *in.Quantity
		}

		if model.IdentityKey(stock.Name, stock.Weight, stock.ContainerName) != beforeKey {
			existing, err := r.Stocks().FindByIdentity(ctx, stock.Name, stock.Weight, stock.ContainerName)
			if err == nil && existing.ID != stock.ID {
				return duplicateIdentity("another stock entry already exists for this name, weight and container")
			}
			if err != nil && err != repo.ErrNotFound {
				return err
			}
		}

		if stock.Quantity == 0 {
			if err := r.Stocks().Delete(ctx, stock.ID); err != nil {
				return err
			}
			out = toStockOutput(stock)
			return nil
		}

		saved, err := r.Stocks().Save(ctx, stock)
		if err != nil {
			return err
		}
		out = toStockOutput(saved)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

func (u *StockUsecase) DeleteStock(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return invalid("stock id required")
	}

	if _, err := u.stocks.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return notFound("item not found")
		}
		return err
	}

	err := u.stocks.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return notFound("item not found")
	}
	return err
}

// 部分更新後の値（空白だけの入力は現状維持）
func effectiveField(in *string, current string) string {
	if in != nil && strings.TrimSpace(*in) != "" {
		return strings.TrimSpace(*in)
	}
	return current
}

func effectiveWeight(in *model.Weight, current model.Weight) model.Weight {
	if in != nil {
		return *in
	}
	return current
}

func toStockOutput(s model.Stock) StockOutput {
	return StockOutput{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Quantity:      s.Quantity,
		ContainerName: s.ContainerName,
		Weight:        s.Weight,
	}
}

func toStockOutputs(items []model.Stock) []StockOutput {
	outs := make([]StockOutput, 0, len(items))
	for _, s := range items {
		outs = append(outs, toStockOutput(s))
	}
	return outs
}
