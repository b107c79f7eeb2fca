package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stockmanager/internal/domain/model"
	repo "stockmanager/internal/repository"
)

// StockRow は外部のパーサが取り出した1行分のトークン。
// ファイルのバイト列には一切触らない。codeのみ省略可。
type StockRow struct {
	Code          string
	Name          string
	Quantity      string
	ContainerName string
	Weight        string
}

// UploadUsecase は一括取込。行の検証→識別キーごとの集約→台帳への合流。
type UploadUsecase struct {
	tx   repo.TransactionManager
	keys *KeyMutex
}

// DI
func NewUploadUsecase(tx repo.TransactionManager, keys *KeyMutex) *UploadUsecase {
	return &UploadUsecase{tx: tx, keys: keys}
}

// ImportRows は検証済みの集約候補を台帳へ合流させ、
// 集約後の件数（生の行数ではない）を返す。
// 検証は最初の不正行で打ち切り、その時点では何も書かない。
// 合流は1トランザクションで行う。途中失敗で部分確定は残さない。
func (u *UploadUsecase) ImportRows(ctx context.Context, rows []StockRow) (int, error) {
	candidates, err := aggregateRows(rows)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, invalid("the uploaded file does not contain any stock rows")
	}

	// 合流対象のキーを全部押さえてから書く。販売側と同じ排他に乗せるため。
	// 複数キーを取る操作はどこでもソート順で取る。取得順の交差によるデッドロック回避。
	lockKeys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lockKeys = append(lockKeys, model.IdentityKey(c.Name, c.Weight, c.ContainerName))
	}
	sort.Strings(lockKeys)
	for _, k := range lockKeys {
		u.keys.Lock(k)
	}
	defer func() {
		for i := len(lockKeys) - 1; i >= 0; i-- {
			u.keys.Unlock(lockKeys[i])
		}
	}()

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, c := range candidates {
			existing, err := r.Stocks().FindByIdentity(ctx, c.Name, c.Weight, c.ContainerName)
			if err == repo.ErrNotFound {
				if _, err := r.Stocks().Save(ctx, c); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			existing.Quantity += c.Quantity
			if existing.Code == "" && c.Code != "" {
				existing.Code = c.Code
			}
			if _, err := r.Stocks().Save(ctx, existing); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// aggregateRows は行を検証しつつ識別キーごとにまとめる。
// 数量は合算、codeは最初に現れた空でないものを採用。順序は初出順を保つ。
func aggregateRows(rows []StockRow) ([]model.Stock, error) {
	byKey := make(map[string]int)
	var ordered []model.Stock

	for i, row := range rows {
		rowNum := i + 1

		if isBlankRow(row) {
			continue
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, invalid(fmt.Sprintf("row %d: mandatory text value missing", rowNum))
		}
		container := strings.TrimSpace(row.ContainerName)
		if container == "" {
			return nil, invalid(fmt.Sprintf("row %d: mandatory text value missing", rowNum))
		}

		rawQty := strings.TrimSpace(row.Quantity)
		if rawQty == "" {
			return nil, invalid(fmt.Sprintf("row %d: quantity is missing", rowNum))
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, invalid(fmt.Sprintf("row %d: quantity must be numeric", rowNum))
		}
		if qty <= 0 {
			return nil, invalid(fmt.Sprintf("row %d: quantity must be greater than zero", rowNum))
		}

		rawWeight := strings.TrimSpace(row.Weight)
		if rawWeight == "" {
			return nil, invalid(fmt.Sprintf("row %d: weight is missing", rowNum))
		}
		weight, err := model.ParseWeight(rawWeight)
		if err != nil {
			return nil, invalid(fmt.Sprintf("row %d: weight must be one of %v", rowNum, model.Weights()))
		}

		code := strings.TrimSpace(row.Code)

		key := model.IdentityKey(name, weight, container)
		if idx, ok := byKey[key]; ok {
			ordered[idx].Quantity += qty
			if ordered[idx].Code == "" && code != "" {
				ordered[idx].Code = code
			}
			continue
		}

		byKey[key] = len(ordered)
		ordered = append(ordered, model.Stock{
			Code:          code,
			Name:          name,
			Quantity:      qty,
			ContainerName: container,
			Weight:        weight,
		})
	}

	return ordered, nil
}

func isBlankRow(row StockRow) bool {
	return strings.TrimSpace(row.Code) == "" &&
		strings.TrimSpace(row.Name) == "" &&
		strings.TrimSpace(row.Quantity) == "" &&
		strings.TrimSpace(row.ContainerName) == "" &&
		strings.TrimSpace(row.Weight) == ""
}
