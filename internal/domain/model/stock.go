package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Weight は梱包区分（固定の3値）。
type Weight string

const (
	WeightKG75 Weight = "KG_75"
	WeightKG45 Weight = "KG_45"
	WeightBags Weight = "BAGS"
)

// Weights は有効な梱包区分の一覧（エラーメッセージ用）。
func Weights() []Weight {
	return []Weight{WeightKG75, WeightKG45, WeightBags}
}

// ParseWeight は大文字小文字を無視してトークンをWeightに変換する。
func ParseWeight(s string) (Weight, error) {
	switch Weight(strings.ToUpper(strings.TrimSpace(s))) {
	case WeightKG75:
		return WeightKG75, nil
	case WeightKG45:
		return WeightKG45, nil
	case WeightBags:
		return WeightBags, nil
	}
	return "", fmt.Errorf("unknown weight %q", s)
}

type Stock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string    `json:"code,omitempty"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	ContainerName string    `json:"container_name"`
	Weight        Weight    `json:"weight"`
}

func (Stock) TableName() string { return "stock" }

// IdentityKey は在庫1行を特定する (name, weight, container) の正規化キー。
// 文字列側は trim + 小文字化で照合する。保存側の照合順序には依存しない。
func IdentityKey(name string, weight Weight, containerName string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" +
		string(weight) + "|" +
		strings.ToLower(strings.TrimSpace(containerName))
}
