package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale は販売1件の履歴。在庫へは外部キーではなく
// (name, weight, container) の値で紐づき、操作のたびに引き直す。
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Date          time.Time       `gorm:"type:date" json:"date"`
	Code          string          `json:"code,omitempty"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_price"`
	Weight        Weight          `json:"weight"`
	ContainerName string          `json:"container_name"`
}

func (Sale) TableName() string { return "sales" }
