package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额字段以数字形式输出，如 100、0.1
	decimal.MarshalJSONWithoutQuotes = true
}

// Trade 一条成交/挂单记录，tran_id 为对外的唯一标识
type Trade struct {
	Id         int64           `gorm:"column:id;primary_key;" json:"id"`
	TranId     string          `gorm:"column:tran_id;size:64;uniqueIndex" json:"tran_id"`
	Datetime   *time.Time      `gorm:"column:datetime" json:"datetime"` // 未提供时为 NULL
	Status     string          `gorm:"column:status;size:32" json:"status"`
	SymbolBuy  string          `gorm:"column:symbol_buy;size:32;index" json:"symbolBuy"`
	SymbolSell string          `gorm:"column:symbol_sell;size:32;index" json:"symbolSell"`
	Type       string          `gorm:"column:type;size:32" json:"type"`
	Side       string          `gorm:"column:side;size:8" json:"side"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(36,18)" json:"price"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(36,18)" json:"amount"`
	Fee        decimal.Decimal `gorm:"column:fee;type:decimal(36,18)" json:"fee"`
	Exchange   string          `gorm:"column:exchange;size:64" json:"exchange"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}
