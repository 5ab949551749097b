package model

import (
	"time"

	"tradeflow/internal/consts"
	"tradeflow/internal/model/entity"

	"github.com/shopspring/decimal"
)

// TradeUpdateReq 更新时整体替换的字段，tran_id 在 path 中
type TradeUpdateReq struct {
	Datetime   *time.Time      `json:"datetime"`
	Status     string          `json:"status" binding:"max=32"`
	SymbolBuy  string          `json:"symbolBuy" binding:"max=32"`
	SymbolSell string          `json:"symbolSell" binding:"max=32"`
	Type       string          `json:"type" binding:"max=32"`
	Side       string          `json:"side" binding:"omitempty,oneof=buy sell"`
	Price      decimal.Decimal `json:"price" binding:"gte=0"`
	Amount     decimal.Decimal `json:"amount" binding:"gte=0"`
	Fee        decimal.Decimal `json:"fee" binding:"gte=0"`
	Exchange   string          `json:"exchange" binding:"max=64"`
}

// TradeCreateReq 创建交易的请求体
type TradeCreateReq struct {
	TranId string `json:"tran_id" binding:"required,max=64"`
	TradeUpdateReq
}

// Apply 把请求字段整体写入 trade，不做合并
func (r TradeUpdateReq) Apply(t *entity.Trade) {
	t.Datetime = r.Datetime
	t.Status = r.Status
	t.SymbolBuy = r.SymbolBuy
	t.SymbolSell = r.SymbolSell
	t.Type = r.Type
	t.Side = r.Side
	t.Price = r.Price
	t.Amount = r.Amount
	t.Fee = r.Fee
	t.Exchange = r.Exchange
}

// TradeEventValues 事件中携带的交易字段
type TradeEventValues struct {
	Exchange   string          `json:"exchange"`
	TranId     string          `json:"tran_id"`
	Datetime   *time.Time      `json:"datetime"`
	Status     string          `json:"status"`
	Side       string          `json:"side"`
	SymbolBuy  string          `json:"symbolBuy"`
	SymbolSell string          `json:"symbolSell"`
	Type       string          `json:"type"`
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
}

// TradeEvent 投递到 event 队列的消息体
type TradeEvent struct {
	Type   string           `json:"type"`
	Values TradeEventValues `json:"values"`
}

func NewTradeEvent(t *entity.Trade) TradeEvent {
	return TradeEvent{
		Type: consts.EventTypeTrade,
		Values: TradeEventValues{
			Exchange:   t.Exchange,
			TranId:     t.TranId,
			Datetime:   t.Datetime,
			Status:     t.Status,
			Side:       t.Side,
			SymbolBuy:  t.SymbolBuy,
			SymbolSell: t.SymbolSell,
			Type:       t.Type,
			Price:      t.Price,
			Amount:     t.Amount,
			Fee:        t.Fee,
		},
	}
}

// TradeListReq 分页参数
type TradeListReq struct {
	Limit int
	Skip  int
}
