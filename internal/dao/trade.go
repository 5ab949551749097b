package dao

import (
	"context"

	"tradeflow/internal/model/entity"
)

type TradeDao interface {
	// 根据tran_id获取交易，不存在时返回 gorm.ErrRecordNotFound
	TradeGetByTranId(ctx context.Context, tranId string) (*entity.Trade, error)
	// 创建交易，成功后 trade 为库中实际保存的记录
	TradeCreateNew(ctx context.Context, trade *entity.Trade) error
	// 根据tran_id整体更新可变字段，返回更新后的记录
	TradeUpdate(ctx context.Context, tranId string, trade *entity.Trade) (*entity.Trade, error)
	// 根据tran_id删除，返回被删除的记录
	TradeDelete(ctx context.Context, tranId string) (*entity.Trade, error)
	// 分页获取交易列表
	TradeGetList(ctx context.Context, limit, skip int) ([]entity.Trade, error)
	// 获取买入或卖出币种为symbol的交易
	TradeGetListBySymbol(ctx context.Context, symbol string) ([]entity.Trade, error)
}
