package query

import (
	"context"

	"tradeflow/internal/dao"
	"tradeflow/internal/model/entity"

	"gorm.io/gorm"
)

var _ dao.TradeDao = (*tradeDao)(nil)

// 更新时整体替换的列，零值同样写入
var tradeMutableColumns = []string{
	"datetime", "status", "symbol_buy", "symbol_sell", "type",
	"side", "price", "amount", "fee", "exchange",
}

type tradeDao struct {
	db *gorm.DB
}

func NewTradeDao(db *gorm.DB) *tradeDao {
	return &tradeDao{db: db}
}

func (d *tradeDao) TradeGetByTranId(ctx context.Context, tranId string) (*entity.Trade, error) {
	var t entity.Trade
	if err := d.db.WithContext(ctx).Where("tran_id = ?", tranId).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// TradeCreateNew 插入后重新读取，trade 被替换为库中保存的值（精度以列定义为准）
func (d *tradeDao) TradeCreateNew(ctx context.Context, trade *entity.Trade) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		var stored entity.Trade
		if err := tx.First(&stored, trade.Id).Error; err != nil {
			return err
		}
		*trade = stored
		return nil
	})
}

func (d *tradeDao) TradeUpdate(ctx context.Context, tranId string, trade *entity.Trade) (*entity.Trade, error) {
	var updated entity.Trade
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Trade{}).
			Where("tran_id = ?", tranId).
			Select(tradeMutableColumns).
			Updates(trade).Error
		if err != nil {
			return err
		}
		// 重新查询，记录已被删除时返回 ErrRecordNotFound
		return tx.Where("tran_id = ?", tranId).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (d *tradeDao) TradeDelete(ctx context.Context, tranId string) (*entity.Trade, error) {
	var deleted entity.Trade
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tran_id = ?", tranId).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Where("tran_id = ?", tranId).Delete(&entity.Trade{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (d *tradeDao) TradeGetList(ctx context.Context, limit, skip int) ([]entity.Trade, error) {
	arr := make([]entity.Trade, 0)
	err := d.db.WithContext(ctx).Model(&entity.Trade{}).
		Order("id").
		Limit(limit).
		Offset(skip).
		Find(&arr).
		Error
	return arr, err
}

func (d *tradeDao) TradeGetListBySymbol(ctx context.Context, symbol string) ([]entity.Trade, error) {
	arr := make([]entity.Trade, 0)
	err := d.db.WithContext(ctx).Model(&entity.Trade{}).
		Where("symbol_buy = ? OR symbol_sell = ?", symbol, symbol).
		Order("id").
		Find(&arr).
		Error
	return arr, err
}
