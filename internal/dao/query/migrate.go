package query

import (
	"tradeflow/internal/model/entity"

	"gorm.io/gorm"
)

// Migrate 创建或更新表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Trade{})
}
