package api

import (
	"context"
	"fmt"

	"tradeflow/conf"
	"tradeflow/internal/dao/query"
	"tradeflow/internal/handler/trade"
	"tradeflow/internal/middleware"
	"tradeflow/internal/router"
	"tradeflow/internal/service"
	"tradeflow/pkg/cache"
	"tradeflow/pkg/db"
	"tradeflow/pkg/logger"
	"tradeflow/pkg/queue"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// InitDB 按配置打开数据库并迁移表结构
func InitDB(cfg *conf.Config) (*gorm.DB, error) {
	dbCfg := db.NewConfig(cfg.Db.Username, cfg.Db.Password, cfg.Db.Host, cfg.Db.Port, cfg.Db.DbName)
	dbCfg.Driver = cfg.Db.Driver
	dbCfg.Path = cfg.Db.Path

	datasource, err := db.Open(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := query.Migrate(datasource); err != nil {
		_ = db.Close(datasource)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return datasource, nil
}

// InitPublisher 按 queue.driver 创建事件发布者，redis 驱动同时返回客户端供关闭
func InitPublisher(cfg *conf.Config) (queue.Publisher, *redis.Client, error) {
	switch cfg.Queue.Driver {
	case "", "redis":
		rc, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return queue.NewRedisPublisher(rc, cfg.Queue.Prefix), rc, nil
	case "kafka":
		node, err := snowflake.NewNode(cfg.Queue.NodeId)
		if err != nil {
			return nil, nil, err
		}
		return queue.NewKafkaPublisher(cfg.Kafka.Broker, node), nil, nil
	case "amqp":
		node, err := snowflake.NewNode(cfg.Queue.NodeId)
		if err != nil {
			return nil, nil, err
		}
		p, err := queue.DialAMQP(cfg.Amqp.URL, cfg.Amqp.Exchange, node)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "file":
		p, err := queue.NewFilePublisher(cfg.Queue.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported queue driver %q", cfg.Queue.Driver)
	}
}

// InitRouter 组装 dao -> service -> handler -> router
func InitRouter(cfg *conf.Config, datasource *gorm.DB, publisher queue.Publisher) (Router, service.TradeService) {
	ts := service.NewTradeService(query.NewTradeDao(datasource), publisher, cfg.Queue.PublishTimeout)
	apiRouter := router.NewApiRouter(trade.NewHandler(ts))

	if cfg.Jwt.Secret != "" {
		apiRouter.WithWriteGuards(middleware.AuthToken(cfg.Jwt.Secret))
	}
	if cfg.Server.AntiDuplicateWindow > 0 {
		apiRouter.WithCreateGuards(middleware.AntiDuplicate(cfg.Server.AntiDuplicateWindow, cfg.Server.AntiDuplicateSize))
	}
	return apiRouter, ts
}

// Shutdown 等待在途事件投递完成后依次关闭发布者、redis、数据库
func Shutdown(ctx context.Context, ts service.TradeService, publisher queue.Publisher, rc *redis.Client, datasource *gorm.DB) error {
	var err error
	if ts != nil {
		if derr := ts.Drain(ctx); derr != nil {
			logger.Warnf("drain pending events: %v", derr)
			err = multierr.Append(err, derr)
		}
	}
	if publisher != nil {
		err = multierr.Append(err, publisher.Close())
	}
	// RedisPublisher.Close 不关闭客户端
	err = multierr.Append(err, cache.CloseRedis(rc))
	err = multierr.Append(err, db.Close(datasource))
	return err
}
