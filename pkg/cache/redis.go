package cache

import (
	"context"
	"time"

	"tradeflow/conf"

	"github.com/redis/go-redis/v9"
)

// NewRedis 创建redis客户端并检查连通性
func NewRedis(redisCfg conf.RedisConfig) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		DB:              redisCfg.Db,
		Addr:            redisCfg.Addr,
		Password:        redisCfg.Password,
		PoolSize:        redisCfg.PoolSize,
		MinIdleConns:    redisCfg.MinIdleConns,
		ConnMaxIdleTime: time.Duration(redisCfg.IdleTimeout) * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

// CloseRedis 关闭redis client
func CloseRedis(rc *redis.Client) error {
	if rc == nil {
		return nil
	}
	return rc.Close()
}
