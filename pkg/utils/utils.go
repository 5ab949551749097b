package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry 执行 fn，失败后最多再重试到 retries 次
// delay 是两次重试之间的间隔，backoff=true 表示指数退避，ctx 结束时立即返回
func Retry(ctx context.Context, retries int, delay time.Duration, backoff bool, fn func() error) error {
	if retries <= 0 {
		retries = 1
	}
	var err error
	for i := 0; i < retries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if i < retries-1 { // 最后一次就不用 sleep 了
			sleep := delay
			if backoff {
				sleep = delay * time.Duration(1<<i) // 1x,2x,4x,8x...
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry canceled after %d attempts: %w", i+1, err)
			case <-time.After(sleep):
			}
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", retries, err)
}
