package kafka

import (
	"context"
	"strings"
	"time"

	"tradeflow/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer 消费指定主题，消息通过通道交给调用方
type Consumer struct {
	brokers []string
}

func NewConsumer(brokerURL string) *Consumer {
	return &Consumer{brokers: strings.Split(brokerURL, ",")}
}

func (c *Consumer) readerConfig(topic, groupID string) kafka.ReaderConfig {
	cfg := kafka.ReaderConfig{
		Brokers:     c.brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		MaxAttempts: 3,
	}
	if groupID != "" {
		// 启动自动提交，每秒提交一次
		cfg.CommitInterval = time.Second
	} else {
		// 没有消费组时从最新的 offset 开始
		cfg.StartOffset = kafka.LastOffset
	}
	return cfg
}

// Consume 启动一个协程读取消息，ctx 结束后关闭 reader 和返回的通道
func (c *Consumer) Consume(ctx context.Context, topic, groupID string) <-chan kafka.Message {
	r := kafka.NewReader(c.readerConfig(topic, groupID))
	outputCh := make(chan kafka.Message, 100)

	go func() {
		defer close(outputCh)
		defer func() {
			if err := r.Close(); err != nil {
				logger.Warn("close kafka reader", zap.Error(err))
			}
		}()
		for {
			// 阻塞读取消息
			m, err := r.ReadMessage(ctx)
			if err != nil {
				// Context 被取消（服务关闭），正常退出
				if ctx.Err() != nil {
					return
				}
				logger.Error("kafka read error", logger.Pair("topic", topic), zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			select {
			case outputCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return outputCh
}
