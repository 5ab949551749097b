package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher 一个writer按消息指定topic写入
type KafkaPublisher struct {
	writer *kafka.Writer
	node   *snowflake.Node
}

func NewKafkaPublisher(brokerURL string, node *snowflake.Node) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokerURL, ",")...),
		Balancer:               &kafka.LeastBytes{}, // 保证写入负载均衡
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, node: node}
}

func (p *KafkaPublisher) Publish(ctx context.Context, job Job) error {
	msg, err := p.message(job)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) message(job Job) (kafka.Message, error) {
	if job.Topic == "" {
		return kafka.Message{}, errors.New("queue: empty topic")
	}
	body, err := json.Marshal(job.Data)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("queue: marshal job data: %w", err)
	}
	return kafka.Message{
		Topic: job.Topic,
		Key:   []byte(p.node.Generate().String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "priority", Value: []byte(job.Priority.String())},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
