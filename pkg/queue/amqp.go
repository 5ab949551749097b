package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tradeflow/pkg/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
)

const exchangeType = "topic"

// AMQPPublisher 发布到topic交换机，routing key 即任务topic
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	node     *snowflake.Node
	mu       sync.Mutex
}

// DialAMQP 连接rabbitmq并声明交换机，启动阶段简单重试
func DialAMQP(url, exchange string, node *snowflake.Node) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	err := utils.Retry(context.Background(), 5, time.Second, true, func() (err error) {
		conn, err = amqp.Dial(url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("could not declare exchange: %w", err), conn.Close())
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, node: node}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, job Job) error {
	pub, err := p.publishing(job)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		job.Topic,  // routing key
		false,      // mandatory
		false,      // immediate
		pub,
	)
}

func (p *AMQPPublisher) publishing(job Job) (amqp.Publishing, error) {
	if job.Topic == "" {
		return amqp.Publishing{}, errors.New("queue: empty topic")
	}
	body, err := json.Marshal(job.Data)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("queue: marshal job data: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Priority:     amqpPriority(job.Priority),
		MessageId:    p.node.Generate().String(),
		Timestamp:    time.Now(),
		Type:         job.Topic,
		Body:         body,
	}, nil
}

func (p *AMQPPublisher) Close() error {
	return multierr.Combine(p.ch.Close(), p.conn.Close())
}

// amqpPriority kue优先级（越小越优先）映射到amqp的0~9（越大越优先）
func amqpPriority(p Priority) uint8 {
	switch {
	case p >= PriorityLow:
		return 1
	case p > PriorityMedium:
		return 5
	case p > PriorityHigh:
		return 6
	case p > PriorityCritical:
		return 8
	default:
		return 9
	}
}
