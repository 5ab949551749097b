package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher 按kue的key布局把任务写入redis，兼容现有的kue消费者
type RedisPublisher struct {
	rc     *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisPublisher(rc *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "q"
	}
	return &RedisPublisher{rc: rc, prefix: prefix, now: time.Now}
}

func (p *RedisPublisher) key(parts ...string) string {
	return p.prefix + ":" + strings.Join(parts, ":")
}

// Publish 分配任务id后在一个事务内写入任务详情和各个索引
func (p *RedisPublisher) Publish(ctx context.Context, job Job) error {
	if job.Topic == "" {
		return errors.New("queue: empty topic")
	}
	data, err := json.Marshal(job.Data)
	if err != nil {
		return fmt.Errorf("queue: marshal job data: %w", err)
	}

	id, err := p.rc.Incr(ctx, p.key("ids")).Result()
	if err != nil {
		return err
	}
	idStr := strconv.FormatInt(id, 10)
	member := fifo(id)
	now := strconv.FormatInt(p.now().UnixMilli(), 10)
	z := redis.Z{Score: float64(job.Priority), Member: member}

	_, err = p.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, p.key("job", idStr),
			"max_attempts", "1",
			"type", job.Topic,
			"created_at", now,
			"promote_at", now,
			"updated_at", now,
			"priority", strconv.Itoa(int(job.Priority)),
			"data", string(data),
			"state", "inactive",
		)
		pipe.ZAdd(ctx, p.key("jobs"), z)
		pipe.ZAdd(ctx, p.key("jobs", "inactive"), z)
		pipe.ZAdd(ctx, p.key("jobs", job.Topic, "inactive"), z)
		pipe.SAdd(ctx, p.key("job", "types"), job.Topic)
		pipe.LPush(ctx, p.key(job.Topic, "jobs"), 1)
		return nil
	})
	return err
}

// Close redis客户端由调用方管理
func (p *RedisPublisher) Close() error {
	return nil
}

// fifo 生成有序集合成员：两位长度前缀 + "|" + id，保证同优先级按id先后出队
func fifo(id int64) string {
	s := strconv.FormatInt(id, 10)
	return fmt.Sprintf("%02d|%s", len(s), s)
}
