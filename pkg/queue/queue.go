package queue

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Priority 任务优先级，数值越小越优先（与kue一致）
type Priority int

const (
	PriorityLow      Priority = 10
	PriorityNormal   Priority = 0
	PriorityMedium   Priority = -5
	PriorityHigh     Priority = -10
	PriorityCritical Priority = -15
)

var priorityNames = map[string]Priority{
	"low":      PriorityLow,
	"normal":   PriorityNormal,
	"medium":   PriorityMedium,
	"high":     PriorityHigh,
	"critical": PriorityCritical,
}

// ParsePriority 支持名称（normal、high…）或数字
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := priorityNames[s]; ok {
		return p, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return PriorityNormal, fmt.Errorf("invalid priority %q", s)
	}
	return Priority(n), nil
}

func (p Priority) String() string {
	for name, v := range priorityNames {
		if v == p {
			return name
		}
	}
	return strconv.Itoa(int(p))
}

// Job 一条待投递的任务，Data 会被序列化成json
type Job struct {
	Topic    string
	Data     interface{}
	Priority Priority
}

// Publisher 事件队列的投递端
// 定义接口，方便测试和替换
type Publisher interface {
	Publish(ctx context.Context, job Job) error
	Close() error
}
