package queue

import (
	"context"
	"errors"
	"time"

	"tradeflow/pkg/recorder"
)

// FilePublisher 把任务按行写入本地文件，用于本地开发和排查
type FilePublisher struct {
	rec *recorder.JSONFileRecorder
	now func() time.Time
}

type fileRecord struct {
	Topic     string      `json:"type"`
	Priority  string      `json:"priority"`
	CreatedAt int64       `json:"created_at"`
	Data      interface{} `json:"data"`
}

func NewFilePublisher(path string) (*FilePublisher, error) {
	rec, err := recorder.NewJSONFileRecorder(path)
	if err != nil {
		return nil, err
	}
	return &FilePublisher{rec: rec, now: time.Now}, nil
}

func (p *FilePublisher) Publish(ctx context.Context, job Job) error {
	if job.Topic == "" {
		return errors.New("queue: empty topic")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.rec.Record(fileRecord{
		Topic:     job.Topic,
		Priority:  job.Priority.String(),
		CreatedAt: p.now().UnixMilli(),
		Data:      job.Data,
	})
}

func (p *FilePublisher) Close() error {
	return p.rec.Close()
}
