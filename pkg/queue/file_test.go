package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	p, err := NewFilePublisher(path)
	require.NoError(t, err)
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }

	err = p.Publish(context.Background(), Job{Topic: "event", Data: map[string]string{"type": "trade"}, Priority: PriorityHigh})
	require.NoError(t, err)
	assert.Error(t, p.Publish(context.Background(), Job{}))
	require.NoError(t, p.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"event","priority":"high","created_at":1700000000000,"data":{"type":"trade"}}`, string(b))
}
