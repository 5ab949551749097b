package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tradeflow/internal/model"
	"tradeflow/internal/model/entity"
	"tradeflow/pkg/errors"
	"tradeflow/pkg/errors/ecode"
	"tradeflow/pkg/queue"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memTradeDao 内存实现，err 不为空时所有操作直接返回该错误
type memTradeDao struct {
	mu     sync.Mutex
	trades map[string]entity.Trade
	nextId int64
	err    error
}

func newMemTradeDao() *memTradeDao {
	return &memTradeDao{trades: make(map[string]entity.Trade)}
}

func (m *memTradeDao) TradeGetByTranId(_ context.Context, tranId string) (*entity.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.trades[tranId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (m *memTradeDao) TradeCreateNew(_ context.Context, trade *entity.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.trades[trade.TranId]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextId++
	trade.Id = m.nextId
	m.trades[trade.TranId] = *trade
	return nil
}

func (m *memTradeDao) TradeUpdate(_ context.Context, tranId string, trade *entity.Trade) (*entity.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	old, ok := m.trades[tranId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	updated := *trade
	updated.Id = old.Id
	updated.TranId = tranId
	m.trades[tranId] = updated
	return &updated, nil
}

func (m *memTradeDao) TradeDelete(_ context.Context, tranId string) (*entity.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.trades[tranId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(m.trades, tranId)
	return &t, nil
}

func (m *memTradeDao) TradeGetList(context.Context, int, int) ([]entity.Trade, error) {
	return nil, m.err
}

func (m *memTradeDao) TradeGetListBySymbol(context.Context, string) ([]entity.Trade, error) {
	return nil, m.err
}

// recordPublisher 记录投递的任务，release 不为空时阻塞到 release 关闭
type recordPublisher struct {
	mu      sync.Mutex
	jobs    []queue.Job
	err     error
	release chan struct{}
}

func (p *recordPublisher) Publish(ctx context.Context, job queue.Job) error {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return p.err
}

func (p *recordPublisher) Close() error { return nil }

func (p *recordPublisher) Jobs() []queue.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.Job(nil), p.jobs...)
}

func createReq() model.TradeCreateReq {
	datetime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.TradeCreateReq{
		TranId: "T1",
		TradeUpdateReq: model.TradeUpdateReq{
			Datetime:   &datetime,
			Status:     "filled",
			SymbolBuy:  "BTC",
			SymbolSell: "USDT",
			Type:       "limit",
			Side:       "buy",
			Price:      decimal.RequireFromString("100"),
			Amount:     decimal.RequireFromString("2"),
			Fee:        decimal.RequireFromString("0.1"),
			Exchange:   "EX1",
		},
	}
}

func drain(t *testing.T, s *tradeService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx))
}

func TestTradeService_TradeCreateNew_PublishesEvent(t *testing.T) {
	pub := &recordPublisher{}
	s := NewTradeService(newMemTradeDao(), pub, time.Second)

	trade, err := s.TradeCreateNew(context.Background(), createReq())
	require.NoError(t, err)
	assert.Equal(t, "T1", trade.TranId)
	assert.True(t, trade.Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "EX1", trade.Exchange)

	drain(t, s)
	jobs := pub.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "event", jobs[0].Topic)
	assert.Equal(t, queue.PriorityNormal, jobs[0].Priority)

	event, ok := jobs[0].Data.(model.TradeEvent)
	require.True(t, ok)
	assert.Equal(t, "trade", event.Type)
	assert.Equal(t, "EX1", event.Values.Exchange)
	assert.Equal(t, "T1", event.Values.TranId)
	assert.Equal(t, "buy", event.Values.Side)
	assert.True(t, event.Values.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, event.Values.Amount.Equal(decimal.NewFromInt(2)))
	assert.True(t, event.Values.Fee.Equal(decimal.RequireFromString("0.1")))

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(body), `"side"`))
	assert.Contains(t, string(body), `"price":100`)
	assert.Contains(t, string(body), `"fee":0.1`)
}

func TestTradeService_TradeCreateNew_PublishFailureIgnored(t *testing.T) {
	pub := &recordPublisher{err: stderrors.New("broker unavailable")}
	s := NewTradeService(newMemTradeDao(), pub, time.Second)

	trade, err := s.TradeCreateNew(context.Background(), createReq())
	require.NoError(t, err)
	assert.Equal(t, "T1", trade.TranId)

	drain(t, s)
	assert.Len(t, pub.Jobs(), 1)
}

func TestTradeService_TradeCreateNew_DoesNotWaitForPublisher(t *testing.T) {
	pub := &recordPublisher{release: make(chan struct{})}
	s := NewTradeService(newMemTradeDao(), pub, 5*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.TradeCreateNew(context.Background(), createReq())
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("create blocked on publish")
	}
	assert.Empty(t, pub.Jobs())

	// 投递未完成时 Drain 应该超时
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.DeadlineExceeded)

	close(pub.release)
	drain(t, s)
	assert.Len(t, pub.Jobs(), 1)
}

func TestTradeService_TradeCreateNew_StoreErrorSkipsEvent(t *testing.T) {
	d := newMemTradeDao()
	pub := &recordPublisher{}
	s := NewTradeService(d, pub, time.Second)

	_, err := s.TradeCreateNew(context.Background(), createReq())
	require.NoError(t, err)

	_, err = s.TradeCreateNew(context.Background(), createReq())
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	drain(t, s)
	assert.Len(t, pub.Jobs(), 1)
}

func TestTradeService_TradeLoad(t *testing.T) {
	d := newMemTradeDao()
	s := NewTradeService(d, &recordPublisher{}, time.Second)
	ctx := context.Background()

	created, err := s.TradeCreateNew(ctx, createReq())
	require.NoError(t, err)
	drain(t, s)

	loaded, err := s.TradeLoad(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, created.Id, loaded.Id)

	_, err = s.TradeLoad(ctx, "missing")
	code, _ := errors.DecodeErr(err)
	assert.Equal(t, ecode.NotFoundErr, code)

	// 其他存储错误原样返回
	storeErr := stderrors.New("connection reset")
	d.err = storeErr
	_, err = s.TradeLoad(ctx, "T1")
	assert.Equal(t, storeErr, err)
}

func TestTradeService_UpdateAndRemove(t *testing.T) {
	d := newMemTradeDao()
	s := NewTradeService(d, &recordPublisher{}, time.Second)
	ctx := context.Background()

	_, err := s.TradeCreateNew(ctx, createReq())
	require.NoError(t, err)
	drain(t, s)

	updated, err := s.TradeUpdate(ctx, "T1", model.TradeUpdateReq{Status: "cancelled", Side: "sell"})
	require.NoError(t, err)
	assert.Equal(t, "T1", updated.TranId)
	assert.Equal(t, "cancelled", updated.Status)
	assert.Equal(t, "", updated.Exchange)
	assert.True(t, updated.Price.IsZero())

	removed, err := s.TradeRemove(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", removed.Status)

	_, err = s.TradeLoad(ctx, "T1")
	code, _ := errors.DecodeErr(err)
	assert.Equal(t, ecode.NotFoundErr, code)

	_, err = s.TradeRemove(ctx, "T1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
