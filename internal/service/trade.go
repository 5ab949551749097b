package service

import (
	"context"
	"sync"
	"time"

	"tradeflow/internal/consts"
	"tradeflow/internal/dao"
	"tradeflow/internal/model"
	"tradeflow/internal/model/entity"
	"tradeflow/pkg/errors"
	"tradeflow/pkg/errors/ecode"
	"tradeflow/pkg/logger"
	"tradeflow/pkg/queue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ TradeService = (*tradeService)(nil)

const defaultPublishTimeout = 5 * time.Second

type TradeService interface {
	// 加载交易，不存在时返回 ecode.NotFoundErr
	TradeLoad(ctx context.Context, tranId string) (*entity.Trade, error)
	// 创建交易，成功后异步投递 trade 事件
	TradeCreateNew(ctx context.Context, req model.TradeCreateReq) (*entity.Trade, error)
	TradeUpdate(ctx context.Context, tranId string, req model.TradeUpdateReq) (*entity.Trade, error)
	TradeGetList(ctx context.Context, req model.TradeListReq) ([]entity.Trade, error)
	TradeGetListBySymbol(ctx context.Context, symbol string) ([]entity.Trade, error)
	TradeRemove(ctx context.Context, tranId string) (*entity.Trade, error)
	// 等待所有投递中的事件结束
	Drain(ctx context.Context) error
}

type tradeService struct {
	d              dao.TradeDao
	publisher      queue.Publisher
	publishTimeout time.Duration
	wg             sync.WaitGroup
}

func NewTradeService(d dao.TradeDao, publisher queue.Publisher, publishTimeout time.Duration) *tradeService {
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	return &tradeService{d: d, publisher: publisher, publishTimeout: publishTimeout}
}

func (s *tradeService) TradeLoad(ctx context.Context, tranId string) (*entity.Trade, error) {
	t, err := s.d.TradeGetByTranId(ctx, tranId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithCode(ecode.NotFoundErr, "trade %s not found", tranId)
		}
		return nil, err
	}
	return t, nil
}

func (s *tradeService) TradeCreateNew(ctx context.Context, req model.TradeCreateReq) (*entity.Trade, error) {
	t := &entity.Trade{TranId: req.TranId}
	req.Apply(t)

	if err := s.d.TradeCreateNew(ctx, t); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, t)
	return t, nil
}

// publishCreated 不等待投递结果，失败只记录日志，不影响创建结果
func (s *tradeService) publishCreated(ctx context.Context, t *entity.Trade) {
	job := queue.Job{
		Topic:    consts.TopicEvent,
		Data:     model.NewTradeEvent(t),
		Priority: queue.PriorityNormal,
	}
	// 请求结束后 ctx 会被取消（gin.Context 还会被复用），这里只取出 requestId
	reqId, _ := ctx.Value(consts.RequestId).(string)
	tranId := t.TranId

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(pctx, job); err != nil {
			logger.Error("[Trade Event] publish failed",
				logger.Pair(consts.RequestId, reqId),
				logger.Pair("tran_id", tranId),
				logger.Pair("topic", job.Topic),
				zap.Error(err))
			return
		}
		logger.Debug("[Trade Event] published",
			logger.Pair(consts.RequestId, reqId),
			logger.Pair("tran_id", tranId))
	}()
}

func (s *tradeService) TradeUpdate(ctx context.Context, tranId string, req model.TradeUpdateReq) (*entity.Trade, error) {
	var t entity.Trade
	req.Apply(&t)
	return s.d.TradeUpdate(ctx, tranId, &t)
}

func (s *tradeService) TradeGetList(ctx context.Context, req model.TradeListReq) ([]entity.Trade, error) {
	return s.d.TradeGetList(ctx, req.Limit, req.Skip)
}

func (s *tradeService) TradeGetListBySymbol(ctx context.Context, symbol string) ([]entity.Trade, error) {
	return s.d.TradeGetListBySymbol(ctx, symbol)
}

func (s *tradeService) TradeRemove(ctx context.Context, tranId string) (*entity.Trade, error) {
	return s.d.TradeDelete(ctx, tranId)
}

func (s *tradeService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
