package trade

import (
	"tradeflow/internal/consts"
	"tradeflow/internal/model"
	"tradeflow/internal/model/entity"
	"tradeflow/internal/service"
	"tradeflow/pkg/errors"
	"tradeflow/pkg/errors/ecode"
	"tradeflow/pkg/response"
	"tradeflow/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type Handler struct {
	service service.TradeService
}

func NewHandler(service service.TradeService) *Handler {
	return &Handler{service: service}
}

// abort 把错误交给 middleware.ErrorHandler 统一处理，后续 handler 不再执行
func abort(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func loaded(ctx *gin.Context) *entity.Trade {
	t, _ := ctx.MustGet(consts.TradeCtx).(*entity.Trade)
	return t
}

// TradeLoad 根据 path 中的 id 加载交易，供同一请求后续的 handler 使用
func (h *Handler) TradeLoad() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t, err := h.service.TradeLoad(ctx, ctx.Param("id"))
		if err != nil {
			abort(ctx, err)
			return
		}
		ctx.Set(consts.TradeCtx, t)
		ctx.Next()
	}
}

// @Summary	获取交易
// @Produce	json
// @Param		id	path		string	true	"tran_id"
// @Success	200	{object}	entity.Trade
// @Router		/trades/{id} [get]
func (h *Handler) TradeGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response.Success(ctx, loaded(ctx))
	}
}

// @Summary	创建交易，成功后投递 trade 事件
// @Accept		json
// @Produce	json
// @Param		body	body		model.TradeCreateReq	true	"交易"
// @Success	200		{object}	entity.Trade
// @Router		/trades [post]
func (h *Handler) TradeCreate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradeCreateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			abort(ctx, errors.Wrap(err, ecode.ValidateErr, validator.Translate(err)))
			return
		}
		t, err := h.service.TradeCreateNew(ctx, req)
		if err != nil {
			abort(ctx, err)
			return
		}
		response.Success(ctx, t)
	}
}

// @Summary	整体更新交易
// @Accept		json
// @Produce	json
// @Param		id		path		string					true	"tran_id"
// @Param		body	body		model.TradeUpdateReq	true	"交易"
// @Success	200		{object}	entity.Trade
// @Router		/trades/{id} [put]
func (h *Handler) TradeUpdate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradeUpdateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			abort(ctx, errors.Wrap(err, ecode.ValidateErr, validator.Translate(err)))
			return
		}
		t, err := h.service.TradeUpdate(ctx, loaded(ctx).TranId, req)
		if err != nil {
			abort(ctx, err)
			return
		}
		response.Success(ctx, t)
	}
}

// @Summary	交易列表
// @Produce	json
// @Param		limit	query	int	false	"默认60"
// @Param		skip	query	int	false	"默认0"
// @Success	200		{array}	entity.Trade
// @Router		/trades [get]
func (h *Handler) TradeGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		req, err := listReq(ctx)
		if err != nil {
			abort(ctx, err)
			return
		}
		list, err := h.service.TradeGetList(ctx, req)
		if err != nil {
			abort(ctx, err)
			return
		}
		response.Success(ctx, list)
	}
}

func listReq(ctx *gin.Context) (model.TradeListReq, error) {
	var req model.TradeListReq
	limit, err := cast.ToIntE(ctx.DefaultQuery("limit", cast.ToString(consts.DefaultListLimit)))
	if err != nil || limit < 0 {
		return req, errors.WithCode(ecode.ValidateErr, "limit must be a non-negative integer")
	}
	skip, err := cast.ToIntE(ctx.DefaultQuery("skip", cast.ToString(consts.DefaultListSkip)))
	if err != nil || skip < 0 {
		return req, errors.WithCode(ecode.ValidateErr, "skip must be a non-negative integer")
	}
	req.Limit = limit
	req.Skip = skip
	return req, nil
}

// @Summary	根据币种获取交易（买入或卖出）
// @Produce	json
// @Param		symbol	path	string	true	"币种"
// @Success	200		{array}	entity.Trade
// @Router		/trades/symbol/{symbol} [get]
func (h *Handler) TradeGetListBySymbol() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		list, err := h.service.TradeGetListBySymbol(ctx, ctx.Param("symbol"))
		if err != nil {
			abort(ctx, err)
			return
		}
		response.Success(ctx, list)
	}
}

// @Summary	删除交易
// @Produce	json
// @Param		id	path		string	true	"tran_id"
// @Success	200	{object}	entity.Trade
// @Router		/trades/{id} [delete]
func (h *Handler) TradeRemove() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t, err := h.service.TradeRemove(ctx, loaded(ctx).TranId)
		if err != nil {
			abort(ctx, err)
			return
		}
		response.Success(ctx, t)
	}
}
