package router

import (
	"tradeflow/internal/handler/trade"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	tradeHandler *trade.Handler
	// 写接口的前置中间件，如鉴权
	writeGuards []gin.HandlerFunc
	// 仅用于创建接口，如防重复提交
	createGuards []gin.HandlerFunc
}

func NewApiRouter(th *trade.Handler) *ApiRouter {
	return &ApiRouter{tradeHandler: th}
}

// WithWriteGuards 为 POST/PUT/DELETE 增加中间件
func (api *ApiRouter) WithWriteGuards(hs ...gin.HandlerFunc) *ApiRouter {
	api.writeGuards = append(api.writeGuards, hs...)
	return api
}

// WithCreateGuards 为 POST /trades 增加中间件
func (api *ApiRouter) WithCreateGuards(hs ...gin.HandlerFunc) *ApiRouter {
	api.createGuards = append(api.createGuards, hs...)
	return api
}

func (api *ApiRouter) chain(guards []gin.HandlerFunc, hs ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+len(hs))
	out = append(out, guards...)
	return append(out, hs...)
}

func (api *ApiRouter) Load(g *gin.Engine) {
	th := api.tradeHandler

	t := g.Group("/trades")
	{
		t.GET("", th.TradeGetList())
		t.GET("/symbol/:symbol", th.TradeGetListBySymbol())
		t.POST("", append(api.chain(api.writeGuards, api.createGuards...), th.TradeCreate())...)

		// 先 load，不存在时直接返回404，后续 handler 不再执行
		t.GET("/:id", th.TradeLoad(), th.TradeGet())
		t.PUT("/:id", api.chain(api.writeGuards, th.TradeLoad(), th.TradeUpdate())...)
		t.DELETE("/:id", api.chain(api.writeGuards, th.TradeLoad(), th.TradeRemove())...)
	}
}
