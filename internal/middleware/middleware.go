package middleware

import (
	"tradeflow/internal/handler/ping"

	"github.com/gin-gonic/gin"
)

// Middleware 全局中间件和健康检查路由，需在业务路由之前加载
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

func (m *Middleware) Load(g *gin.Engine) {
	g.Use(RequestId(), Logger, Recovery(), ErrorHandler(), NoCache(), Options(), Secure())
	g.GET("/ping", ping.Ping())
}
