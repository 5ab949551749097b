package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tradeflow/internal/consts"
	"tradeflow/pkg/response"
	"tradeflow/utils/uuid"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
)

// NoCache 控制客户端不要使用缓存
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, max-age=0, must-revalidate")
		c.Header("Expires", "Thu, 01 Jan 1970 00:00:00 GMT")
		c.Header("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		c.Next()
	}
}

// Options 处理跨域预检请求
func Options() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.ToUpper(c.Request.Method) != "OPTIONS" {
			c.Next()
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			c.Header("Access-Control-Allow-Headers", "authorization, origin, content-type, accept")
			c.Header("Allow", "HEAD,GET,POST,PUT,PATCH,DELETE,OPTIONS")
			c.Header("Content-Type", "application/json")
			c.AbortWithStatus(http.StatusOK)
		}
	}
}

// Secure 添加安全控制和资源访问
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000")
		}
		c.Next()
	}
}

// RequestId 用来设置和透传requestId
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(consts.RequestIdHeader)
		if requestId == "" {
			requestId = uuid.GenUUID16()
		}
		c.Header(consts.RequestIdHeader, requestId)

		// 设置requestId到context中，便于后面调用链的透传
		c.Set(consts.RequestId, requestId)
		c.Next()
	}
}

// AntiDuplicate 防止同一个ip在 window 内重复提交相同的请求（方法、路径、body 都相同）
// 使用 golang-lru 限制缓存大小，并发安全
func AntiDuplicate(window time.Duration, size int) gin.HandlerFunc {
	reqCache, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return func(c *gin.Context) {
		key := requestKey(c)
		if value, ok := reqCache.Get(key); ok {
			lastRequestTime := value.(time.Time)
			if time.Since(lastRequestTime) < window {
				response.TooManyRequests(c)
				c.Abort()
				return
			}
		}

		// Hit 或 Miss 都会更新时间戳
		reqCache.Add(key, time.Now())
		c.Next()
	}
}

func requestKey(c *gin.Context) string {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	return fmt.Sprintf("%s|%s|%s|%x", c.ClientIP(), c.Request.Method, c.Request.URL.Path, xxhash.Sum64(body))
}
