package middleware

import (
	"tradeflow/internal/consts"
	"tradeflow/pkg/errors"
	"tradeflow/pkg/errors/ecode"
	"tradeflow/pkg/logger"
	"tradeflow/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorHandler 统一处理 handler 通过 c.Error 抛出的错误
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			err = errors.Wrap(err, ecode.NotFoundErr, "record not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			err = errors.Wrap(err, ecode.ConflictErr, "duplicate record")
		}

		if code, _ := errors.DecodeErr(err); code == ecode.Unknown {
			logger.Error("[Request Error]",
				logger.Pair(consts.RequestId, c.GetString(consts.RequestId)),
				logger.Pair("path", c.Request.URL.Path),
				zap.Error(err))
		}
		response.JSON(c, err, nil)
	}
}

// Recovery panic 后记录日志并返回500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("[Panic Recovered]",
			logger.Pair(consts.RequestId, c.GetString(consts.RequestId)),
			logger.Pair("path", c.Request.URL.Path),
			logger.Pair("panic", recovered),
			zap.Stack("stack"))
		response.JSON(c, errors.WithCode(ecode.Unknown, "internal server error"), nil)
		c.Abort()
	})
}
