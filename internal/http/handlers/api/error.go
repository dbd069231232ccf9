package api

import (
	"errors"

	"github.com/jpashop-api/internal/http/response"
	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

// orderQueryErrorRules 列表接口只会产生分页错误，其余错误统一按 500 处理
var orderQueryErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPagination, code: response.CodeBadRequest, msg: "offset and limit must be non-negative integers"},
}

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(response.RequestIDKey); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，并在有原始错误时记录日志。
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"path", c.FullPath(),
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	if errors.Is(err, service.ErrOrderGraphIncomplete) {
		respondError(c, response.CodeInternal, "order data is incomplete", err)
		return
	}
	respondError(c, response.CodeInternal, "internal server error", err)
}
