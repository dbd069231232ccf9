package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey gin 上下文中的请求 ID 键
const RequestIDKey = "request_id"

// Response 错误响应结构
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码
	Msg        string      `json:"msg"`         // 提示消息
	Data       interface{} `json:"data"`        // 数据内容
}

// List 成功响应，直接输出 JSON 数组
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = make([]T, 0)
	}
	c.JSON(http.StatusOK, items)
}

// Error 错误响应，HTTP 状态码与业务码一致
func Error(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(httpStatus(statusCode), Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       attachRequestID(c, nil),
	})
}

// Fail 按 AppError 输出错误
func Fail(c *gin.Context, err error) {
	appErr := AsAppError(err)
	Error(c, appErr.Code, appErr.Message)
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// TooManyRequests 429响应
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, CodeTooManyRequests, msg)
}

// InternalError 500响应
func InternalError(c *gin.Context, msg string) {
	Error(c, CodeInternal, msg)
}

func httpStatus(code int) int {
	if code >= 400 && code < 600 {
		return code
	}
	return http.StatusInternalServerError
}

func attachRequestID(c *gin.Context, data interface{}) interface{} {
	requestID := ""
	if c != nil {
		requestID = c.GetString(RequestIDKey)
	}
	if requestID == "" {
		return data
	}
	if data == nil {
		return gin.H{"request_id": requestID}
	}
	switch v := data.(type) {
	case gin.H:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	default:
		return gin.H{
			"request_id": requestID,
			"data":       data,
		}
	}
}
