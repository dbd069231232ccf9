package api

import "github.com/jpashop-api/internal/provider"

// Handler 订单查询接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
