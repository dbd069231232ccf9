package api

import (
	"github.com/jpashop-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSimpleOrdersV1 返回订单实体（会员与配送逐个加载）
func (h *Handler) GetSimpleOrdersV1(c *gin.Context) {
	orders, err := h.OrderQueryService.SimpleOrdersV1(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetSimpleOrdersV2 实体转 DTO
func (h *Handler) GetSimpleOrdersV2(c *gin.Context) {
	orders, err := h.OrderQueryService.SimpleOrdersV2(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetSimpleOrdersV3 fetch join 后转 DTO
func (h *Handler) GetSimpleOrdersV3(c *gin.Context) {
	orders, err := h.OrderQueryService.SimpleOrdersV3(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetSimpleOrdersV4 直接查询 DTO
func (h *Handler) GetSimpleOrdersV4(c *gin.Context) {
	orders, err := h.OrderQueryService.SimpleOrdersV4(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV1 返回订单实体（含订单项与商品）
func (h *Handler) GetOrdersV1(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV1(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV2 实体转 DTO，关联逐行加载
func (h *Handler) GetOrdersV2(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV2(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV3 单条 join 取回整图
func (h *Handler) GetOrdersV3(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV3(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV3Page 分页查询，订单项批量加载
func (h *Handler) GetOrdersV3Page(c *gin.Context) {
	offset, limit, err := parseOffsetLimit(c)
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	orders, err := h.OrderQueryService.OrdersV3Page(c.Request.Context(), offset, limit)
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV4 DTO 投影（1 + N）
func (h *Handler) GetOrdersV4(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV4(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV5 DTO 投影，订单项 IN 查询
func (h *Handler) GetOrdersV5(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV5(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}

// GetOrdersV6 单条展开查询后分组
func (h *Handler) GetOrdersV6(c *gin.Context) {
	orders, err := h.OrderQueryService.OrdersV6(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules)
		return
	}
	response.List(c, orders)
}
