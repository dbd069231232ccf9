package api

import (
	"strconv"
	"strings"

	"github.com/jpashop-api/internal/constants"
	"github.com/jpashop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// parseOffsetLimit 解析 offset/limit 查询参数，缺省为 0 与 100
func parseOffsetLimit(c *gin.Context) (int, int, error) {
	offset, err := parseNonNegativeQuery(c, "offset", constants.DefaultPageOffset)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parseNonNegativeQuery(c, "limit", constants.DefaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

func parseNonNegativeQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, service.ErrInvalidPagination
	}
	return value, nil
}
