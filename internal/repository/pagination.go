package repository

import (
	"github.com/jpashop-api/internal/constants"

	"gorm.io/gorm"
)

// applyOffsetLimit 应用 offset/limit，limit < 0 表示不限制条数。
func applyOffsetLimit(query *gorm.DB, offset, limit int) *gorm.DB {
	if query == nil {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	if limit >= 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

func normalizeMaxResults(maxResults int) int {
	if maxResults <= 0 {
		return constants.DefaultMaxResults
	}
	return maxResults
}

// chunkIDs 按批大小切分 ID 列表
func chunkIDs(ids []uint, size int) [][]uint {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 {
		size = constants.DefaultBatchFetchSize
	}
	chunks := make([][]uint, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// uniqueIDs 去重并保持首次出现顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
