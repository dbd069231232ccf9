package service

import (
	"context"
	"strings"

	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
)

// ItemService 商品服务
type ItemService struct {
	itemRepo repository.ItemRepository
}

// NewItemService 创建商品服务
func NewItemService(itemRepo repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// SaveItem 新建商品
func (s *ItemService) SaveItem(ctx context.Context, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return err
	}
	logger.Ctx(ctx).Infow("item_saved", "item_id", item.ID, "name", item.Name)
	return nil
}

// FindItems 获取全部商品
func (s *ItemService) FindItems(ctx context.Context) ([]models.Item, error) {
	return s.itemRepo.FindAll(ctx)
}

func validateItem(item *models.Item) error {
	if item == nil || strings.TrimSpace(item.Name) == "" {
		return ErrInvalidItem
	}
	if item.Price.IsNegative() || item.StockQuantity < 0 {
		return ErrInvalidItem
	}
	return nil
}
