package repository

import (
	"context"
	"errors"

	"github.com/jpashop-api/internal/models"

	"gorm.io/gorm"
)

// ItemRepository 商品数据访问接口
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	Save(ctx context.Context, item *models.Item) error
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Item, error)
	FindAll(ctx context.Context) ([]models.Item, error)
	WithTx(tx *gorm.DB) ItemRepository
}

// GormItemRepository GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓库
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemRepository) WithTx(tx *gorm.DB) ItemRepository {
	if tx == nil {
		return r
	}
	return &GormItemRepository{db: tx}
}

// Create 新建商品
func (r *GormItemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save 新建或更新商品
func (r *GormItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindByIDForUpdate 加行锁读取商品，不存在时返回 nil（sqlite 不加锁）
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindAll 获取全部商品
func (r *GormItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
