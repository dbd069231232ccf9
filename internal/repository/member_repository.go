package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jpashop-api/internal/models"

	"gorm.io/gorm"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id uint) (*models.Member, error)
	FindByName(ctx context.Context, name string) ([]models.Member, error)
	FindAll(ctx context.Context) ([]models.Member, error)
	WithTx(tx *gorm.DB) MemberRepository
}

// GormMemberRepository GORM 实现
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓库
func NewMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMemberRepository) WithTx(tx *gorm.DB) MemberRepository {
	if tx == nil {
		return r
	}
	return &GormMemberRepository{db: tx}
}

// Create 创建会员
func (r *GormMemberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Omit("Orders").Create(member).Error
}

// FindByID 根据 ID 获取会员
func (r *GormMemberRepository) FindByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindByName 按名称精确查询
func (r *GormMemberRepository) FindByName(ctx context.Context, name string) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		Order("id asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindAll 获取全部会员
func (r *GormMemberRepository) FindAll(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("id asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
