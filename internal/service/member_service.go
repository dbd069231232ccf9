package service

import (
	"context"
	"strings"

	"github.com/jpashop-api/internal/logger"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
)

// MemberService 会员服务
type MemberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService 创建会员服务
func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// Join 会员注册，会员名不可重复
func (s *MemberService) Join(ctx context.Context, name string, address models.Address) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidMember
	}
	existing, err := s.memberRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateMember
	}
	member := &models.Member{
		Name:    name,
		Address: models.NewAddress(address.City, address.Street, address.Zipcode),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Infow("member_joined", "member_id", member.ID, "name", member.Name)
	return member, nil
}

// FindMembers 获取全部会员
func (s *MemberService) FindMembers(ctx context.Context) ([]models.Member, error) {
	return s.memberRepo.FindAll(ctx)
}
