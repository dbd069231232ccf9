package fetchlab

import (
	"github.com/jpashop-api/internal/repository"
	"github.com/jpashop-api/internal/service"

	"gorm.io/gorm"
)

// NewSampleSeeder 在实验库上组装会员、商品与订单服务，示例数据走正常下单流程；实验不投递队列通知
func NewSampleSeeder(db *gorm.DB) *service.SampleSeeder {
	memberRepo := repository.NewMemberRepository(db)
	itemRepo := repository.NewItemRepository(db)
	return service.NewSampleSeeder(
		service.NewMemberService(memberRepo),
		service.NewItemService(itemRepo),
		service.NewOrderService(db, repository.NewOrderRepository(db), memberRepo, itemRepo, nil),
	)
}
