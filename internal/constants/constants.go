package constants

// 订单状态常量
const (
	OrderStatusOrder  = "ORDER"
	OrderStatusCancel = "CANCEL"
)

// 配送状态常量
const (
	DeliveryStatusReady    = "READY"
	DeliveryStatusComplete = "COMP"
)

// 异步任务常量
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
)

// 查询默认值
const (
	DefaultBatchFetchSize = 100
	DefaultMaxResults     = 1000
	DefaultPageOffset     = 0
	DefaultPageLimit      = 100
)
