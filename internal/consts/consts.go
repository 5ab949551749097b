package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"
	UserID    = "user_id"
	// TradeCtx load 阶段查到的trade在gin.Context中的key
	TradeCtx    = "trade_ctx"
	JWTTokenCtx = "token_ctx"
)

const (
	// 交易创建后投递的事件
	TopicEvent     = "event"
	EventTypeTrade = "trade"

	DefaultListLimit = 60
	DefaultListSkip  = 0
)

const RequestIdHeader = "X-Request-Id"
