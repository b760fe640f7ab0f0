package shared

// Asynq task types
const (
	TypeExpirePaymentIntent = "payment:expire_intent"
	TypeSweepExpiredIntents = "payment:sweep_expired_intents"
	TypeSendPaymentReceipt  = "email:payment_receipt"
	TypeProcessBookCover    = "book:process_cover"
	TypeDeleteBookCover     = "book:delete_cover"
)

// Asynq queues (priority cấu hình ở cmd/worker)
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Kafka topics cho order lifecycle
const (
	TopicOrderCreated         = "order.created"
	TopicOrderStatusChanged   = "order.status_changed"
	TopicOrderPaymentVerified = "order.payment_verified"
	TopicOrderPaymentFailed   = "order.payment_failed"
)

// User basic info (để tránh import cycle với user domain)
type UserBasicInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
