package shared

// Asynq task types
const (
	TypeSendOrderConfirmation = "order:send_confirmation"
	TypeExpireUnpaidOrder     = "order:expire_unpaid"
	TypeSendPaymentSuccess    = "payment:send_success_email"
	TypeReconcilePendingMomo  = "payment:reconcile_pending_momo"
)

// Asynq queues
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
