package main

import (
	"github.com/hibiken/asynq"

	orderJob "netshop-backend/internal/domains/order/job"
	paymentJob "netshop-backend/internal/domains/payment/job"
	"netshop-backend/internal/shared"
	"netshop-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Order
	sendOrderConfirmation *orderJob.SendOrderConfirmationHandler
	expireUnpaidOrder     *orderJob.ExpireUnpaidOrderHandler

	// Payment
	sendPaymentSuccess *paymentJob.SendPaymentSuccessHandler
	reconcilePending   *paymentJob.ReconcilePendingHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendOrderConfirmation: orderJob.NewSendOrderConfirmationHandler(c.OrderRepo, c.Email),
		expireUnpaidOrder:     orderJob.NewExpireUnpaidOrderHandler(c.OrderService),

		sendPaymentSuccess: paymentJob.NewSendPaymentSuccessHandler(c.Email),
		reconcilePending:   paymentJob.NewReconcilePendingHandler(c.PaymentService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOrderConfirmation, h.sendOrderConfirmation.ProcessTask)
	mux.HandleFunc(shared.TypeExpireUnpaidOrder, h.expireUnpaidOrder.ProcessTask)

	mux.HandleFunc(shared.TypeSendPaymentSuccess, h.sendPaymentSuccess.ProcessTask)
	mux.HandleFunc(shared.TypeReconcilePendingMomo, h.reconcilePending.ProcessTask)
}
