package main

import (
	"github.com/hibiken/asynq"

	bookJob "bookstore-marketplace/internal/domains/book/job"
	paymentJob "bookstore-marketplace/internal/domains/payment/job"
	emailJob "bookstore-marketplace/internal/infrastructure/email/job"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Payment
	expireIntent *paymentJob.ExpireIntentHandler
	sweepIntents *paymentJob.SweepIntentsHandler

	// Email
	paymentReceipt *emailJob.PaymentReceiptHandler

	// Book cover
	processCover *bookJob.ProcessCoverHandler
	deleteCover  *bookJob.DeleteCoverHandler
}

func initializeHandlers(c *container.Container, cfg *workerConfig) *HandlerRegistry {
	return &HandlerRegistry{
		expireIntent: paymentJob.NewExpireIntentHandler(c.PaymentService),
		sweepIntents: paymentJob.NewSweepIntentsHandler(c.PaymentService, cfg.Job.ExpireBatchLimit),

		paymentReceipt: emailJob.NewPaymentReceiptHandler(c.Email, c.Recipients),

		processCover: bookJob.NewProcessCoverHandler(c.CoverService),
		deleteCover:  bookJob.NewDeleteCoverHandler(c.CoverService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Payment tasks
	mux.HandleFunc(shared.TypeExpirePaymentIntent, h.expireIntent.ProcessTask)
	mux.HandleFunc(shared.TypeSweepExpiredIntents, h.sweepIntents.ProcessTask)

	// Email tasks
	mux.HandleFunc(shared.TypeSendPaymentReceipt, h.paymentReceipt.ProcessTask)

	// Book cover tasks
	mux.HandleFunc(shared.TypeProcessBookCover, h.processCover.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteBookCover, h.deleteCover.ProcessTask)
}
