package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	orderModel "bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/domains/payment/gateway"
	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/domains/payment/repository"
	emailJob "bookstore-marketplace/internal/infrastructure/email/job"
	"bookstore-marketplace/internal/infrastructure/events"
	"bookstore-marketplace/internal/infrastructure/queue"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/logger"
)

const (
	paymentCapture   = 1
	defaultIntentTTL = 15 * time.Minute
	defaultCurrency  = "INR"
)

// OrderReader - payment chỉ đọc order; payment_status được ghi qua payment repository
type OrderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*orderModel.Order, error)
}

// Options - cấu hình của saga
type Options struct {
	Currency  string
	IntentTTL time.Duration
}

type paymentService struct {
	repo      repository.Repository
	gateway   gateway.Gateway
	orders    OrderReader
	publisher events.Publisher
	queue     queue.Enqueuer
	opts      Options
	now       func() time.Time
}

func NewPaymentService(
	repo repository.Repository,
	gw gateway.Gateway,
	orders OrderReader,
	publisher events.Publisher,
	q queue.Enqueuer,
	opts Options,
) PaymentService {
	if opts.Currency == "" {
		opts.Currency = defaultCurrency
	}
	if opts.IntentTTL <= 0 {
		opts.IntentTTL = defaultIntentTTL
	}
	return &paymentService{
		repo:      repo,
		gateway:   gw,
		orders:    orders,
		publisher: publisher,
		queue:     q,
		opts:      opts,
		now:       time.Now,
	}
}

// =====================================================
// CREATE PAYMENT INTENT
// =====================================================

func (s *paymentService) CreatePaymentIntent(ctx context.Context, requester authz.Identity, req model.CreateIntentRequest) (*model.CreateIntentResponse, error) {
	// Step 1: Validate input
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	// Step 2: Saga - order phải của requester và chưa thanh toán
	var order *orderModel.Order
	amount := req.Amount
	if req.OrderID != "" {
		var err error
		order, err = s.loadPayableOrder(ctx, requester, req.OrderID)
		if err != nil {
			return nil, err
		}
		if amount == nil {
			amount = &order.TotalPrice
		} else if !amount.Equal(order.TotalPrice) {
			return nil, model.ErrAmountMismatch.WithDetails(map[string]string{
				"amount":     amount.String(),
				"totalPrice": order.TotalPrice.StringFixed(2),
			})
		}
	}
	if amount == nil || !amount.IsPositive() {
		return nil, model.ErrInvalidAmount.WithMessage("amount must be greater than 0")
	}

	// Step 3: Đổi sang minor units (x100)
	minor, err := utils.ToMinorUnits(*amount)
	if err != nil {
		return nil, model.ErrInvalidAmount.WithCause(err)
	}

	// Order đang có intent còn hạn → client trả tiếp trên intent đó, không tạo thêm
	if order != nil {
		open, err := s.reusableIntent(ctx, order.ID, minor)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return intentResponse(open), nil
		}
	}

	receiptNo, err := s.repo.NextReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}
	receipt := fmt.Sprintf("receipt#%d", receiptNo)

	// Step 4: Gọi processor, một lần, không retry
	providerOrder, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:         minor,
		Currency:       s.opts.Currency,
		Receipt:        receipt,
		PaymentCapture: paymentCapture,
	})
	if err != nil {
		logger.Error("Failed to create processor order", err)
		return nil, model.ErrUpstream.WithCause(err)
	}

	resp := &model.CreateIntentResponse{
		ID:       providerOrder.ID,
		Amount:   providerOrder.Amount,
		Currency: providerOrder.Currency,
		Receipt:  receipt,
	}
	if order == nil {
		return resp, nil
	}

	// Step 5: Persist saga record + hẹn giờ expire
	now := s.now().UTC()
	orderID := order.ID
	intent := &model.PaymentIntent{
		ID:              uuid.New(),
		ProviderOrderID: providerOrder.ID,
		OrderID:         &orderID,
		UserID:          requester.UserID,
		Amount:          minor,
		Currency:        s.opts.Currency,
		Receipt:         receipt,
		Status:          model.IntentCreated,
		ExpiresAt:       now.Add(s.opts.IntentTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateIntent(ctx, intent); err != nil {
		if !errors.Is(err, model.ErrIntentInProgress) {
			return nil, fmt.Errorf("persist payment intent: %w", err)
		}
		// request khác vừa tạo intent cho order này, processor order mới bỏ đi
		open, findErr := s.reusableIntent(ctx, orderID, minor)
		if findErr != nil || open == nil {
			return nil, err
		}
		return intentResponse(open), nil
	}

	s.scheduleExpiry(ctx, intent)

	logger.Info("Payment intent created", map[string]interface{}{
		"intent_id":         intent.ID.String(),
		"provider_order_id": intent.ProviderOrderID,
		"order_id":          orderID.String(),
		"amount":            minor,
	})
	return resp, nil
}

func (s *paymentService) loadPayableOrder(ctx context.Context, requester authz.Identity, rawID string) (*orderModel.Order, error) {
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	if !requester.Owns(order.UserID) {
		return nil, model.ErrOrderNotOwned
	}
	if order.PaymentStatus == orderModel.PaymentPaid {
		return nil, model.ErrOrderAlreadyPaid
	}
	if order.Status == orderModel.StatusCancelled {
		return nil, model.ErrOrderCancelled
	}
	return order, nil
}

func (s *paymentService) reusableIntent(ctx context.Context, orderID uuid.UUID, amount int64) (*model.PaymentIntent, error) {
	open, err := s.repo.FindOpenByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, model.ErrIntentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !open.ReusableFor(amount, s.now().UTC()) {
		return nil, nil
	}
	return open, nil
}

func intentResponse(p *model.PaymentIntent) *model.CreateIntentResponse {
	return &model.CreateIntentResponse{
		ID:       p.ProviderOrderID,
		Amount:   p.Amount,
		Currency: p.Currency,
		Receipt:  p.Receipt,
	}
}

// scheduleExpiry - enqueue lỗi thì sweep sẽ bắt lại
func (s *paymentService) scheduleExpiry(ctx context.Context, intent *model.PaymentIntent) {
	task, err := utils.NewTask(shared.TypeExpirePaymentIntent, model.ExpireIntentPayload{IntentID: intent.ID.String()},
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(3),
	)
	if err == nil {
		_, err = s.queue.EnqueueContext(ctx, task, asynq.ProcessIn(s.opts.IntentTTL))
	}
	if err != nil {
		logger.Warn("Failed to schedule intent expiry", map[string]interface{}{
			"intent_id": intent.ID.String(),
			"error":     err.Error(),
		})
	}
}

// =====================================================
// VERIFY PAYMENT
// =====================================================

func (s *paymentService) VerifyPayment(ctx context.Context, requester authz.Identity, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.failOnMismatch(ctx, requester, req.OrderID)
		return nil, model.ErrSignatureMismatch
	}

	resp := &model.VerifyPaymentResponse{
		Verified:  true,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
	}

	tr, err := s.repo.MarkVerified(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		// processor order tạo không kèm orderId thì không có saga record
		if errors.Is(err, model.ErrIntentNotFound) {
			return resp, nil
		}
		return nil, err
	}

	intent := tr.Intent
	resp.Receipt = &intent.Receipt
	if !tr.Changed {
		return resp, nil
	}

	s.publish(ctx, shared.TopicOrderPaymentVerified, eventKey(intent), events.EventOrderPaymentVerified, model.PaymentVerifiedPayload{
		OrderID:         orderIDString(intent),
		IntentID:        intent.ID.String(),
		ProviderOrderID: intent.ProviderOrderID,
		PaymentID:       req.PaymentID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	})
	s.enqueueReceipt(ctx, intent, req.PaymentID)

	logger.Info("Payment verified", map[string]interface{}{
		"intent_id":  intent.ID.String(),
		"order_id":   orderIDString(intent),
		"payment_id": req.PaymentID,
	})
	return resp, nil
}

// failOnMismatch - chỉ chủ intent (hoặc Admin) mới làm intent failed được
func (s *paymentService) failOnMismatch(ctx context.Context, requester authz.Identity, providerOrderID string) {
	intent, err := s.repo.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if !errors.Is(err, model.ErrIntentNotFound) {
			logger.Error("Failed to load intent on signature mismatch", err)
		}
		return
	}
	if intent.Status.IsTerminal() || (!requester.IsAdmin() && !requester.Owns(intent.UserID)) {
		return
	}

	tr, err := s.repo.MarkFailed(ctx, providerOrderID, "signature mismatch")
	if err != nil {
		logger.Error("Failed to mark intent failed", err)
		return
	}
	if tr.Changed {
		s.publishFailed(ctx, tr.Intent, "signature mismatch")
	}
}

func (s *paymentService) enqueueReceipt(ctx context.Context, intent *model.PaymentIntent, paymentID string) {
	task, err := utils.NewTask(shared.TypeSendPaymentReceipt, emailJob.PaymentReceiptPayload{
		UserID:          intent.UserID.String(),
		Receipt:         intent.Receipt,
		ProviderOrderID: intent.ProviderOrderID,
		PaymentID:       paymentID,
		AmountMinor:     intent.Amount,
		Currency:        intent.Currency,
	}, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(5))
	if err == nil {
		_, err = s.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		logger.Warn("Failed to enqueue payment receipt", map[string]interface{}{
			"intent_id": intent.ID.String(),
			"error":     err.Error(),
		})
	}
}

// =====================================================
// EXPIRY (WORKER)
// =====================================================

func (s *paymentService) ExpireIntent(ctx context.Context, intentID uuid.UUID) (bool, error) {
	tr, err := s.repo.Expire(ctx, intentID)
	if err != nil {
		return false, err
	}
	if !tr.Changed {
		return false, nil
	}

	s.publishFailed(ctx, tr.Intent, "expired")
	logger.Info("Payment intent expired", map[string]interface{}{
		"intent_id": intentID.String(),
		"order_id":  orderIDString(tr.Intent),
	})
	return true, nil
}

func (s *paymentService) SweepExpired(ctx context.Context, limit int) (int, error) {
	stale, err := s.repo.ListStale(ctx, s.now().UTC(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, intent := range stale {
		changed, err := s.ExpireIntent(ctx, intent.ID)
		if err != nil {
			logger.Error("Failed to expire stale intent", err)
			continue
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}

// =====================================================
// EVENTS
// =====================================================

func (s *paymentService) publishFailed(ctx context.Context, intent *model.PaymentIntent, reason string) {
	s.publish(ctx, shared.TopicOrderPaymentFailed, eventKey(intent), events.EventOrderPaymentFailed, model.PaymentFailedPayload{
		OrderID:         orderIDString(intent),
		IntentID:        intent.ID.String(),
		ProviderOrderID: intent.ProviderOrderID,
		Reason:          reason,
	})
}

func (s *paymentService) publish(ctx context.Context, topic, key, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, topic, key, eventType, payload); err != nil {
		logger.Warn("Failed to publish payment event", map[string]interface{}{
			"topic": topic,
			"key":   key,
			"error": err.Error(),
		})
	}
}

// eventKey - key theo order id để event cùng order giữ thứ tự
func eventKey(intent *model.PaymentIntent) string {
	if intent.OrderID != nil {
		return intent.OrderID.String()
	}
	return intent.ProviderOrderID
}

func orderIDString(intent *model.PaymentIntent) string {
	if intent.OrderID == nil {
		return ""
	}
	return intent.OrderID.String()
}
