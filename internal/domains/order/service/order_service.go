package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookModel "bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/domains/order/repository"
	"bookstore-marketplace/internal/infrastructure/events"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/export"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// BookReader - order chỉ cần đọc book để snapshot giá và seller
type BookReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
}

type orderService struct {
	repo      repository.RepositoryInterface
	books     BookReader
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(repo repository.RepositoryInterface, books BookReader, publisher events.Publisher) OrderService {
	return &orderService{
		repo:      repo,
		books:     books,
		publisher: publisher,
		now:       time.Now,
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

// CreateOrder snapshot seller_id + price từ book, không trừ stock
func (s *orderService) CreateOrder(ctx context.Context, requester authz.Identity, req model.CreateOrderRequest) (*model.Order, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return nil, model.ErrInvalidBookID
	}

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        requester.UserID,
		SellerID:      book.SellerID,
		BookID:        book.ID,
		TotalPrice:    book.Price,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, shared.TopicOrderCreated, order.ID, events.EventOrderCreated, model.OrderCreatedPayload{
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		SellerID:   order.SellerID.String(),
		BookID:     order.BookID.String(),
		TotalPrice: order.TotalPrice.StringFixed(2),
	})

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"book_id":  order.BookID.String(),
	})
	return order, nil
}

// =====================================================
// READ
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	return s.repo.FindDetailByID(ctx, id)
}

func (s *orderService) ListOrdersForSeller(ctx context.Context, sellerID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error) {
	return s.list(ctx, model.OrderFilter{SellerID: &sellerID}, p)
}

func (s *orderService) ListOrdersForUser(ctx context.Context, userID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error) {
	return s.list(ctx, model.OrderFilter{UserID: &userID}, p)
}

// ListOrdersForBook - non-admin chỉ thấy order mà mình là seller
func (s *orderService) ListOrdersForBook(ctx context.Context, requester authz.Identity, bookID uuid.UUID, p catalog.Params) (catalog.Page[model.OrderDetail], error) {
	filter := model.OrderFilter{BookID: &bookID}
	if !requester.IsAdmin() {
		sellerID := requester.UserID
		filter.SellerID = &sellerID
	}
	return s.list(ctx, filter, p)
}

func (s *orderService) ListOrders(ctx context.Context, requester authz.Identity, filter model.OrderFilter, p catalog.Params) (catalog.Page[model.OrderDetail], error) {
	if !requester.Can(authz.ActionList, authz.ResourceAllOrders) {
		return catalog.Page[model.OrderDetail]{}, model.ErrListAllDenied
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return catalog.Page[model.OrderDetail]{}, model.ErrInvalidStatus
	}
	return s.list(ctx, filter, p)
}

func (s *orderService) list(ctx context.Context, filter model.OrderFilter, p catalog.Params) (catalog.Page[model.OrderDetail], error) {
	orders, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return catalog.Page[model.OrderDetail]{}, fmt.Errorf("list orders: %w", err)
	}
	return catalog.NewPage(orders, total, p), nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (s *orderService) UpdateOrder(ctx context.Context, requester authz.Identity, id uuid.UUID, req model.UpdateOrderRequest) (*model.Order, error) {
	// 1. VALIDATE INPUT
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, model.ErrEmptyUpdate
	}

	// 2. LOAD ORDER
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. OWNERSHIP
	if err := authorizeUpdate(requester, current, patch); err != nil {
		return nil, err
	}

	// 4. STATE MACHINE - cùng status thì bỏ qua
	if patch.Status != nil {
		switch {
		case *patch.Status == current.Status:
			patch.Status = nil
		case current.Status.IsTerminal():
			return nil, model.ErrOrderAlreadyClosed.WithMessage(
				fmt.Sprintf("Order is already %s", current.Status))
		case !current.Status.CanTransitionTo(*patch.Status):
			return nil, model.ErrInvalidTransition.WithMessage(
				fmt.Sprintf("Cannot change order status from %s to %s", current.Status, *patch.Status))
		default:
			// request khác đổi status trước thì repo trả ErrStatusChanged
			from := current.Status
			patch.ExpectedStatus = &from
		}
	}
	if patch.IsEmpty() {
		return current, nil
	}

	// 5. PERSIST
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		s.publish(ctx, shared.TopicOrderStatusChanged, updated.ID, events.EventOrderStatusChanged, model.OrderStatusChangedPayload{
			OrderID:   updated.ID.String(),
			From:      current.Status.String(),
			To:        updated.Status.String(),
			ChangedBy: requester.UserID.String(),
		})
	}
	return updated, nil
}

// authorizeUpdate: Admin mọi thứ, seller đổi status, buyer chỉ được Cancelled
func authorizeUpdate(requester authz.Identity, order *model.Order, patch model.OrderPatch) error {
	if requester.IsAdmin() {
		return nil
	}
	if patch.TotalPrice != nil {
		return model.ErrPriceChangeDenied
	}
	if !requester.Can(authz.ActionUpdate, authz.ResourceOrder) {
		return model.ErrForbidden
	}

	switch {
	case requester.Owns(order.SellerID):
		return nil
	case requester.Owns(order.UserID):
		if patch.Status != nil && *patch.Status == model.StatusCancelled {
			return nil
		}
		return model.ErrBuyerCancelOnly
	default:
		return model.ErrForbidden
	}
}

func (s *orderService) DeleteOrder(ctx context.Context, requester authz.Identity, id uuid.UUID) error {
	if !requester.Can(authz.ActionDelete, authz.ResourceOrder) {
		return model.ErrDeleteDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id.String(),
		"admin_id": requester.UserID.String(),
	})
	return nil
}

// =====================================================
// EXPORT
// =====================================================

func (s *orderService) ExportOrdersForSeller(ctx context.Context, sellerID uuid.UUID) (*excelize.File, error) {
	orders, err := s.repo.ListAllBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller orders: %w", err)
	}

	rows := make([][]interface{}, 0, len(orders))
	for _, o := range orders {
		bookTitle, buyerEmail := "", ""
		if o.Book != nil {
			bookTitle = o.Book.Title
		}
		if o.Buyer != nil {
			buyerEmail = o.Buyer.Email
		}
		rows = append(rows, []interface{}{
			o.ID.String(),
			o.BookID.String(),
			bookTitle,
			buyerEmail,
			o.TotalPrice.InexactFloat64(),
			o.Status.String(),
			o.PaymentStatus.String(),
			o.CreatedAt.Format(time.RFC3339),
		})
	}

	f, err := export.Build(export.Sheet{
		Name:    "My orders",
		Headers: []string{"Order ID", "Book ID", "Book", "Buyer Email", "Total Price", "Status", "Payment Status", "Created At"},
		Rows:    rows,
	})
	if err != nil {
		return nil, fmt.Errorf("build excel file: %w", err)
	}
	return f, nil
}

// publish fire-and-forget, lỗi chỉ log
func (s *orderService) publish(ctx context.Context, topic string, orderID uuid.UUID, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, topic, orderID.String(), eventType, payload); err != nil {
		logger.Warn("Failed to publish order event", map[string]interface{}{
			"topic":    topic,
			"order_id": orderID.String(),
			"error":    err.Error(),
		})
	}
}
