package service

import (
	"context"
	"strings"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	validator *RequestValidator
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	validator *RequestValidator,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		validator: validator,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// SubmitOrder validates the whole request, then writes the header and every
// item in one transaction.
func (s *orderService) SubmitOrder(ctx context.Context, req *model.OrderRequest) (_ *model.Order, err error) {
	if req != nil {
		req.CustomerName = strings.TrimSpace(req.CustomerName)
		req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
		req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)
	}
	if vErr := s.validator.Struct(req); vErr != nil {
		s.logger.Warn().Err(vErr).Msg("order request rejected")
		return nil, vErr
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, repository.WrapError("begin transaction", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     req.TotalAmount,
		Status:          model.OrderStatusPending,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, repository.WrapError("insert order header", err)
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, repository.WrapError("insert order items", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, repository.WrapError("commit order", err)
	}

	order.Items = items

	s.logger.Info().
		Int64("order_id", order.ID).
		Int("item_count", len(items)).
		Str("total_amount", order.TotalAmount.String()).
		Msg("order created successfully")

	s.publishCreated(ctx, order)

	return order, nil
}

// publishCreated notifies subscribers. Failures are logged only. The
// configured publishers deliver in the background, so this returns without
// waiting on the broker.
func (s *orderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.publisher == nil {
		return
	}

	event := model.OrderCreatedEvent{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to publish order event")
	}
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, err
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List retrieves orders newest first.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if !status.Valid() {
		return model.NewValidationError("status", "must be one of pending, processing, completed, cancelled")
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return nil
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// clampPage applies the listing defaults and bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
