package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CreateOrderInput struct {
	CartID string `json:"cart_id" validate:"required,uuid"`
}

type UpdateOrderInput struct {
	Status string `json:"status" validate:"required,in=unpaid,complete,failed"`
}

// OrderCreatedPayload is the body of the order.created event.
type OrderCreatedPayload struct {
	OrderID    uint                   `json:"order_id"`
	CustomerID uint                   `json:"customer_id"`
	CartID     uuid.UUID              `json:"cart_id"`
	Total      models.Money           `json:"total"`
	Items      []OrderCreatedLineItem `json:"items"`
}

type OrderCreatedLineItem struct {
	ProductID uint         `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

type OrderService struct {
	repo   *repositories.Repository
	events event.Publisher
	now    func() time.Time
}

// NewOrderService publishes order.created to events after each checkout
// commits. events may be nil.
func NewOrderService(repo *repositories.Repository, events event.Publisher) *OrderService {
	return &OrderService{repo: repo, events: events, now: time.Now}
}

// CreateOrder converts the cart into an unpaid order for the customer
// profile of userID, snapshotting every line's current unit price, and
// deletes the cart. All of it commits or none of it does.
//
// The cart row is read FOR UPDATE and the emptiness check runs under that
// lock, so of two concurrent checkouts of one cart the second finds it gone
// and fails with ErrNoSuchCart.
func (s *OrderService) CreateOrder(ctx context.Context, cartID uuid.UUID, userID uint) (*models.Order, error) {
	var orderID uint
	err := s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		cart, err := tx.Carts.Lock(ctx, cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrNoSuchCart
		}

		items, err := tx.CartItems.ListByCart(ctx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		customer, err := tx.Customers.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		order := &models.Order{CustomerID: customer.ID, Status: models.OrderUnpaid}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			if it.Product == nil {
				return ErrProductNotFound
			}
			lines = append(lines, models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.Product.UnitPrice,
			})
		}
		if err := tx.OrderItems.BulkCreate(ctx, lines); err != nil {
			return err
		}

		if _, err := tx.CartItems.DeleteByCart(ctx, cartID); err != nil {
			return err
		}
		n, err := tx.Carts.Delete(ctx, cartID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoSuchCart
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		metrics.CheckoutFailures.WithLabelValues(checkoutFailureReason(err)).Inc()
		return nil, err
	}

	order, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order: placed",
		"order_id", order.ID, "customer_id", order.CustomerID, "cart_id", cartID,
		"items", len(order.Items), "total", order.Total().String())

	s.publishCreated(ctx, cartID, order)
	return order, nil
}

func (s *OrderService) publishCreated(ctx context.Context, cartID uuid.UUID, o *models.Order) {
	if s.events == nil {
		return
	}
	payload := OrderCreatedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		CartID:     cartID,
		Total:      o.Total(),
		Items:      make([]OrderCreatedLineItem, len(o.Items)),
	}
	for i, it := range o.Items {
		payload.Items[i] = OrderCreatedLineItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	err := s.events.Publish(ctx, event.Event{
		Name:       event.OrderCreated,
		Key:        strconv.FormatUint(uint64(o.ID), 10),
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		logger.WithCtx(ctx).Warn("order: publish failed", "order_id", o.ID, "error", err)
	}
}

func checkoutFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoSuchCart):
		return "no_such_cart"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrCustomerNotFound):
		return "no_customer"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// GetOrder returns any order to an admin and only their own to a customer.
func (s *OrderService) GetOrder(ctx context.Context, id uint, who auth.Identity) (*models.Order, error) {
	o, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if who.IsAdmin() {
		return o, nil
	}
	c, err := s.repo.Customers.GetByUserID(ctx, who.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ID != o.CustomerID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, who auth.Identity, p orm.Pagination) ([]models.Order, orm.Pagination, error) {
	var f repositories.OrderListFilter
	if !who.IsAdmin() {
		c, err := s.repo.Customers.GetByUserID(ctx, who.UserID)
		if err != nil {
			return nil, p, err
		}
		if c == nil {
			p = orm.Page(p.Page, p.PerPage)
			p.LastPage = 1
			return []models.Order{}, p, nil
		}
		f.CustomerID = &c.ID
	}
	return s.repo.Orders.List(ctx, f, p)
}

// UpdateStatus is the only mutation an order accepts after checkout.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	o, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if o.Status == status {
		return o, nil
	}
	if _, err := s.repo.Orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("order: status changed", "order_id", id, "from", o.Status, "to", status)
	o.Status = status
	return o, nil
}
