package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

type OrderService struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

// PlaceOrder turns the cart of the active session into an order. The order,
// its items, the emptied cart and the session update commit together.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uint, specialInstructions string) (*models.Order, error) {
	var order models.Order
	var box outbox

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return lookupError(err, "customer")
		}
		if !customer.HasActiveSession() {
			return PreconditionError("No active table session")
		}
		sess := customer.CurrentSession

		cart, err := loadCart(tx, customerID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return PreconditionError("Cart is empty")
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID:           line.ProductID,
				ProductName:         line.Product.Name,
				Quantity:            line.Quantity,
				Price:               line.Product.Price,
				SelectedAddons:      line.SelectedAddons,
				SpecialInstructions: line.SpecialInstructions,
				Status:              models.ItemOrdered,
			})
		}

		order = models.Order{
			CustomerID:          customerID,
			RestaurantID:        *sess.RestaurantID,
			TableID:             sess.TableID,
			Items:               items,
			Status:              models.OrderPlaced,
			TotalAmount:         cart.Total(),
			SpecialInstructions: specialInstructions,
		}
		if err := tx.Create(&order).Error; err != nil {
			return UnexpectedError("create order", err)
		}

		if err := drainCart(tx, cart, s.now()); err != nil {
			return err
		}
		customer.CurrentSession.CurrentOrderID = &order.ID
		if err := saveSession(tx, &customer); err != nil {
			return err
		}

		msg := fmt.Sprintf("Order #%d placed with %d item(s), total %s", order.ID, len(items), order.TotalAmount.StringFixed(2))
		if err := createNotificationTx(tx, order.RestaurantID, NotificationOrderPlaced, "New order", msg); err != nil {
			return err
		}
		box.add(order.RestaurantID, EventOrderPlaced, order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.notifier)

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": customerID,
		"total":       order.TotalAmount.String(),
	}).Info("order placed")
	return &order, nil
}

// ListCustomerOrders returns the customer's orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, UnexpectedError("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Table").
		First(&order, orderID).Error
	if err != nil {
		return nil, lookupError(err, "Order")
	}
	return &order, nil
}

// GetCustomerOrder loads an order owned by the customer.
func (s *OrderService) GetCustomerOrder(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	order, err := s.loadOrder(s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ForbiddenError("Access denied")
	}
	return order, nil
}

// ListActiveOrders returns every order of the restaurant that is not completed.
func (s *OrderService) ListActiveOrders(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Table").Preload("Customer").
		Where("restaurant_id = ? AND status <> ?", restaurantID, models.OrderCompleted).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, UnexpectedError("list active orders", err)
	}
	return orders, nil
}

// GetRestaurantOrder loads an order of the caller's restaurant.
func (s *OrderService) GetRestaurantOrder(ctx context.Context, restaurantID, orderID uint) (*models.Order, error) {
	order, err := s.loadOrder(s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, ForbiddenError("Access denied")
	}
	return order, nil
}

// UpdateOrderStatus moves an order forward through its transition table.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, restaurantID, orderID uint, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, ValidationError("Invalid status")
	}

	var order *models.Order
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = s.loadOrder(tx, orderID); err != nil {
			return err
		}
		if order.RestaurantID != restaurantID {
			return ForbiddenError("Access denied")
		}
		if !order.Status.CanTransitionTo(next) {
			return ConflictError("order cannot move from %s to %s", order.Status, next)
		}
		if order.Status == next {
			return nil
		}
		order.Status = next
		changed = true
		return setOrderStatus(tx, order.ID, next)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		logOrderStatus(order)
	}
	s.notifier.Publish(order.RestaurantID, EventOrderUpdate, order)
	return order, nil
}

// UpdateItemStatus moves one item forward. Once every item is delivered the
// order itself becomes delivered; completed is only ever set by staff.
func (s *OrderService) UpdateItemStatus(ctx context.Context, restaurantID, orderID, itemID uint, status string) (*models.Order, error) {
	next := models.ItemStatus(status)
	if !next.Valid() {
		return nil, ValidationError("Invalid status")
	}

	var order *models.Order
	var box outbox
	promoted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = s.loadOrder(tx, orderID); err != nil {
			return err
		}
		if order.RestaurantID != restaurantID {
			return ForbiddenError("Access denied")
		}

		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			return NotFoundError("Order item not found")
		}
		if !item.Status.CanTransitionTo(next) {
			return ConflictError("item cannot move from %s to %s", item.Status, next)
		}
		if item.Status != next {
			item.Status = next
			err := tx.Model(&models.OrderItem{ID: item.ID}).Update("status", next).Error
			if err != nil {
				return UnexpectedError("update order item", err)
			}
		}
		box.add(order.RestaurantID, EventOrderItemUpdate, *item)

		if next == models.ItemDelivered && order.AllItemsDelivered() &&
			order.Status != models.OrderDelivered && order.Status.CanTransitionTo(models.OrderDelivered) {
			order.Status = models.OrderDelivered
			if err := setOrderStatus(tx, order.ID, models.OrderDelivered); err != nil {
				return err
			}
			promoted = true
			box.add(order.RestaurantID, EventOrderUpdate, *order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.notifier)
	if promoted {
		logOrderStatus(order)
	}
	return order, nil
}

func setOrderStatus(tx *gorm.DB, orderID uint, status models.OrderStatus) error {
	err := tx.Model(&models.Order{ID: orderID}).Update("status", status).Error
	return dbError(err, "update order status")
}

// logOrderStatus is called once the status change is committed.
func logOrderStatus(order *models.Order) {
	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("order status changed")
}
