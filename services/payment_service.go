package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

// PaymentService menangani operasi pembayaran
type PaymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	currency string
	notifier Notifier
}

type IntentResult struct {
	Payment      models.Payment `json:"payment"`
	ClientSecret string         `json:"clientSecret"`
	RedirectURL  string         `json:"redirectUrl,omitempty"`
}

// CreateIntent opens a card payment for an unpaid order of the customer and
// records it as pending.
func (s *PaymentService) CreateIntent(ctx context.Context, customerID, orderID uint) (*IntentResult, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, lookupError(err, "Order")
	}
	if order.CustomerID != customerID {
		return nil, ForbiddenError("Access denied")
	}
	if order.IsPaid {
		return nil, ConflictError("Order is already paid")
	}
	var customer models.Customer
	if err := db.First(&customer, customerID).Error; err != nil {
		return nil, lookupError(err, "customer")
	}

	reference := "PAY-" + uuid.NewString()
	intent, err := s.gateway.CreateIntent(ctx, PaymentIntentRequest{
		Reference: reference,
		Amount:    order.TotalAmount,
		Currency:  s.currency,
		Order:     order,
		Customer:  customer,
	})
	if err != nil {
		return nil, UnexpectedError("create payment intent", err)
	}

	payment := models.Payment{
		OrderID:         order.ID,
		Amount:          order.TotalAmount,
		Currency:        s.currency,
		Status:          models.PaymentPending,
		PaymentMethod:   models.PaymentMethodCard,
		PaymentIntentID: &reference,
		Metadata:        map[string]string{"customer_id": fmt.Sprint(customerID)},
	}
	if intent.RedirectURL != "" {
		payment.Metadata["redirect_url"] = intent.RedirectURL
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, UnexpectedError("create payment", err)
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id":  order.ID,
		"reference": reference,
	}).Info("payment intent created")
	s.notifier.Publish(order.RestaurantID, EventPaymentUpdate, payment)

	return &IntentResult{Payment: payment, ClientSecret: intent.ClientSecret, RedirectURL: intent.RedirectURL}, nil
}

// HandleWebhook applies a signed processor notification. Redelivery of the
// same notification writes the same values again. A successful payment is
// never downgraded by a later failure event.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte) error {
	n, err := s.gateway.ParseNotification(body)
	if errors.Is(err, ErrInvalidSignature) {
		return ValidationError("Invalid signature")
	}
	if err != nil {
		return ValidationError("Invalid notification payload")
	}

	log := utils.InfoLogger.WithFields(map[string]interface{}{
		"reference": n.Reference,
		"status":    n.TransactionStatus,
	})
	if n.Outcome == OutcomeIgnored {
		log.Info("payment notification ignored")
		return nil
	}

	var payment models.Payment
	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("payment_intent_id = ?", n.Reference).First(&payment).Error; err != nil {
			return lookupError(err, "Payment")
		}
		if err := forUpdate(tx).First(&order, payment.OrderID).Error; err != nil {
			return lookupError(err, "Order")
		}

		if payment.Metadata == nil {
			payment.Metadata = map[string]string{}
		}
		if n.TransactionID != "" {
			payment.Metadata["transaction_id"] = n.TransactionID
		}
		if n.PaymentType != "" {
			payment.Metadata["payment_type"] = n.PaymentType
		}

		switch n.Outcome {
		case OutcomeSucceeded:
			duplicate := order.IsPaid && payment.Status != models.PaymentSuccessful
			payment.Status = models.PaymentSuccessful
			if n.ReceiptURL != "" {
				payment.ReceiptURL = n.ReceiptURL
			}
			if duplicate {
				// order sudah lunas lewat pembayaran lain, metode lama dipertahankan
				log.WithField("order_id", order.ID).Warn("card payment settled for an order that is already paid")
				payment.Metadata["duplicate"] = "true"
				msg := fmt.Sprintf("Order #%d was already paid (%s), card payment %s needs a refund",
					order.ID, order.PaymentMethod, n.Reference)
				if err := createNotificationTx(tx, order.RestaurantID, NotificationPayment, "Duplicate payment", msg); err != nil {
					return err
				}
				break
			}
			order.IsPaid = true
			order.PaymentMethod = MethodFor(n.PaymentType)
			if err := tx.Model(&models.Order{ID: order.ID}).Updates(map[string]interface{}{
				"is_paid":        true,
				"payment_method": order.PaymentMethod,
			}).Error; err != nil {
				return UnexpectedError("mark order paid", err)
			}
			msg := fmt.Sprintf("Payment for order #%d received (%s)", order.ID, order.PaymentMethod)
			if err := createNotificationTx(tx, order.RestaurantID, NotificationPayment, "Payment received", msg); err != nil {
				return err
			}
		case OutcomeFailed:
			if payment.Status == models.PaymentSuccessful {
				log.Warn("failure notification for a successful payment ignored")
				return nil
			}
			payment.Status = models.PaymentFailed
			payment.Metadata["error"] = n.StatusMessage
		}

		err := tx.Model(&payment).Select("status", "receipt_url", "metadata").Updates(&payment).Error
		return dbError(err, "update payment")
	})
	if err != nil {
		return err
	}

	log.WithField("payment_status", payment.Status).Info("payment reconciled")
	s.notifier.Publish(order.RestaurantID, EventPaymentUpdate, payment)
	return nil
}

// RecordCashPayment records a cash payment taken by staff and marks the order paid.
func (s *PaymentService) RecordCashPayment(ctx context.Context, restaurantID, staffID, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&order, orderID).Error; err != nil {
			return lookupError(err, "Order")
		}
		if order.RestaurantID != restaurantID {
			return ForbiddenError("Access denied")
		}
		if order.IsPaid {
			return ConflictError("Order is already paid")
		}

		payment = models.Payment{
			OrderID:       order.ID,
			Amount:        order.TotalAmount,
			Currency:      s.currency,
			Status:        models.PaymentSuccessful,
			PaymentMethod: models.PaymentMethodCash,
			RecordedByID:  &staffID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return UnexpectedError("create payment", err)
		}
		order.IsPaid = true
		order.PaymentMethod = models.PaymentMethodCash
		return dbError(tx.Model(&models.Order{ID: order.ID}).Updates(map[string]interface{}{
			"is_paid":        true,
			"payment_method": models.PaymentMethodCash,
		}).Error, "mark order paid")
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"staff_id": staffID,
	}).Info("cash payment recorded")
	s.notifier.Publish(order.RestaurantID, EventPaymentUpdate, payment)
	return &payment, nil
}

// GetCustomerPayment loads a payment of one of the customer's orders.
func (s *PaymentService) GetCustomerPayment(ctx context.Context, customerID, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Preload("Order").First(&payment, paymentID).Error; err != nil {
		return nil, lookupError(err, "Payment")
	}
	if payment.Order == nil || payment.Order.CustomerID != customerID {
		return nil, ForbiddenError("Access denied")
	}
	return &payment, nil
}

// ListOrderPayments lists every payment attempt of an order of the restaurant.
func (s *PaymentService) ListOrderPayments(ctx context.Context, restaurantID, orderID uint) ([]models.Payment, error) {
	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, lookupError(err, "Order")
	}
	if order.RestaurantID != restaurantID {
		return nil, ForbiddenError("Access denied")
	}
	var payments []models.Payment
	if err := db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, UnexpectedError("list payments", err)
	}
	return payments, nil
}

// normalizeCurrency lower-cases a currency code, defaulting to idr.
func normalizeCurrency(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return "idr"
	}
	return c
}
