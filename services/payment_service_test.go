package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/models"
)

func webhookBody(t *testing.T, reference, status, paymentType string) []byte {
	return notificationBody(t, map[string]string{
		"order_id":           reference,
		"status_code":        "200",
		"gross_amount":       "200.00",
		"signature_key":      Signature(reference, "200", "200.00", testServerKey),
		"transaction_status": status,
		"transaction_id":     "trx-1",
		"status_message":     "midtrans payment notification",
		"payment_type":       paymentType,
		"pdf_url":            "https://receipts.test/1.pdf",
	})
}

func TestCreateIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 2)

	res, err := f.svc.Payments.CreateIntent(ctx, id, order.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Payment.PaymentIntentID)
	ref := *res.Payment.PaymentIntentID
	assert.True(t, strings.HasPrefix(ref, "PAY-"))
	assert.Equal(t, "snap-"+ref, res.ClientSecret)
	assert.Equal(t, models.PaymentPending, res.Payment.Status)
	assert.Equal(t, "idr", res.Payment.Currency)
	assert.True(t, order.TotalAmount.Equal(res.Payment.Amount))

	require.Len(t, f.gateway.requests, 1)
	assert.Equal(t, ref, f.gateway.requests[0].Reference)

	stranger := f.login(t, "+910000000001")
	_, err = f.svc.Payments.CreateIntent(ctx, stranger, order.ID)
	requireKind(t, KindForbidden, err)

	_, err = f.svc.Payments.CreateIntent(ctx, id, 9999)
	requireKind(t, KindNotFound, err)
}

func TestCreateIntent_GatewayFailureLeavesNoPayment(t *testing.T) {
	f := newFixture(t)
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 1)
	f.gateway.createErr = errors.New("snap unavailable")

	_, err := f.svc.Payments.CreateIntent(context.Background(), id, order.ID)
	requireKind(t, KindUnexpected, err)

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleWebhook_Settlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 2)
	res, err := f.svc.Payments.CreateIntent(ctx, id, order.ID)
	require.NoError(t, err)
	ref := *res.Payment.PaymentIntentID

	body := webhookBody(t, ref, "settlement", "credit_card")
	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, body))
	// redelivery
	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, body))

	payment, err := f.svc.Payments.GetCustomerPayment(ctx, id, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)
	assert.Equal(t, "https://receipts.test/1.pdf", payment.ReceiptURL)
	assert.Equal(t, "trx-1", payment.Metadata["transaction_id"])

	stored, err := f.svc.Orders.GetCustomerOrder(ctx, id, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, models.PaymentMethodCard, stored.PaymentMethod)

	// a late failure does not undo the payment
	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, webhookBody(t, ref, "expire", "credit_card")))
	payment, err = f.svc.Payments.GetCustomerPayment(ctx, id, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)

	_, err = f.svc.Payments.CreateIntent(ctx, id, order.ID)
	requireKind(t, KindConflict, err)
}

func TestHandleWebhook_SettlementAfterCashKeepsMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 2)
	res, err := f.svc.Payments.CreateIntent(ctx, id, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Payments.RecordCashPayment(ctx, f.restaurant.ID, 7, order.ID)
	require.NoError(t, err)

	ref := *res.Payment.PaymentIntentID
	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, webhookBody(t, ref, "settlement", "credit_card")))

	stored, err := f.svc.Orders.GetCustomerOrder(ctx, id, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, models.PaymentMethodCash, stored.PaymentMethod)

	payment, err := f.svc.Payments.GetCustomerPayment(ctx, id, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)
	assert.Equal(t, "true", payment.Metadata["duplicate"])

	var notes []models.Notification
	require.NoError(t, f.db.Where("title = ?", "Duplicate payment").Find(&notes).Error)
	assert.Len(t, notes, 1)
}

func TestHandleWebhook_Failure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 1)
	res, err := f.svc.Payments.CreateIntent(ctx, id, order.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, webhookBody(t, *res.Payment.PaymentIntentID, "deny", "credit_card")))

	payments, err := f.svc.Payments.ListOrderPayments(ctx, f.restaurant.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentFailed, payments[0].Status)
	assert.Equal(t, "midtrans payment notification", payments[0].Metadata["error"])

	stored, err := f.svc.Orders.GetCustomerOrder(ctx, id, order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}

func TestHandleWebhook_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 1)
	res, err := f.svc.Payments.CreateIntent(ctx, id, order.ID)
	require.NoError(t, err)
	ref := *res.Payment.PaymentIntentID

	forged := notificationBody(t, map[string]string{
		"order_id":           ref,
		"status_code":        "200",
		"gross_amount":       "200.00",
		"signature_key":      Signature(ref, "200", "200.00", "wrong-key"),
		"transaction_status": "settlement",
	})
	requireKind(t, KindValidation, f.svc.Payments.HandleWebhook(ctx, forged))
	requireKind(t, KindValidation, f.svc.Payments.HandleWebhook(ctx, []byte("not json")))

	// pending notifications are acknowledged without changes
	require.NoError(t, f.svc.Payments.HandleWebhook(ctx, webhookBody(t, ref, "pending", "bank_transfer")))

	requireKind(t, KindNotFound, f.svc.Payments.HandleWebhook(ctx, webhookBody(t, "PAY-unknown", "settlement", "credit_card")))

	stored, err := f.svc.Orders.GetCustomerOrder(ctx, id, order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}

func TestRecordCashPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seat(t, "+910000000000", "abc123")
	order := f.placeOrder(t, id, 2)

	_, err := f.svc.Payments.RecordCashPayment(ctx, f.restaurant.ID+1, 7, order.ID)
	requireKind(t, KindForbidden, err)

	payment, err := f.svc.Payments.RecordCashPayment(ctx, f.restaurant.ID, 7, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, payment.Status)
	assert.Equal(t, models.PaymentMethodCash, payment.PaymentMethod)
	require.NotNil(t, payment.RecordedByID)
	assert.Equal(t, uint(7), *payment.RecordedByID)

	_, err = f.svc.Payments.RecordCashPayment(ctx, f.restaurant.ID, 7, order.ID)
	requireKind(t, KindConflict, err)

	stored, err := f.svc.Orders.GetCustomerOrder(ctx, id, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, models.PaymentMethodCash, stored.PaymentMethod)
	assert.Equal(t, 1, f.notifier.count(EventPaymentUpdate))
}
