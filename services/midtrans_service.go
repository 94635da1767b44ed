package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
)

var ErrInvalidSignature = errors.New("invalid notification signature")

// PaymentOutcome is what a processor notification means for a payment.
type PaymentOutcome int

const (
	OutcomeIgnored PaymentOutcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

type PaymentIntentRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Order     models.Order
	Customer  models.Customer
}

type PaymentIntent struct {
	ClientSecret string
	RedirectURL  string
}

// GatewayNotification is a verified processor callback.
type GatewayNotification struct {
	Reference         string
	TransactionID     string
	TransactionStatus string
	PaymentType       string
	StatusMessage     string
	ReceiptURL        string
	Outcome           PaymentOutcome
}

// PaymentGateway is the card processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	// ParseNotification verifies the signature of a raw callback body.
	ParseNotification(body []byte) (*GatewayNotification, error)
}

// MidtransConfig holds Midtrans configuration
type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
}

// MidtransGateway creates Snap transactions and verifies HTTP notifications.
type MidtransGateway struct {
	config MidtransConfig
	snap   snap.Client
}

func NewMidtransGateway(cfg MidtransConfig) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{config: cfg}
	g.snap.New(cfg.ServerKey, env)
	return g
}

// CreateIntent opens a Snap transaction; the Snap token is the client secret.
func (g *MidtransGateway) CreateIntent(_ context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	gross := utils.MinorUnits(req.Amount, req.Currency)
	customer := &midtrans.CustomerDetails{
		FName: req.Customer.Name,
		Phone: req.Customer.PhoneNumber,
	}
	if customer.FName == "" {
		customer.FName = fmt.Sprintf("Customer-%d", req.Customer.ID)
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: gross,
		},
		CustomerDetail: customer,
		Items: &[]midtrans.ItemDetails{{
			ID:    req.Order.Reference(),
			Name:  fmt.Sprintf("Order #%d", req.Order.ID),
			Price: gross,
			Qty:   1,
		}},
	}

	resp, mErr := g.snap.CreateTransaction(snapReq)
	if mErr != nil {
		utils.ErrorLogger.WithFields(map[string]interface{}{
			"reference":   req.Reference,
			"status_code": mErr.StatusCode,
		}).Error("Midtrans transaction failed: " + mErr.Message)
		return nil, fmt.Errorf("midtrans: %s", mErr.Message)
	}
	return &PaymentIntent{ClientSecret: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	StatusMessage     string `json:"status_message"`
	PdfURL            string `json:"pdf_url"`
}

// ParseNotification checks signature_key = SHA512(order_id+status_code+gross_amount+server_key).
func (g *MidtransGateway) ParseNotification(body []byte) (*GatewayNotification, error) {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	if !g.ValidateSignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return nil, ErrInvalidSignature
	}
	return &GatewayNotification{
		Reference:         n.OrderID,
		TransactionID:     n.TransactionID,
		TransactionStatus: n.TransactionStatus,
		PaymentType:       n.PaymentType,
		StatusMessage:     n.StatusMessage,
		ReceiptURL:        n.PdfURL,
		Outcome:           mapTransactionStatus(n.TransactionStatus, n.FraudStatus),
	}, nil
}

// ValidateSignature validates Midtrans signature
func (g *MidtransGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	expected := Signature(orderID, statusCode, grossAmount, g.config.ServerKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Signature computes the Midtrans notification signature.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// mapTransactionStatus maps Midtrans transaction status to a payment outcome
func mapTransactionStatus(status, fraud string) PaymentOutcome {
	switch status {
	case "settlement":
		return OutcomeSucceeded
	case "capture":
		if fraud == "challenge" {
			return OutcomeIgnored
		}
		return OutcomeSucceeded
	case "deny", "cancel", "expire", "failure":
		return OutcomeFailed
	default:
		return OutcomeIgnored
	}
}

// MethodFor maps the processor payment type to an order payment method.
func MethodFor(paymentType string) string {
	if paymentType == "credit_card" {
		return models.PaymentMethodCard
	}
	return models.PaymentMethodOnline
}
