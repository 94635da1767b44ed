package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationBody(t *testing.T, fields map[string]string) []byte {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return raw
}

func TestMidtransGateway_ParseNotification(t *testing.T) {
	g := NewMidtransGateway(MidtransConfig{ServerKey: "test-server-key"})

	tests := []struct {
		name        string
		status      string
		fraud       string
		wantOutcome PaymentOutcome
	}{
		{name: "settlement", status: "settlement", wantOutcome: OutcomeSucceeded},
		{name: "capture accepted", status: "capture", fraud: "accept", wantOutcome: OutcomeSucceeded},
		{name: "capture challenged", status: "capture", fraud: "challenge", wantOutcome: OutcomeIgnored},
		{name: "expire", status: "expire", wantOutcome: OutcomeFailed},
		{name: "deny", status: "deny", wantOutcome: OutcomeFailed},
		{name: "pending", status: "pending", wantOutcome: OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := notificationBody(t, map[string]string{
				"order_id":           "PAY-1",
				"status_code":        "200",
				"gross_amount":       "200.00",
				"signature_key":      Signature("PAY-1", "200", "200.00", "test-server-key"),
				"transaction_status": tt.status,
				"fraud_status":       tt.fraud,
				"payment_type":       "credit_card",
				"pdf_url":            "https://receipts.test/1.pdf",
			})

			n, err := g.ParseNotification(body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, n.Outcome)
			assert.Equal(t, "PAY-1", n.Reference)
			assert.Equal(t, "https://receipts.test/1.pdf", n.ReceiptURL)
		})
	}
}

func TestMidtransGateway_RejectsBadSignature(t *testing.T) {
	g := NewMidtransGateway(MidtransConfig{ServerKey: "test-server-key"})

	body := notificationBody(t, map[string]string{
		"order_id":           "PAY-1",
		"status_code":        "200",
		"gross_amount":       "200.00",
		"signature_key":      Signature("PAY-1", "200", "200.00", "another-key"),
		"transaction_status": "settlement",
	})
	_, err := g.ParseNotification(body)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = g.ParseNotification([]byte("{not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestMethodFor(t *testing.T) {
	assert.Equal(t, "card", MethodFor("credit_card"))
	assert.Equal(t, "online", MethodFor("gopay"))
}
