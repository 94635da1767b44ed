package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/yeremiapane/dinein-backend/utils"
)

// OTPGenerator returns a fresh 6-digit numeric code.
type OTPGenerator func() (string, error)

// RandomOTP draws a code uniformly from 000000-999999.
func RandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SMSSender delivers a passcode to a phone number.
type SMSSender interface {
	SendOTP(ctx context.Context, phoneNumber, code string) error
}

// LogSMSSender only logs the passcode. It is the default when no SMS
// provider is configured.
type LogSMSSender struct{}

func (LogSMSSender) SendOTP(_ context.Context, phoneNumber, code string) error {
	utils.InfoLogger.WithField("phone", phoneNumber).Infof("Development OTP: %s", code)
	return nil
}
