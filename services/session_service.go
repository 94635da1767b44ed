package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

// SessionService covers customer identity: OTP login, table scan and checkout.
type SessionService struct {
	db     *gorm.DB
	tables *TableRegistry
	tokens *utils.TokenIssuer
	sms    SMSSender
	otp    OTPGenerator
	otpTTL time.Duration
	now    func() time.Time
	events Notifier
}

type OTPChallenge struct {
	PhoneNumber string    `json:"phoneNumber"`
	OTP         string    `json:"otp"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Delivered   bool      `json:"delivered"`
}

// RequestOTP stores a new passcode for the phone number, creating the
// customer on first contact. The code is always returned to the caller; SMS
// delivery failures are logged and reported through Delivered.
func (s *SessionService) RequestOTP(ctx context.Context, phoneNumber string) (*OTPChallenge, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, ValidationError("Phone number is required")
	}

	code, err := s.otp()
	if err != nil {
		return nil, UnexpectedError("generate otp", err)
	}
	expiresAt := s.now().Add(s.otpTTL)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		err := tx.Where("phone_number = ?", phoneNumber).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			customer = models.Customer{PhoneNumber: phoneNumber}
			if err := tx.Create(&customer).Error; err != nil {
				return UnexpectedError("create customer", err)
			}
		} else if err != nil {
			return UnexpectedError("load customer", err)
		}
		return dbError(tx.Model(&customer).Updates(map[string]interface{}{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
		}).Error, "store otp")
	})
	if err != nil {
		return nil, err
	}

	challenge := &OTPChallenge{PhoneNumber: phoneNumber, OTP: code, ExpiresAt: expiresAt}
	if err := s.sms.SendOTP(ctx, phoneNumber, code); err != nil {
		utils.ErrorLogger.WithError(err).WithField("phone", phoneNumber).Warn("SMS delivery failed")
	} else {
		challenge.Delivered = true
	}
	return challenge, nil
}

type VerifiedCustomer struct {
	Token    string          `json:"token"`
	Customer models.Customer `json:"customer"`
}

// VerifyOTP checks the pending passcode and issues a customer credential.
func (s *SessionService) VerifyOTP(ctx context.Context, phoneNumber, code string) (*VerifiedCustomer, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || code == "" {
		return nil, ValidationError("Phone number and OTP are required")
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone_number = ?", phoneNumber).First(&customer).Error; err != nil {
			return lookupError(err, "customer")
		}
		if !customer.OTPMatches(code, s.now()) {
			return InvalidOtpError("Invalid or expired OTP")
		}
		customer.IsVerified = true
		customer.OTPCode = nil
		customer.OTPExpiresAt = nil
		return dbError(tx.Model(&customer).Updates(map[string]interface{}{
			"is_verified":    true,
			"otp_code":       nil,
			"otp_expires_at": nil,
		}).Error, "verify customer")
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateCustomerToken(customer.ID)
	if err != nil {
		return nil, UnexpectedError("issue token", err)
	}
	utils.InfoLogger.WithField("customer_id", customer.ID).Info("customer verified")
	return &VerifiedCustomer{Token: token, Customer: customer}, nil
}

// SessionInfo describes an active session with its restaurant and table.
type SessionInfo struct {
	Session    models.Session     `json:"session"`
	Table      *TableSummary      `json:"table,omitempty"`
	Restaurant *RestaurantSummary `json:"restaurant,omitempty"`
}

type TableSummary struct {
	ID          uint   `json:"id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
}

type RestaurantSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScanTable opens a session at the table identified by qr. An active session
// elsewhere is closed first; scanning the current table again is a no-op.
func (s *SessionService) ScanTable(ctx context.Context, customerID uint, qr string) (*SessionInfo, error) {
	var box outbox
	var customer models.Customer
	var table *models.Table

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, customerID).Error; err != nil {
			return lookupError(err, "customer")
		}
		var err error
		table, err = lockTable(tx, "qr_code_identifier = ?", qr)
		if err != nil {
			return err
		}

		if customer.HasActiveSession() {
			if *customer.CurrentSession.TableID == table.ID {
				return nil
			}
			if err := s.closeSessionTx(tx, &customer, &box); err != nil {
				return err
			}
		}

		if err := s.tables.SeatSessionTx(tx, table, customer.ID, &box); err != nil {
			return err
		}

		now := s.now()
		customer.CurrentSession = models.Session{
			RestaurantID: &table.RestaurantID,
			TableID:      &table.ID,
			StartTime:    &now,
			Active:       true,
		}
		if err := saveSession(tx, &customer); err != nil {
			return err
		}
		visit := models.Visit{
			CustomerID:   customer.ID,
			RestaurantID: table.RestaurantID,
			TableID:      table.ID,
			VisitDate:    now,
		}
		return dbError(tx.Create(&visit).Error, "record visit")
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.events)

	utils.InfoLogger.WithFields(map[string]interface{}{
		"customer_id": customer.ID,
		"table_id":    table.ID,
	}).Info("table session started")
	return s.describe(ctx, customer.CurrentSession, table)
}

// Checkout closes the active session and releases the table.
func (s *SessionService) Checkout(ctx context.Context, customerID uint) error {
	var box outbox
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return lookupError(err, "customer")
		}
		if !customer.HasActiveSession() {
			return PreconditionError("No active session to check out from")
		}
		return s.closeSessionTx(tx, &customer, &box)
	})
	if err != nil {
		return err
	}
	box.flush(s.events)
	utils.InfoLogger.WithField("customer_id", customerID).Info("customer checked out")
	return nil
}

func (s *SessionService) closeSessionTx(tx *gorm.DB, customer *models.Customer, box *outbox) error {
	sess := customer.CurrentSession

	var visit models.Visit
	err := tx.Where("customer_id = ? AND restaurant_id = ? AND table_id = ? AND checked_out = ?",
		customer.ID, *sess.RestaurantID, *sess.TableID, false).
		Order("visit_date DESC").First(&visit).Error
	switch {
	case err == nil:
		if err := tx.Model(&visit).Update("checked_out", true).Error; err != nil {
			return UnexpectedError("update visit", err)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return UnexpectedError("load visit", err)
	}

	customer.CurrentSession.Active = false
	if err := saveSession(tx, customer); err != nil {
		return err
	}

	table, err := lockTable(tx, "id = ?", *sess.TableID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.tables.LeaveSessionTx(tx, table, customer.ID, box)
}

func saveSession(tx *gorm.DB, c *models.Customer) error {
	sess := c.CurrentSession
	err := tx.Model(c).Updates(map[string]interface{}{
		"session_restaurant_id":    sess.RestaurantID,
		"session_table_id":         sess.TableID,
		"session_start_time":       sess.StartTime,
		"session_active":           sess.Active,
		"session_current_order_id": sess.CurrentOrderID,
	}).Error
	return dbError(err, "update session")
}

// ActiveSession returns the customer's live session or a PreconditionError.
func (s *SessionService) ActiveSession(ctx context.Context, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return nil, lookupError(err, "customer")
	}
	if !customer.HasActiveSession() {
		return nil, PreconditionError("No active table session")
	}
	return &customer, nil
}

type Profile struct {
	Customer    models.Customer `json:"customer"`
	SessionInfo *SessionInfo    `json:"sessionInfo,omitempty"`
}

// Profile returns the customer with visit history and, when seated, the session summary.
func (s *SessionService) Profile(ctx context.Context, customerID uint) (*Profile, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("VisitHistory", func(db *gorm.DB) *gorm.DB { return db.Order("visit_date DESC") }).
		First(&customer, customerID).Error
	if err != nil {
		return nil, lookupError(err, "customer")
	}

	p := &Profile{Customer: customer}
	if customer.HasActiveSession() {
		var table models.Table
		if err := s.db.WithContext(ctx).First(&table, *customer.CurrentSession.TableID).Error; err != nil {
			return nil, lookupError(err, "table")
		}
		if p.SessionInfo, err = s.describe(ctx, customer.CurrentSession, &table); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateProfile changes the display name.
func (s *SessionService) UpdateProfile(ctx context.Context, customerID uint, name string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("Name is required")
	}
	var customer models.Customer
	db := s.db.WithContext(ctx)
	if err := db.First(&customer, customerID).Error; err != nil {
		return nil, lookupError(err, "customer")
	}
	if err := db.Model(&customer).Update("name", name).Error; err != nil {
		return nil, UnexpectedError("update profile", err)
	}
	customer.Name = name
	return &customer, nil
}

func (s *SessionService) describe(ctx context.Context, sess models.Session, table *models.Table) (*SessionInfo, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, table.RestaurantID).Error; err != nil {
		return nil, lookupError(err, "restaurant")
	}
	return &SessionInfo{
		Session:    sess,
		Table:      &TableSummary{ID: table.ID, TableNumber: table.TableNumber, Capacity: table.Capacity},
		Restaurant: &RestaurantSummary{ID: restaurant.ID, Name: restaurant.Name, Description: restaurant.Description},
	}, nil
}
