package services

import (
	"time"

	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

// Options configures the collaborators shared by the services. Zero values
// fall back to production defaults.
type Options struct {
	Tokens   *utils.TokenIssuer
	Gateway  PaymentGateway
	Notifier Notifier
	SMS      SMSSender
	OTP      OTPGenerator
	OTPTTL   time.Duration
	Currency string
	Now      func() time.Time
}

// Container holds every service of the application.
type Container struct {
	Tables        *TableRegistry
	Users         *UserService
	Restaurants   *RestaurantService
	Catalog       *CatalogService
	Sessions      *SessionService
	Carts         *CartService
	Orders        *OrderService
	Payments      *PaymentService
	Reservations  *ReservationService
	Analytics     *AnalyticsService
	Notifications *NotificationService
}

func NewContainer(db *gorm.DB, opts Options) *Container {
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.SMS == nil {
		opts.SMS = LogSMSSender{}
	}
	if opts.OTP == nil {
		opts.OTP = RandomOTP
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tables := NewTableRegistry(db, opts.Notifier)
	sessions := &SessionService{
		db:     db,
		tables: tables,
		tokens: opts.Tokens,
		sms:    opts.SMS,
		otp:    opts.OTP,
		otpTTL: opts.OTPTTL,
		now:    opts.Now,
		events: opts.Notifier,
	}
	return &Container{
		Tables:       tables,
		Users:        &UserService{db: db, tokens: opts.Tokens},
		Restaurants:  &RestaurantService{db: db},
		Catalog:      &CatalogService{db: db, sessions: sessions},
		Sessions:     sessions,
		Carts:        &CartService{db: db, sessions: sessions, now: opts.Now},
		Orders:       &OrderService{db: db, notifier: opts.Notifier, now: opts.Now},
		Payments: &PaymentService{
			db:       db,
			gateway:  opts.Gateway,
			currency: normalizeCurrency(opts.Currency),
			notifier: opts.Notifier,
		},
		Reservations:  &ReservationService{db: db, tables: tables, notifier: opts.Notifier, now: opts.Now},
		Analytics:     &AnalyticsService{db: db, now: opts.Now},
		Notifications: &NotificationService{db: db},
	}
}
