package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/database"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testServerKey = "test-server-key"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type published struct {
	restaurantID uint
	event        string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(restaurantID uint, event string, _ interface{}) {
	n.mu.Lock()
	n.events = append(n.events, published{restaurantID: restaurantID, event: event})
	n.mu.Unlock()
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.event == event {
			c++
		}
	}
	return c
}

// fakeGateway answers intents locally and verifies notifications with the
// real Midtrans signature check.
type fakeGateway struct {
	parser    *MidtransGateway
	createErr error
	requests  []PaymentIntentRequest
}

func (g *fakeGateway) CreateIntent(_ context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.requests = append(g.requests, req)
	return &PaymentIntent{
		ClientSecret: "snap-" + req.Reference,
		RedirectURL:  "https://pay.test/" + req.Reference,
	}, nil
}

func (g *fakeGateway) ParseNotification(body []byte) (*GatewayNotification, error) {
	return g.parser.ParseNotification(body)
}

type failingSMS struct{}

func (failingSMS) SendOTP(context.Context, string, string) error {
	return errors.New("provider unavailable")
}

type fixture struct {
	db         *gorm.DB
	svc        *Container
	clock      *testClock
	notifier   *recordingNotifier
	gateway    *fakeGateway
	restaurant models.Restaurant
	table      models.Table
	product    models.Product
}

func newTestDB(t *testing.T, clock *testClock) *gorm.DB {
	t.Helper()
	utils.SilenceLogger()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: clock.Now,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

// newFixture seeds one restaurant with table "T1" (qr abc123, capacity 4)
// and an available product priced 100.
func newFixture(t *testing.T, tweak ...func(*Options)) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	db := newTestDB(t, clock)

	f := &fixture{
		db:       db,
		clock:    clock,
		notifier: &recordingNotifier{},
		gateway:  &fakeGateway{parser: NewMidtransGateway(MidtransConfig{ServerKey: testServerKey})},
	}
	opts := Options{
		Tokens:   utils.NewTokenIssuer("test-secret", time.Hour, time.Hour),
		Gateway:  f.gateway,
		Notifier: f.notifier,
		OTP:      func() (string, error) { return "123456", nil },
		OTPTTL:   10 * time.Minute,
		Currency: "IDR",
		Now:      clock.Now,
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	f.svc = NewContainer(db, opts)

	f.restaurant = models.Restaurant{Name: "Warung Test", Status: models.RestaurantActive}
	require.NoError(t, db.Create(&f.restaurant).Error)
	f.table = f.createTable(t, f.restaurant.ID, "T1", "abc123")
	f.product = f.createProduct(t, f.restaurant.ID, "Nasi Goreng", 100)
	return f
}

func (f *fixture) createTable(t *testing.T, restaurantID uint, number, qr string) models.Table {
	t.Helper()
	table := models.Table{
		RestaurantID:     restaurantID,
		TableNumber:      number,
		Capacity:         4,
		Status:           models.TableAvailable,
		QRCodeIdentifier: qr,
	}
	require.NoError(t, f.db.Create(&table).Error)
	return table
}

func (f *fixture) createProduct(t *testing.T, restaurantID uint, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.NewFromInt(price),
		IsAvailable:  true,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) reloadTable(t *testing.T, id uint) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, f.db.First(&table, id).Error)
	return table
}

// login verifies a phone number through the OTP flow and returns the customer id.
func (f *fixture) login(t *testing.T, phone string) uint {
	t.Helper()
	ctx := context.Background()
	challenge, err := f.svc.Sessions.RequestOTP(ctx, phone)
	require.NoError(t, err)
	verified, err := f.svc.Sessions.VerifyOTP(ctx, phone, challenge.OTP)
	require.NoError(t, err)
	return verified.Customer.ID
}

// seat logs a customer in and scans the table with the given qr code.
func (f *fixture) seat(t *testing.T, phone, qr string) uint {
	t.Helper()
	id := f.login(t, phone)
	_, err := f.svc.Sessions.ScanTable(context.Background(), id, qr)
	require.NoError(t, err)
	return id
}

// placeOrder seats nothing; the customer must already be seated.
func (f *fixture) placeOrder(t *testing.T, customerID uint, qty int) *models.Order {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Carts.AddItem(ctx, customerID, AddCartItem{ProductID: f.product.ID, Quantity: qty})
	require.NoError(t, err)
	order, err := f.svc.Orders.PlaceOrder(ctx, customerID, "")
	require.NoError(t, err)
	return order
}

func requireKind(t *testing.T, want Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, KindOf(err), "unexpected error: %v", err)
}
