package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/models"
)

func TestRequestOTP_CreatesCustomerAndVerifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	challenge, err := f.svc.Sessions.RequestOTP(ctx, "+910000000000")
	require.NoError(t, err)
	assert.Equal(t, "123456", challenge.OTP)
	assert.True(t, challenge.Delivered)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), challenge.ExpiresAt)

	verified, err := f.svc.Sessions.VerifyOTP(ctx, "+910000000000", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, verified.Token)
	assert.True(t, verified.Customer.IsVerified)

	var stored models.Customer
	require.NoError(t, f.db.First(&stored, verified.Customer.ID).Error)
	assert.Nil(t, stored.OTPCode)
	assert.Nil(t, stored.OTPExpiresAt)

	// the passcode is single use
	_, err = f.svc.Sessions.VerifyOTP(ctx, "+910000000000", "123456")
	requireKind(t, KindInvalidOtp, err)
}

func TestVerifyOTP_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Sessions.RequestOTP(ctx, "+910000000001")
	require.NoError(t, err)

	_, err = f.svc.Sessions.VerifyOTP(ctx, "+910000000001", "000000")
	requireKind(t, KindInvalidOtp, err)

	f.clock.Advance(10 * time.Minute)
	_, err = f.svc.Sessions.VerifyOTP(ctx, "+910000000001", "123456")
	requireKind(t, KindInvalidOtp, err)

	_, err = f.svc.Sessions.VerifyOTP(ctx, "+919999999999", "123456")
	requireKind(t, KindNotFound, err)

	_, err = f.svc.Sessions.RequestOTP(ctx, "  ")
	requireKind(t, KindValidation, err)
}

func TestRequestOTP_DeliveryFailureStillReturnsCode(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.SMS = failingSMS{} })

	challenge, err := f.svc.Sessions.RequestOTP(context.Background(), "+910000000002")
	require.NoError(t, err)
	assert.False(t, challenge.Delivered)
	assert.Equal(t, "123456", challenge.OTP)
}

func TestScanTable_OccupiesTable(t *testing.T) {
	f := newFixture(t)
	id := f.login(t, "+910000000000")

	info, err := f.svc.Sessions.ScanTable(context.Background(), id, "abc123")
	require.NoError(t, err)
	assert.True(t, info.Session.Active)
	assert.Equal(t, "T1", info.Table.TableNumber)
	assert.Equal(t, "Warung Test", info.Restaurant.Name)

	table := f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 1, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.SessionHolder(id)))
	assert.Equal(t, 1, f.notifier.count(EventTableUpdate))

	// scanning again changes nothing
	_, err = f.svc.Sessions.ScanTable(context.Background(), id, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 1, f.reloadTable(t, f.table.ID).CurrentOccupancy)

	var visits []models.Visit
	require.NoError(t, f.db.Where("customer_id = ?", id).Find(&visits).Error)
	assert.Len(t, visits, 1)
}

func TestScanTable_UnknownQRCode(t *testing.T) {
	f := newFixture(t)
	id := f.login(t, "+910000000000")

	_, err := f.svc.Sessions.ScanTable(context.Background(), id, "nope")
	requireKind(t, KindNotFound, err)
}

func TestScanTable_RejectsTableBeingCleaned(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&f.table).Update("status", models.TableCleaning).Error)
	id := f.login(t, "+910000000000")

	_, err := f.svc.Sessions.ScanTable(context.Background(), id, "abc123")
	requireKind(t, KindConflict, err)
}

func TestSharedTable_HoldPassesToRemainingGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.seat(t, "+910000000000", "abc123")
	f.clock.Advance(time.Minute)
	second := f.seat(t, "+910000000001", "abc123")

	table := f.reloadTable(t, f.table.ID)
	assert.Equal(t, 2, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.SessionHolder(first)))

	require.NoError(t, f.svc.Sessions.Checkout(ctx, first))
	table = f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 1, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.SessionHolder(second)))

	require.NoError(t, f.svc.Sessions.Checkout(ctx, second))
	table = f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableCleaning, table.Status)
	assert.Equal(t, 0, table.CurrentOccupancy)
	assert.False(t, table.Held())
}

func TestSharedTable_GuestLeavingKeepsHolder(t *testing.T) {
	f := newFixture(t)

	first := f.seat(t, "+910000000000", "abc123")
	second := f.seat(t, "+910000000001", "abc123")

	require.NoError(t, f.svc.Sessions.Checkout(context.Background(), second))
	table := f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 1, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.SessionHolder(first)))
}

func TestScanTable_ReservedTableRejectsWalkIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := newReservation(t, f, f.clock.Now().Add(3*time.Hour), 2)
	_, err := f.svc.Reservations.AssignTable(ctx, f.restaurant.ID, 1, r.ID, f.table.ID)
	require.NoError(t, err)

	id := f.login(t, "+910000000000")
	_, err = f.svc.Sessions.ScanTable(ctx, id, "abc123")
	requireKind(t, KindConflict, err)

	table := f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableReserved, table.Status)
	assert.Equal(t, 0, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.ReservationHolder(r.ID)))

	customer, err := f.svc.Sessions.Profile(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, customer.SessionInfo)
}

func TestScanTable_GuestOfSeatedReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := newReservation(t, f, f.clock.Now().Add(time.Hour), 2)
	_, err := f.svc.Reservations.AssignTable(ctx, f.restaurant.ID, 1, r.ID, f.table.ID)
	require.NoError(t, err)
	_, err = f.svc.Reservations.UpdateStatus(ctx, f.restaurant.ID, r.ID, "seated")
	require.NoError(t, err)

	guest := f.seat(t, "+910000000000", "abc123")
	table := f.reloadTable(t, f.table.ID)
	assert.Equal(t, 3, table.CurrentOccupancy)
	assert.True(t, table.HeldBy(models.ReservationHolder(r.ID)))

	require.NoError(t, f.svc.Sessions.Checkout(ctx, guest))
	table = f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 2, table.CurrentOccupancy)

	_, err = f.svc.Reservations.UpdateStatus(ctx, f.restaurant.ID, r.ID, "completed")
	require.NoError(t, err)
	table = f.reloadTable(t, f.table.ID)
	assert.Equal(t, models.TableCleaning, table.Status)
	assert.Equal(t, 0, table.CurrentOccupancy)
	assert.False(t, table.Held())
}

func TestScanTable_MovingReleasesPreviousTable(t *testing.T) {
	f := newFixture(t)
	other := f.createTable(t, f.restaurant.ID, "T2", "def456")

	id := f.seat(t, "+910000000000", "abc123")
	_, err := f.svc.Sessions.ScanTable(context.Background(), id, "def456")
	require.NoError(t, err)

	assert.Equal(t, models.TableCleaning, f.reloadTable(t, f.table.ID).Status)
	moved := f.reloadTable(t, other.ID)
	assert.Equal(t, models.TableOccupied, moved.Status)
	assert.True(t, moved.HeldBy(models.SessionHolder(id)))

	var visits []models.Visit
	require.NoError(t, f.db.Where("customer_id = ?", id).Order("id").Find(&visits).Error)
	require.Len(t, visits, 2)
	assert.True(t, visits[0].CheckedOut)
	assert.False(t, visits[1].CheckedOut)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.login(t, "+910000000000")
	requireKind(t, KindPrecondition, f.svc.Sessions.Checkout(ctx, id))

	_, err := f.svc.Sessions.ScanTable(ctx, id, "abc123")
	require.NoError(t, err)
	require.NoError(t, f.svc.Sessions.Checkout(ctx, id))

	profile, err := f.svc.Sessions.Profile(ctx, id)
	require.NoError(t, err)
	assert.False(t, profile.Customer.CurrentSession.Active)
	assert.Nil(t, profile.SessionInfo)
	require.Len(t, profile.Customer.VisitHistory, 1)
	assert.True(t, profile.Customer.VisitHistory[0].CheckedOut)

	requireKind(t, KindPrecondition, f.svc.Sessions.Checkout(ctx, id))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	id := f.login(t, "+910000000000")

	c, err := f.svc.Sessions.UpdateProfile(context.Background(), id, " Budi ")
	require.NoError(t, err)
	assert.Equal(t, "Budi", c.Name)

	_, err = f.svc.Sessions.UpdateProfile(context.Background(), id, "")
	requireKind(t, KindValidation, err)
}
