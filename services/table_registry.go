package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableRegistry is the only component that changes a table's status.
// Every status change goes through the transition table in models and a
// table is owned by at most one holder (a session or a reservation). Only
// the holder may release it.
//
// The tx-suffixed methods run inside the caller's transaction.
type TableRegistry struct {
	db       *gorm.DB
	notifier Notifier
}

func NewTableRegistry(db *gorm.DB, notifier Notifier) *TableRegistry {
	return &TableRegistry{db: db, notifier: notifier}
}

// forUpdate adds a row lock on databases that support SELECT ... FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockTable loads a table for update.
func lockTable(tx *gorm.DB, query interface{}, args ...interface{}) (*models.Table, error) {
	var table models.Table
	if err := forUpdate(tx).Where(query, args...).First(&table).Error; err != nil {
		return nil, lookupError(err, "table")
	}
	return &table, nil
}

func saveTable(tx *gorm.DB, t *models.Table) error {
	err := tx.Model(t).
		Select("status", "current_occupancy", "holder_kind", "holder_id").
		Updates(t).Error
	return dbError(err, "update table")
}

func (r *TableRegistry) transition(t *models.Table, next models.TableStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return ConflictError("table %s cannot move from %s to %s", t.TableNumber, t.Status, next)
	}
	if t.Status != next {
		utils.InfoLogger.WithFields(map[string]interface{}{
			"table_id": t.ID,
			"from":     t.Status,
			"to":       next,
		}).Info("table status changed")
	}
	t.Status = next
	return nil
}

func setHolder(t *models.Table, h models.Holder) {
	if h.Kind == models.HolderNone {
		t.HolderKind = models.HolderNone
		t.HolderID = nil
		return
	}
	id := h.ID
	t.HolderKind = h.Kind
	t.HolderID = &id
}

// activeSessionsAt lists the customers with an active session at the table.
func activeSessionsAt(tx *gorm.DB, tableID uint, except uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Customer{}).
		Where("session_table_id = ? AND session_active = ? AND id <> ?", tableID, true, except).
		Order("session_start_time").
		Pluck("id", &ids).Error
	return ids, dbError(err, "list active sessions")
}

// SeatSessionTx seats a customer at the table. An unheld table is taken by
// the session; a table occupied by someone else is joined as a guest. A table
// still waiting for its reservation party cannot be joined.
func (r *TableRegistry) SeatSessionTx(tx *gorm.DB, t *models.Table, customerID uint, box *outbox) error {
	switch t.Status {
	case models.TableCleaning, models.TableOutOfService:
		return ConflictError("table %s is %s", t.TableNumber, t.Status)
	case models.TableReserved:
		if t.HolderKind == models.HolderReservation {
			return ConflictError("table %s is reserved", t.TableNumber)
		}
	}

	h := models.SessionHolder(customerID)
	switch {
	case t.HeldBy(h):
		return nil
	case t.Held():
		if err := r.transition(t, models.TableOccupied); err != nil {
			return err
		}
		t.CurrentOccupancy++
	default:
		if err := r.transition(t, models.TableOccupied); err != nil {
			return err
		}
		setHolder(t, h)
		t.CurrentOccupancy++
	}
	if t.CurrentOccupancy < 1 {
		t.CurrentOccupancy = 1
	}
	if err := saveTable(tx, t); err != nil {
		return err
	}
	box.add(t.RestaurantID, EventTableUpdate, *t)
	return nil
}

// LeaveSessionTx removes a customer from the table. When the customer is the
// holder and nobody else is seated the table goes to Cleaning, otherwise the
// hold passes to the longest-seated remaining session.
func (r *TableRegistry) LeaveSessionTx(tx *gorm.DB, t *models.Table, customerID uint, box *outbox) error {
	if !t.HeldBy(models.SessionHolder(customerID)) {
		// Guest leaving
		if t.CurrentOccupancy > 1 {
			t.CurrentOccupancy--
		}
		if err := saveTable(tx, t); err != nil {
			return err
		}
		box.add(t.RestaurantID, EventTableUpdate, *t)
		return nil
	}
	return r.releaseTx(tx, t, customerID, box)
}

// OccupyTx marks the table Occupied by h with the given head count.
func (r *TableRegistry) OccupyTx(tx *gorm.DB, t *models.Table, h models.Holder, count int, box *outbox) error {
	if t.Held() && !t.HeldBy(h) {
		return ConflictError("table %s is held by another %s", t.TableNumber, t.HolderKind)
	}
	if err := r.transition(t, models.TableOccupied); err != nil {
		return err
	}
	setHolder(t, h)
	if count < 1 {
		count = 1
	}
	t.CurrentOccupancy = count
	if err := saveTable(tx, t); err != nil {
		return err
	}
	box.add(t.RestaurantID, EventTableUpdate, *t)
	return nil
}

// ReserveTx puts an Available table on hold for h.
func (r *TableRegistry) ReserveTx(tx *gorm.DB, t *models.Table, h models.Holder, box *outbox) error {
	if t.HeldBy(h) {
		return nil
	}
	if t.Held() {
		return ConflictError("table %s is held by another %s", t.TableNumber, t.HolderKind)
	}
	if t.Status != models.TableAvailable {
		return ConflictError("table %s is %s", t.TableNumber, t.Status)
	}
	if err := r.transition(t, models.TableReserved); err != nil {
		return err
	}
	setHolder(t, h)
	if err := saveTable(tx, t); err != nil {
		return err
	}
	box.add(t.RestaurantID, EventTableUpdate, *t)
	return nil
}

// ReleaseTx gives up the hold of h. Releasing a table h does not hold is a
// no-op so that closing a reservation twice is harmless.
func (r *TableRegistry) ReleaseTx(tx *gorm.DB, t *models.Table, h models.Holder, box *outbox) error {
	if !t.HeldBy(h) {
		return nil
	}
	except := uint(0)
	if h.Kind == models.HolderSession {
		except = h.ID
	}
	return r.releaseTx(tx, t, except, box)
}

func (r *TableRegistry) releaseTx(tx *gorm.DB, t *models.Table, except uint, box *outbox) error {
	remaining, err := activeSessionsAt(tx, t.ID, except)
	if err != nil {
		return err
	}

	if len(remaining) > 0 && t.Status == models.TableOccupied {
		setHolder(t, models.SessionHolder(remaining[0]))
		t.CurrentOccupancy = len(remaining)
		utils.InfoLogger.WithFields(map[string]interface{}{
			"table_id":    t.ID,
			"customer_id": remaining[0],
		}).Info("table hold handed over")
	} else {
		next := models.TableAvailable
		if t.Status == models.TableOccupied {
			next = models.TableCleaning
		}
		if err := r.transition(t, next); err != nil {
			return err
		}
		setHolder(t, models.Holder{})
		t.CurrentOccupancy = 0
	}

	if err := saveTable(tx, t); err != nil {
		return err
	}
	box.add(t.RestaurantID, EventTableUpdate, *t)
	return nil
}

// CreateTable registers a table with a fresh QR identifier.
func (r *TableRegistry) CreateTable(ctx context.Context, restaurantID uint, number string, capacity int) (*models.Table, error) {
	if number == "" {
		return nil, ValidationError("table number is required")
	}
	if capacity < 1 {
		return nil, ValidationError("capacity must be at least 1")
	}
	table := models.Table{
		RestaurantID:     restaurantID,
		TableNumber:      number,
		Capacity:         capacity,
		Status:           models.TableAvailable,
		QRCodeIdentifier: uuid.NewString(),
	}
	if err := r.db.WithContext(ctx).Create(&table).Error; err != nil {
		return nil, UnexpectedError("create table", err)
	}
	r.notifier.Publish(restaurantID, EventTableUpdate, table)
	return &table, nil
}

// ListTables returns the tables of a restaurant, optionally filtered by status.
func (r *TableRegistry) ListTables(ctx context.Context, restaurantID uint, status string) ([]models.Table, error) {
	q := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		if !models.TableStatus(status).Valid() {
			return nil, ValidationError("invalid table status %q", status)
		}
		q = q.Where("status = ?", status)
	}
	var tables []models.Table
	if err := q.Order("table_number").Find(&tables).Error; err != nil {
		return nil, UnexpectedError("list tables", err)
	}
	return tables, nil
}

// GetTable loads a table of the restaurant.
func (r *TableRegistry) GetTable(ctx context.Context, restaurantID, tableID uint) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error
	if err != nil {
		return nil, lookupError(err, "table")
	}
	return &table, nil
}

// FindByQRCode resolves a scan identifier.
func (r *TableRegistry) FindByQRCode(ctx context.Context, qr string) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).Where("qr_code_identifier = ?", qr).First(&table).Error; err != nil {
		return nil, lookupError(err, "table")
	}
	return &table, nil
}

// TableUpdate carries the editable attributes of a table.
type TableUpdate struct {
	TableNumber *string
	Capacity    *int
}

func (r *TableRegistry) UpdateTable(ctx context.Context, restaurantID, tableID uint, in TableUpdate) (*models.Table, error) {
	table, err := r.GetTable(ctx, restaurantID, tableID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.TableNumber != nil {
		if *in.TableNumber == "" {
			return nil, ValidationError("table number is required")
		}
		updates["table_number"] = *in.TableNumber
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, ValidationError("capacity must be at least 1")
		}
		updates["capacity"] = *in.Capacity
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(table).Updates(updates).Error; err != nil {
			return nil, UnexpectedError("update table", err)
		}
	}
	return r.GetTable(ctx, restaurantID, tableID)
}

// DeleteTable removes a table that nobody holds.
func (r *TableRegistry) DeleteTable(ctx context.Context, restaurantID, tableID uint) error {
	table, err := r.GetTable(ctx, restaurantID, tableID)
	if err != nil {
		return err
	}
	if table.Held() || table.Status == models.TableOccupied {
		return ConflictError("table %s is in use", table.TableNumber)
	}
	if err := r.db.WithContext(ctx).Delete(table).Error; err != nil {
		return UnexpectedError("delete table", err)
	}
	return nil
}

// SetStatus is the manual staff override. It still honours the transition
// table and refuses to touch a table that has a holder, except for moving an
// Occupied table to Cleaning which ends every session hold on it.
func (r *TableRegistry) SetStatus(ctx context.Context, restaurantID, tableID uint, next models.TableStatus) (*models.Table, error) {
	if !next.Valid() {
		return nil, ValidationError("invalid table status %q", next)
	}
	var table *models.Table
	var box outbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		table, err = lockTable(tx, "id = ? AND restaurant_id = ?", tableID, restaurantID)
		if err != nil {
			return err
		}
		if table.Held() && table.HolderKind == models.HolderReservation && next != table.Status {
			return ConflictError("table %s is held by a reservation", table.TableNumber)
		}
		if err := r.transition(table, next); err != nil {
			return err
		}
		if next != models.TableOccupied {
			setHolder(table, models.Holder{})
			table.CurrentOccupancy = 0
		}
		if err := saveTable(tx, table); err != nil {
			return err
		}
		box.add(table.RestaurantID, EventTableUpdate, *table)
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(r.notifier)
	return table, nil
}

// MarkClean finishes cleaning a table and records who did it. next is
// Available unless the table is taken out of service.
func (r *TableRegistry) MarkClean(ctx context.Context, restaurantID, tableID, cleanerID uint, next models.TableStatus) (*models.Table, error) {
	if next == "" {
		next = models.TableAvailable
	}
	if next != models.TableAvailable && next != models.TableOutOfService {
		return nil, ValidationError("a cleaned table can only become Available or Out of Service")
	}
	var table *models.Table
	var box outbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		table, err = lockTable(tx, "id = ? AND restaurant_id = ?", tableID, restaurantID)
		if err != nil {
			return err
		}
		if table.Status != models.TableCleaning {
			return PreconditionError("table %s is not waiting for cleaning", table.TableNumber)
		}
		if err := r.transition(table, next); err != nil {
			return err
		}
		setHolder(table, models.Holder{})
		table.CurrentOccupancy = 0
		if err := saveTable(tx, table); err != nil {
			return err
		}
		log := models.CleaningLog{
			RestaurantID: restaurantID,
			CleanerID:    cleanerID,
			TableID:      table.ID,
			NextStatus:   string(next),
		}
		if err := tx.Create(&log).Error; err != nil {
			return UnexpectedError("create cleaning log", err)
		}
		box.add(table.RestaurantID, EventTableUpdate, *table)
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(r.notifier)
	return table, nil
}

// CleaningLogs lists the most recent cleanings of a restaurant.
func (r *TableRegistry) CleaningLogs(ctx context.Context, restaurantID uint, limit int) ([]models.CleaningLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []models.CleaningLog
	err := r.db.WithContext(ctx).
		Preload("Cleaner").Preload("Table").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, UnexpectedError("list cleaning logs", err)
	}
	return logs, nil
}
