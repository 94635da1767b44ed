package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/dinein-backend/models"
	"github.com/yeremiapane/dinein-backend/utils"
	"gorm.io/gorm"
)

type ReservationService struct {
	db       *gorm.DB
	tables   *TableRegistry
	notifier Notifier
	now      func() time.Time
}

type ReservationInput struct {
	CustomerName    string
	PhoneNumber     string
	Email           string
	PartySize       int
	ReservationDate time.Time
	SpecialRequests string
}

func (in ReservationInput) validate() error {
	switch {
	case strings.TrimSpace(in.CustomerName) == "":
		return ValidationError("Customer name is required")
	case strings.TrimSpace(in.PhoneNumber) == "":
		return ValidationError("Phone number is required")
	case in.PartySize < 1:
		return ValidationError("Party size must be at least 1")
	case in.ReservationDate.IsZero():
		return ValidationError("Reservation date is required")
	}
	return nil
}

func (s *ReservationService) Create(ctx context.Context, restaurantID, staffID uint, in ReservationInput) (*models.Reservation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := models.Reservation{
		RestaurantID: restaurantID,
		Customer: models.ReservationContact{
			Name:        strings.TrimSpace(in.CustomerName),
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
			Email:       in.Email,
		},
		PartySize:       in.PartySize,
		ReservationDate: in.ReservationDate,
		SpecialRequests: in.SpecialRequests,
		Status:          models.ReservationPending,
		CreatedByID:     staffID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return UnexpectedError("create reservation", err)
		}
		msg := r.Customer.Name + " booked for " + r.ReservationDate.Format("2006-01-02 15:04")
		return createNotificationTx(tx, restaurantID, NotificationReservation, "New reservation", msg)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type ReservationFilter struct {
	Date   *time.Time
	Status string
}

func dayBounds(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *ReservationService) List(ctx context.Context, restaurantID uint, f ReservationFilter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Preload("Table").Where("restaurant_id = ?", restaurantID)
	if f.Date != nil {
		start, end := dayBounds(*f.Date)
		q = q.Where("reservation_date >= ? AND reservation_date < ?", start, end)
	}
	if f.Status != "" {
		if !models.ReservationStatus(f.Status).Valid() {
			return nil, ValidationError("Valid status is required")
		}
		q = q.Where("status = ?", f.Status)
	}
	var list []models.Reservation
	if err := q.Order("reservation_date ASC, id ASC").Find(&list).Error; err != nil {
		return nil, UnexpectedError("list reservations", err)
	}
	return list, nil
}

func (s *ReservationService) load(tx *gorm.DB, restaurantID, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := forUpdate(tx).First(&r, id).Error; err != nil {
		return nil, lookupError(err, "Reservation")
	}
	if r.RestaurantID != restaurantID {
		return nil, ForbiddenError("Not authorized to access this reservation")
	}
	return &r, nil
}

func (s *ReservationService) Get(ctx context.Context, restaurantID, id uint) (*models.Reservation, error) {
	r, err := s.load(s.db.WithContext(ctx), restaurantID, id)
	if err != nil {
		return nil, err
	}
	if r.TableID != nil {
		var t models.Table
		if err := s.db.WithContext(ctx).First(&t, *r.TableID).Error; err == nil {
			r.Table = &t
		}
	}
	return r, nil
}

type ReservationUpdate struct {
	CustomerName    *string
	PhoneNumber     *string
	Email           *string
	PartySize       *int
	ReservationDate *time.Time
	SpecialRequests *string
}

// Update edits the booking details of an open reservation.
func (s *ReservationService) Update(ctx context.Context, restaurantID, id uint, in ReservationUpdate) (*models.Reservation, error) {
	var r *models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.load(tx, restaurantID, id); err != nil {
			return err
		}
		if r.Status.Closed() {
			return PreconditionError("Reservation is %s", r.Status)
		}
		if in.CustomerName != nil {
			r.Customer.Name = strings.TrimSpace(*in.CustomerName)
		}
		if in.PhoneNumber != nil {
			r.Customer.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
		}
		if in.Email != nil {
			r.Customer.Email = *in.Email
		}
		if in.PartySize != nil {
			r.PartySize = *in.PartySize
		}
		if in.ReservationDate != nil {
			r.ReservationDate = *in.ReservationDate
		}
		if in.SpecialRequests != nil {
			r.SpecialRequests = *in.SpecialRequests
		}
		err = ReservationInput{
			CustomerName:    r.Customer.Name,
			PhoneNumber:     r.Customer.PhoneNumber,
			PartySize:       r.PartySize,
			ReservationDate: r.ReservationDate,
		}.validate()
		if err != nil {
			return err
		}
		err = tx.Model(r).Select("customer_name", "customer_phone_number", "customer_email",
			"party_size", "reservation_date", "special_requests").Updates(r).Error
		return dbError(err, "update reservation")
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// AssignTable points the reservation at a table of the same restaurant and
// confirms it if it was pending. A reservation for today also puts the table
// on hold when it is free. Moving to another table releases the previous hold.
func (s *ReservationService) AssignTable(ctx context.Context, restaurantID, staffID, id, tableID uint) (*models.Reservation, error) {
	if tableID == 0 {
		return nil, ValidationError("Table ID is required")
	}
	var r *models.Reservation
	var box outbox
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.load(tx, restaurantID, id); err != nil {
			return err
		}
		if r.Status.Closed() {
			return PreconditionError("Reservation is %s", r.Status)
		}
		if r.Status == models.ReservationSeated && (r.TableID == nil || *r.TableID != tableID) {
			return PreconditionError("A seated reservation cannot change table")
		}

		table, err := lockTable(tx, "id = ? AND restaurant_id = ?", tableID, restaurantID)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return NotFoundError("Table not found or does not belong to your restaurant")
			}
			return err
		}

		holder := models.ReservationHolder(r.ID)
		if r.TableID != nil && *r.TableID != table.ID {
			prev, err := lockTable(tx, "id = ?", *r.TableID)
			if err == nil {
				if err := s.tables.ReleaseTx(tx, prev, holder, &box); err != nil {
					return err
				}
			} else if KindOf(err) != KindNotFound {
				return err
			}
		}

		if r.SameDay(s.now()) && !table.Held() && table.Status == models.TableAvailable {
			if err := s.tables.ReserveTx(tx, table, holder, &box); err != nil {
				return err
			}
		}

		r.TableID = &table.ID
		r.Table = table
		r.AssignedByID = &staffID
		if r.Status == models.ReservationPending {
			r.Status = models.ReservationConfirmed
		}
		err = tx.Model(&models.Reservation{ID: r.ID}).Updates(map[string]interface{}{
			"table_id":       table.ID,
			"assigned_by_id": staffID,
			"status":         r.Status,
		}).Error
		return dbError(err, "assign table")
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.notifier)
	return r, nil
}

// UpdateStatus moves a reservation through its transition table. Seating
// occupies the assigned table; closing the reservation releases its hold.
func (s *ReservationService) UpdateStatus(ctx context.Context, restaurantID, id uint, status string) (*models.Reservation, error) {
	next := models.ReservationStatus(status)
	if !next.Valid() {
		return nil, ValidationError("Valid status is required")
	}
	var r *models.Reservation
	var box outbox
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.load(tx, restaurantID, id); err != nil {
			return err
		}
		if !r.Status.CanTransitionTo(next) {
			return ConflictError("reservation cannot move from %s to %s", r.Status, next)
		}
		if r.Status == next {
			return nil
		}

		holder := models.ReservationHolder(r.ID)
		switch {
		case next == models.ReservationSeated:
			if r.TableID == nil {
				return PreconditionError("Assign a table before seating")
			}
			table, err := lockTable(tx, "id = ?", *r.TableID)
			if err != nil {
				return err
			}
			if err := s.tables.OccupyTx(tx, table, holder, r.PartySize, &box); err != nil {
				return err
			}
			r.Table = table
		case next.Closed() && r.TableID != nil:
			table, err := lockTable(tx, "id = ?", *r.TableID)
			if err != nil && KindOf(err) != KindNotFound {
				return err
			}
			if table != nil {
				if err := s.tables.ReleaseTx(tx, table, holder, &box); err != nil {
					return err
				}
				r.Table = table
			}
		}

		r.Status = next
		err = tx.Model(&models.Reservation{ID: r.ID}).Update("status", next).Error
		return dbError(err, "update reservation status")
	})
	if err != nil {
		return nil, err
	}
	box.flush(s.notifier)
	utils.InfoLogger.WithFields(map[string]interface{}{
		"reservation_id": r.ID,
		"status":         r.Status,
	}).Info("reservation status changed")
	return r, nil
}

// AvailableTables lists tables big enough for the party that no open
// reservation of that day points at. There is no time-slot granularity.
func (s *ReservationService) AvailableTables(ctx context.Context, restaurantID uint, date time.Time, partySize int) ([]models.Table, error) {
	if date.IsZero() || partySize < 1 {
		return nil, ValidationError("Date and party size are required")
	}
	start, end := dayBounds(date)
	db := s.db.WithContext(ctx)

	booked := db.Model(&models.Reservation{}).
		Select("table_id").
		Where("restaurant_id = ? AND table_id IS NOT NULL", restaurantID).
		Where("reservation_date >= ? AND reservation_date < ?", start, end).
		Where("status IN ?", []models.ReservationStatus{
			models.ReservationPending, models.ReservationConfirmed, models.ReservationSeated,
		})

	var tables []models.Table
	err := db.Where("restaurant_id = ? AND capacity >= ?", restaurantID, partySize).
		Where("id NOT IN (?)", booked).
		Order("table_number").
		Find(&tables).Error
	if err != nil {
		return nil, UnexpectedError("list available tables", err)
	}
	return tables, nil
}
