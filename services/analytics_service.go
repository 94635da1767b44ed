package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein-backend/models"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

type DashboardSummary struct {
	TodayRevenue   decimal.Decimal              `json:"today_revenue"`
	TodayPaidCount int                          `json:"today_paid_orders"`
	ActiveOrders   int64                        `json:"active_orders"`
	TableStats     map[models.TableStatus]int64 `json:"table_stats"`
}

// DashboardSummary aggregates today's paid orders, open orders and table states.
func (s *AnalyticsService) DashboardSummary(ctx context.Context, restaurantID uint) (*DashboardSummary, error) {
	db := s.db.WithContext(ctx)
	start, end := dayBounds(s.now())

	var paid []models.Order
	err := db.Select("id", "total_amount").
		Where("restaurant_id = ? AND is_paid = ? AND created_at >= ? AND created_at < ?", restaurantID, true, start, end).
		Find(&paid).Error
	if err != nil {
		return nil, UnexpectedError("load paid orders", err)
	}

	summary := &DashboardSummary{
		TodayRevenue:   decimal.Zero,
		TodayPaidCount: len(paid),
		TableStats:     map[models.TableStatus]int64{},
	}
	for _, o := range paid {
		summary.TodayRevenue = summary.TodayRevenue.Add(o.TotalAmount)
	}

	err = db.Model(&models.Order{}).
		Where("restaurant_id = ? AND status <> ?", restaurantID, models.OrderCompleted).
		Count(&summary.ActiveOrders).Error
	if err != nil {
		return nil, UnexpectedError("count active orders", err)
	}

	var rows []struct {
		Status models.TableStatus
		Total  int64
	}
	err = db.Model(&models.Table{}).
		Select("status, COUNT(*) AS total").
		Where("restaurant_id = ?", restaurantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, UnexpectedError("count tables", err)
	}
	for _, st := range []models.TableStatus{
		models.TableAvailable, models.TableReserved, models.TableOccupied, models.TableCleaning, models.TableOutOfService,
	} {
		summary.TableStats[st] = 0
	}
	for _, r := range rows {
		summary.TableStats[r.Status] = r.Total
	}
	return summary, nil
}

type DailyRevenue struct {
	Date              string                     `json:"date"`
	Revenue           decimal.Decimal            `json:"revenue"`
	OrderCount        int                        `json:"order_count"`
	AverageOrderValue decimal.Decimal            `json:"average_order_value"`
	PaymentMethods    map[string]decimal.Decimal `json:"payment_methods"`
}

// DailyRevenue reports paid orders per calendar day in [from, to].
func (s *AnalyticsService) DailyRevenue(ctx context.Context, restaurantID uint, from, to time.Time) ([]DailyRevenue, error) {
	orders, err := s.paidOrders(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	days := map[string]*DailyRevenue{}
	var keys []string
	for _, o := range orders {
		key := o.CreatedAt.In(from.Location()).Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &DailyRevenue{Date: key, Revenue: decimal.Zero, PaymentMethods: map[string]decimal.Decimal{}}
			days[key] = d
			keys = append(keys, key)
		}
		d.Revenue = d.Revenue.Add(o.TotalAmount)
		d.OrderCount++
		method := o.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		d.PaymentMethods[method] = d.PaymentMethods[method].Add(o.TotalAmount)
	}

	sort.Strings(keys)
	out := make([]DailyRevenue, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		d.AverageOrderValue = d.Revenue.Div(decimal.NewFromInt(int64(d.OrderCount))).Round(2)
		out = append(out, *d)
	}
	return out, nil
}

type TopSellingItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopSellingItems ranks products of paid orders by quantity sold.
func (s *AnalyticsService) TopSellingItems(ctx context.Context, restaurantID uint, limit int) ([]TopSellingItem, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []models.OrderItem
	err := s.db.WithContext(ctx).
		Select("order_items.*").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.is_paid = ?", restaurantID, true).
		Find(&items).Error
	if err != nil {
		return nil, UnexpectedError("load order items", err)
	}

	byProduct := map[uint]*TopSellingItem{}
	for _, it := range items {
		t, ok := byProduct[it.ProductID]
		if !ok {
			t = &TopSellingItem{ProductID: it.ProductID, ProductName: it.ProductName, Revenue: decimal.Zero}
			byProduct[it.ProductID] = t
		}
		t.Quantity += it.Quantity
		t.Revenue = t.Revenue.Add(it.Subtotal())
	}

	out := make([]TopSellingItem, 0, len(byProduct))
	for _, t := range byProduct {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// paidOrders loads the paid orders created in the calendar days [from, to].
func (s *AnalyticsService) paidOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	if to.Before(from) {
		return nil, ValidationError("'to' must not be before 'from'")
	}
	start, _ := dayBounds(from)
	_, end := dayBounds(to)
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Select("id", "total_amount", "payment_method", "created_at").
		Where("restaurant_id = ? AND is_paid = ? AND created_at >= ? AND created_at < ?", restaurantID, true, start, end).
		Order("created_at").
		Find(&orders).Error
	if err != nil {
		return nil, UnexpectedError("load paid orders", err)
	}
	return orders, nil
}

type AverageOrderValue struct {
	From              string          `json:"from"`
	To                string          `json:"to"`
	OrderCount        int             `json:"order_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// AverageOrderValue is the mean total of paid orders in [from, to]. It is zero
// when nothing was paid.
func (s *AnalyticsService) AverageOrderValue(ctx context.Context, restaurantID uint, from, to time.Time) (*AverageOrderValue, error) {
	orders, err := s.paidOrders(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	out := &AverageOrderValue{
		From:              from.Format("2006-01-02"),
		To:                to.Format("2006-01-02"),
		OrderCount:        len(orders),
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, o := range orders {
		out.Revenue = out.Revenue.Add(o.TotalAmount)
	}
	if out.OrderCount > 0 {
		out.AverageOrderValue = out.Revenue.Div(decimal.NewFromInt(int64(out.OrderCount))).Round(2)
	}
	return out, nil
}

type TableOccupancyRow struct {
	TableID          uint               `json:"table_id"`
	TableNumber      string             `json:"table_number"`
	Status           models.TableStatus `json:"status"`
	Capacity         int                `json:"capacity"`
	CurrentOccupancy int                `json:"current_occupancy"`
}

type TableOccupancy struct {
	TotalTables    int                 `json:"total_tables"`
	OccupiedTables int                 `json:"occupied_tables"`
	TotalSeats     int                 `json:"total_seats"`
	SeatedGuests   int                 `json:"seated_guests"`
	OccupancyRate  decimal.Decimal     `json:"occupancy_rate"`
	SeatUsageRate  decimal.Decimal     `json:"seat_usage_rate"`
	Tables         []TableOccupancyRow `json:"tables"`
}

// TableOccupancy is a snapshot of the floor. Rates are percentages rounded to
// two places. Out-of-service tables count neither as tables nor as seats.
func (s *AnalyticsService) TableOccupancy(ctx context.Context, restaurantID uint) (*TableOccupancy, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("table_number").
		Find(&tables).Error
	if err != nil {
		return nil, UnexpectedError("load tables", err)
	}

	out := &TableOccupancy{
		OccupancyRate: decimal.Zero,
		SeatUsageRate: decimal.Zero,
		Tables:        make([]TableOccupancyRow, 0, len(tables)),
	}
	for _, t := range tables {
		out.Tables = append(out.Tables, TableOccupancyRow{
			TableID:          t.ID,
			TableNumber:      t.TableNumber,
			Status:           t.Status,
			Capacity:         t.Capacity,
			CurrentOccupancy: t.CurrentOccupancy,
		})
		if t.Status == models.TableOutOfService {
			continue
		}
		out.TotalTables++
		out.TotalSeats += t.Capacity
		out.SeatedGuests += t.CurrentOccupancy
		if t.Status == models.TableOccupied {
			out.OccupiedTables++
		}
	}
	out.OccupancyRate = percent(out.OccupiedTables, out.TotalTables)
	out.SeatUsageRate = percent(out.SeatedGuests, out.TotalSeats)
	return out, nil
}

func percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).Round(2)
}

type PeakHour struct {
	Hour       int             `json:"hour"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// PeakHours buckets the paid orders of [from, to] by hour of day in the
// location of from. The busiest hour comes first; ties go to the earlier hour.
// Hours without orders are left out.
func (s *AnalyticsService) PeakHours(ctx context.Context, restaurantID uint, from, to time.Time) ([]PeakHour, error) {
	orders, err := s.paidOrders(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	var hours [24]PeakHour
	for h := range hours {
		hours[h] = PeakHour{Hour: h, Revenue: decimal.Zero}
	}
	for _, o := range orders {
		h := o.CreatedAt.In(from.Location()).Hour()
		hours[h].OrderCount++
		hours[h].Revenue = hours[h].Revenue.Add(o.TotalAmount)
	}

	out := make([]PeakHour, 0, 24)
	for _, h := range hours {
		if h.OrderCount > 0 {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderCount > out[j].OrderCount
	})
	return out, nil
}

type PaymentMethodShare struct {
	Method     string          `json:"method"`
	OrderCount int             `json:"order_count"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PaymentMethodDistribution splits the paid orders of [from, to] by payment
// method. Percentage is the share of the order count.
func (s *AnalyticsService) PaymentMethodDistribution(ctx context.Context, restaurantID uint, from, to time.Time) ([]PaymentMethodShare, error) {
	orders, err := s.paidOrders(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	byMethod := map[string]*PaymentMethodShare{}
	for _, o := range orders {
		method := o.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		m, ok := byMethod[method]
		if !ok {
			m = &PaymentMethodShare{Method: method, Amount: decimal.Zero}
			byMethod[method] = m
		}
		m.OrderCount++
		m.Amount = m.Amount.Add(o.TotalAmount)
	}

	out := make([]PaymentMethodShare, 0, len(byMethod))
	for _, m := range byMethod {
		m.Percentage = percent(m.OrderCount, len(orders))
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}
