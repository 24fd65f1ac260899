package repo

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/shopspring/decimal"
)

// InMemoryAnalyticsRepository computes every dashboard aggregate from the
// entity lists of an EntityRepository.
type InMemoryAnalyticsRepository struct {
	entities EntityRepository
}

func NewInMemoryAnalyticsRepository(entities EntityRepository) *InMemoryAnalyticsRepository {
	return &InMemoryAnalyticsRepository{entities: entities}
}

type tenantData struct {
	customers []models.Customer
	orders    []models.Order
	products  []models.Product
}

func (r *InMemoryAnalyticsRepository) load(ctx context.Context, q analytics.Query) (tenantData, error) {
	if err := checkScope(q); err != nil {
		return tenantData{}, err
	}
	if err := ctx.Err(); err != nil {
		return tenantData{}, err
	}

	var d tenantData
	var err error
	if d.customers, err = r.entities.Customers(q.Scope.TenantID); err != nil {
		return d, err
	}
	if d.orders, err = r.entities.Orders(q.Scope.TenantID); err != nil {
		return d, err
	}
	if d.products, err = r.entities.Products(q.Scope.TenantID); err != nil {
		return d, err
	}
	return d, nil
}

func ordersIn(orders []models.Order, w analytics.Window) []models.Order {
	start, end := windowBounds(w)
	out := []models.Order{}
	for _, o := range orders {
		if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			out = append(out, o)
		}
	}
	return out
}

// Metrics implements analytics.Source.
func (r *InMemoryAnalyticsRepository) Metrics(ctx context.Context, q analytics.Query) (models.MetricSnapshot, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return models.MetricSnapshot{}, err
	}
	if len(d.customers) == 0 && len(d.orders) == 0 {
		return models.MetricSnapshot{}, resolve.ErrNoData
	}

	orders := ordersIn(d.orders, q.Window)
	m := models.MetricSnapshot{
		TotalCustomers: len(d.customers),
		TotalOrders:    len(orders),
		TotalRevenue:   decimal.Zero,
	}

	perCustomer := map[int]int{}
	for _, o := range orders {
		m.TotalRevenue = m.TotalRevenue.Add(o.TotalPrice)
		perCustomer[o.CustomerID]++
	}
	m.TotalRevenue = m.TotalRevenue.Round(2)
	m.AverageOrderValue = decimal.Zero
	if m.TotalOrders > 0 {
		m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
	}

	repeat := 0
	for _, n := range perCustomer {
		if n > 1 {
			repeat++
		}
	}
	m.ConversionRate = percent(len(perCustomer), m.TotalCustomers)
	m.RepeatCustomerRate = percent(repeat, len(perCustomer))
	return m, nil
}

// TopCustomers implements analytics.Source.
func (r *InMemoryAnalyticsRepository) TopCustomers(ctx context.Context, q analytics.Query) ([]models.CustomerSummary, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	lastOrder := map[int]time.Time{}
	for _, o := range d.orders {
		if o.CreatedAt.After(lastOrder[o.CustomerID]) {
			lastOrder[o.CustomerID] = o.CreatedAt
		}
	}

	customers := slices.Clone(d.customers)
	slices.SortStableFunc(customers, func(a, b models.Customer) int {
		if c := b.TotalSpent.Cmp(a.TotalSpent); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if q.Limit > 0 && len(customers) > q.Limit {
		customers = customers[:q.Limit]
	}

	out := make([]models.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		last, ok := lastOrder[c.ID]
		if !ok {
			last = c.CreatedAt
		}
		out = append(out, models.CustomerSummary{
			ID:            c.ID,
			Name:          c.FullName(),
			Email:         c.Email,
			TotalSpent:    c.TotalSpent,
			OrderCount:    c.OrdersCount,
			LastOrderDate: last,
			CustomerSince: c.CreatedAt,
		})
	}
	return out, nil
}

// DailyTrends implements analytics.Source. A window without orders yields
// no points.
func (r *InMemoryAnalyticsRepository) DailyTrends(ctx context.Context, q analytics.Query) ([]models.TrendPoint, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}
	orders := ordersIn(d.orders, q.Window)
	if len(orders) == 0 {
		return nil, nil
	}

	byDay := map[time.Time]*models.TrendPoint{}
	points := make([]models.TrendPoint, 0, q.Window.Days)
	for _, date := range q.Window.Dates() {
		points = append(points, models.TrendPoint{Date: date, Revenue: decimal.Zero, DayOfWeek: models.Weekday(date.Weekday())})
	}
	for i := range points {
		byDay[points[i].Date] = &points[i]
	}
	for _, o := range orders {
		p := byDay[utcDay(o.CreatedAt)]
		p.OrderCount++
		p.Revenue = p.Revenue.Add(o.TotalPrice)
	}
	return points, nil
}

// MonthlyRevenue implements analytics.Source. Only months with orders are
// reported.
func (r *InMemoryAnalyticsRepository) MonthlyRevenue(ctx context.Context, q analytics.Query) ([]models.RevenueByPeriod, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	from, to := q.Window.MonthStart(), q.Window.End.AddDate(0, 0, 1)
	byMonth := map[time.Time]*models.RevenueByPeriod{}
	var months []time.Time
	for _, o := range d.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		t := o.CreatedAt.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		p, ok := byMonth[month]
		if !ok {
			p = &models.RevenueByPeriod{PeriodLabel: month.Format(analytics.MonthLabelLayout), Revenue: decimal.Zero}
			byMonth[month] = p
			months = append(months, month)
		}
		p.OrderCount++
		p.Revenue = p.Revenue.Add(o.TotalPrice)
	}

	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })
	out := make([]models.RevenueByPeriod, 0, len(months))
	for _, m := range months {
		out = append(out, *byMonth[m])
	}
	return out, nil
}

// StatusDistribution implements analytics.Source. Raw statuses that do not
// parse are kept as reported.
func (r *InMemoryAnalyticsRepository) StatusDistribution(ctx context.Context, q analytics.Query) (models.StatusDistribution, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	dist := models.StatusDistribution{}
	for _, o := range ordersIn(d.orders, q.Window) {
		status, err := models.ParseOrderStatus(string(o.Status))
		if err != nil {
			status = o.Status
		}
		dist[status]++
	}
	return dist, nil
}

// TopProducts implements analytics.Source.
func (r *InMemoryAnalyticsRepository) TopProducts(ctx context.Context, q analytics.Query) ([]models.ProductPerformance, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	catalog := make(map[int]models.Product, len(d.products))
	for _, p := range d.products {
		catalog[p.ID] = p
	}

	perf := map[int]*models.ProductPerformance{}
	for _, o := range ordersIn(d.orders, q.Window) {
		for _, it := range o.Items {
			p, ok := catalog[it.ProductID]
			if !ok {
				continue
			}
			pp, ok := perf[p.ID]
			if !ok {
				pp = &models.ProductPerformance{
					ID:       p.ID,
					Name:     p.Name,
					Category: p.Category,
					Price:    p.Price,
					Revenue:  decimal.Zero,
					InStock:  p.Quantity > 0,
				}
				perf[p.ID] = pp
			}
			pp.UnitsSold += it.Quantity
			pp.Revenue = pp.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]models.ProductPerformance, 0, len(perf))
	for _, pp := range perf {
		pp.Revenue = pp.Revenue.Round(2)
		out = append(out, *pp)
	}
	slices.SortFunc(out, func(a, b models.ProductPerformance) int {
		if c := cmp.Compare(b.UnitsSold, a.UnitsSold); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Acquisition implements analytics.Source. Returning customers are those who
// ordered on a day after the day they signed up.
func (r *InMemoryAnalyticsRepository) Acquisition(ctx context.Context, q analytics.Query) ([]models.CustomerAcquisitionPoint, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	signup := make(map[int]time.Time, len(d.customers))
	newPerDay := map[time.Time]int{}
	for _, c := range d.customers {
		signup[c.ID] = utcDay(c.CreatedAt)
		newPerDay[utcDay(c.CreatedAt)]++
	}

	ordering := map[time.Time]map[int]bool{}
	for _, o := range ordersIn(d.orders, q.Window) {
		day := utcDay(o.CreatedAt)
		if ordering[day] == nil {
			ordering[day] = map[int]bool{}
		}
		ordering[day][o.CustomerID] = true
	}

	points := make([]models.CustomerAcquisitionPoint, 0, q.Window.Days)
	active := false
	for _, day := range q.Window.Dates() {
		returning := 0
		for id := range ordering[day] {
			if s, ok := signup[id]; ok && s.Before(day) {
				returning++
			}
		}
		known := 0
		for _, s := range signup {
			if !s.After(day) {
				known++
			}
		}
		p := models.CustomerAcquisitionPoint{
			Date:               day,
			NewCustomers:       newPerDay[day],
			ReturningCustomers: returning,
			ConversionRate:     percent(len(ordering[day]), known),
		}
		p.TotalCustomers = p.NewCustomers + p.ReturningCustomers
		if p.TotalCustomers > 0 {
			active = true
		}
		points = append(points, p)
	}
	if !active {
		return nil, nil
	}
	return points, nil
}

// RecentOrders implements analytics.Source.
func (r *InMemoryAnalyticsRepository) RecentOrders(ctx context.Context, q analytics.Query) ([]models.RecentOrder, error) {
	d, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(d.customers))
	for _, c := range d.customers {
		names[c.ID] = c.FullName()
	}
	products := make(map[int]string, len(d.products))
	for _, p := range d.products {
		products[p.ID] = p.Name
	}

	orders := slices.Clone(d.orders)
	slices.SortStableFunc(orders, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if q.Limit > 0 && len(orders) > q.Limit {
		orders = orders[:q.Limit]
	}

	out := make([]models.RecentOrder, 0, len(orders))
	for _, o := range orders {
		ro := models.RecentOrder{
			ID:       o.Number,
			Customer: names[o.CustomerID],
			Amount:   o.TotalPrice,
			Status:   o.Status,
			PlacedAt: o.CreatedAt,
		}
		if status, err := models.ParseOrderStatus(string(o.Status)); err == nil {
			ro.Status = status
		}
		if len(o.Items) > 0 {
			ro.Product = products[o.Items[0].ProductID]
		}
		out = append(out, ro)
	}
	return out, nil
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
