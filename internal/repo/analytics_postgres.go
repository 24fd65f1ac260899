package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/shopspring/decimal"
)

const defaultQueryTimeout = 3 * time.Second

type PostgresAnalyticsRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresAnalyticsRepository(db *sql.DB, timeout time.Duration) *PostgresAnalyticsRepository {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &PostgresAnalyticsRepository{db: db, timeout: timeout}
}

func (r *PostgresAnalyticsRepository) Metrics(ctx context.Context, q analytics.Query) (models.MetricSnapshot, error) {
	if err := checkScope(q); err != nil {
		return models.MetricSnapshot{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start, end := windowBounds(q.Window)
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers WHERE tenant_id = $1),
			COUNT(*),
			COALESCE(SUM(total_price), 0),
			COUNT(DISTINCT customer_id),
			(SELECT COUNT(*) FROM (
				SELECT customer_id FROM orders
				WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
				GROUP BY customer_id HAVING COUNT(*) > 1
			) repeaters)
		FROM orders
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var m models.MetricSnapshot
	var ordering, repeat int
	err := r.db.QueryRowContext(ctx, query, q.Scope.TenantID, start, end).
		Scan(&m.TotalCustomers, &m.TotalOrders, &m.TotalRevenue, &ordering, &repeat)
	if err != nil {
		return models.MetricSnapshot{}, fmt.Errorf("query metrics: %w", err)
	}
	if m.TotalCustomers == 0 && m.TotalOrders == 0 {
		return models.MetricSnapshot{}, resolve.ErrNoData
	}

	m.TotalRevenue = m.TotalRevenue.Round(2)
	m.AverageOrderValue = decimal.Zero
	if m.TotalOrders > 0 {
		m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
	}
	m.ConversionRate = percent(ordering, m.TotalCustomers)
	m.RepeatCustomerRate = percent(repeat, ordering)
	return m, nil
}

func (r *PostgresAnalyticsRepository) TopCustomers(ctx context.Context, q analytics.Query) ([]models.CustomerSummary, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT c.id, c.first_name, c.last_name, c.email, c.total_spent, c.orders_count, c.created_at,
			COALESCE(MAX(o.created_at), c.created_at)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.tenant_id = c.tenant_id
		WHERE c.tenant_id = $1
		GROUP BY c.id
		ORDER BY c.total_spent DESC, c.id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("query top customers: %w", err)
	}
	defer rows.Close()

	var customers []models.CustomerSummary
	for rows.Next() {
		var c models.Customer
		var last time.Time
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.TotalSpent, &c.OrdersCount, &c.CreatedAt, &last); err != nil {
			return nil, err
		}
		customers = append(customers, models.CustomerSummary{
			ID:            c.ID,
			Name:          c.FullName(),
			Email:         c.Email,
			TotalSpent:    c.TotalSpent,
			OrderCount:    c.OrdersCount,
			LastOrderDate: last,
			CustomerSince: c.CreatedAt,
		})
	}
	return customers, rows.Err()
}

// DailyTrends reports every window day. A window without orders yields no
// points.
func (r *PostgresAnalyticsRepository) DailyTrends(ctx context.Context, q analytics.Query) ([]models.TrendPoint, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT d::date, COUNT(o.id), COALESCE(SUM(o.total_price), 0)
		FROM generate_series($2::timestamp, $3::timestamp, interval '1 day') AS d
		LEFT JOIN orders o ON o.tenant_id = $1 AND o.created_at >= d AND o.created_at < d + interval '1 day'
		GROUP BY d
		ORDER BY d
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, q.Window.Start, q.Window.End)
	if err != nil {
		return nil, fmt.Errorf("query daily trends: %w", err)
	}
	defer rows.Close()

	var points []models.TrendPoint
	total := 0
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.OrderCount, &p.Revenue); err != nil {
			return nil, err
		}
		p.Date = utcDay(p.Date)
		p.DayOfWeek = models.Weekday(p.Date.Weekday())
		total += p.OrderCount
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	return points, nil
}

func (r *PostgresAnalyticsRepository) MonthlyRevenue(ctx context.Context, q analytics.Query) ([]models.RevenueByPeriod, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT to_char(date_trunc('month', created_at), 'Mon YYYY'), COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY date_trunc('month', created_at)
		ORDER BY date_trunc('month', created_at)
	`
	_, end := windowBounds(q.Window)
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, q.Window.MonthStart(), end)
	if err != nil {
		return nil, fmt.Errorf("query monthly revenue: %w", err)
	}
	defer rows.Close()

	var months []models.RevenueByPeriod
	for rows.Next() {
		var p models.RevenueByPeriod
		if err := rows.Scan(&p.PeriodLabel, &p.OrderCount, &p.Revenue); err != nil {
			return nil, err
		}
		months = append(months, p)
	}
	return months, rows.Err()
}

func (r *PostgresAnalyticsRepository) StatusDistribution(ctx context.Context, q analytics.Query) (models.StatusDistribution, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start, end := windowBounds(q.Window)
	query := `
		SELECT status, COUNT(*)
		FROM orders
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY status
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query status distribution: %w", err)
	}
	defer rows.Close()

	dist := models.StatusDistribution{}
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			status = models.OrderStatus(raw)
		}
		dist[status] += n
	}
	return dist, rows.Err()
}

func (r *PostgresAnalyticsRepository) TopProducts(ctx context.Context, q analytics.Query) ([]models.ProductPerformance, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start, end := windowBounds(q.Window)
	query := `
		SELECT p.id, p.name, p.category, p.price, p.quantity,
			SUM(oi.quantity) AS units, SUM(oi.quantity * oi.price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.tenant_id = $1 AND o.created_at >= $2 AND o.created_at < $3
		GROUP BY p.id
		ORDER BY units DESC, p.id
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, start, end, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductPerformance
	for rows.Next() {
		var p models.ProductPerformance
		var stock int
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &stock, &p.UnitsSold, &p.Revenue); err != nil {
			return nil, err
		}
		p.InStock = stock > 0
		p.Revenue = p.Revenue.Round(2)
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresAnalyticsRepository) Acquisition(ctx context.Context, q analytics.Query) ([]models.CustomerAcquisitionPoint, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT d::date,
			(SELECT COUNT(*) FROM customers c
				WHERE c.tenant_id = $1 AND c.created_at >= d AND c.created_at < d + interval '1 day'),
			(SELECT COUNT(DISTINCT o.customer_id) FROM orders o JOIN customers c ON c.id = o.customer_id
				WHERE o.tenant_id = $1 AND o.created_at >= d AND o.created_at < d + interval '1 day' AND c.created_at < d),
			(SELECT COUNT(DISTINCT o.customer_id) FROM orders o
				WHERE o.tenant_id = $1 AND o.created_at >= d AND o.created_at < d + interval '1 day'),
			(SELECT COUNT(*) FROM customers c
				WHERE c.tenant_id = $1 AND c.created_at < d + interval '1 day')
		FROM generate_series($2::timestamp, $3::timestamp, interval '1 day') AS d
		ORDER BY d
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, q.Window.Start, q.Window.End)
	if err != nil {
		return nil, fmt.Errorf("query acquisition: %w", err)
	}
	defer rows.Close()

	var points []models.CustomerAcquisitionPoint
	active := false
	for rows.Next() {
		var p models.CustomerAcquisitionPoint
		var ordering, known int
		if err := rows.Scan(&p.Date, &p.NewCustomers, &p.ReturningCustomers, &ordering, &known); err != nil {
			return nil, err
		}
		p.Date = utcDay(p.Date)
		p.TotalCustomers = p.NewCustomers + p.ReturningCustomers
		p.ConversionRate = percent(ordering, known)
		if p.TotalCustomers > 0 {
			active = true
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !active {
		return nil, nil
	}
	return points, nil
}

func (r *PostgresAnalyticsRepository) RecentOrders(ctx context.Context, q analytics.Query) ([]models.RecentOrder, error) {
	if err := checkScope(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT o.order_number, TRIM(c.first_name || ' ' || c.last_name), COALESCE(item.name, ''),
			o.total_price, o.status, o.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		LEFT JOIN LATERAL (
			SELECT p.name FROM order_items oi JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = o.id ORDER BY oi.id LIMIT 1
		) item ON true
		WHERE o.tenant_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, q.Scope.TenantID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	var orders []models.RecentOrder
	for rows.Next() {
		var o models.RecentOrder
		var raw string
		if err := rows.Scan(&o.ID, &o.Customer, &o.Product, &o.Amount, &raw, &o.PlacedAt); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(raw)
		if status, err := models.ParseOrderStatus(raw); err == nil {
			o.Status = status
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
