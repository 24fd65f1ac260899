package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
)

type PostgresEntityRepository struct {
	db *sql.DB
}

func NewPostgresEntityRepository(db *sql.DB) *PostgresEntityRepository {
	return &PostgresEntityRepository{db: db}
}

func (r *PostgresEntityRepository) CreateCustomer(c models.Customer) (models.Customer, error) {
	query := `INSERT INTO customers (tenant_id, first_name, last_name, email, total_spent, orders_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query, c.TenantID, c.FirstName, c.LastName, c.Email, c.TotalSpent, c.OrdersCount, c.CreatedAt).Scan(&c.ID)
	return c, err
}

func (r *PostgresEntityRepository) CreateProduct(p models.Product) (models.Product, error) {
	query := `INSERT INTO products (tenant_id, name, category, price, quantity, low_stock_threshold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query, p.TenantID, p.Name, p.Category, p.Price, p.Quantity, p.LowStockThreshold, p.CreatedAt).Scan(&p.ID)
	return p, err
}

// CreateOrder stores the order, its items and the customer totals in one
// transaction.
func (r *PostgresEntityRepository) CreateOrder(o models.Order) (models.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (tenant_id, order_number, customer_id, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.TenantID, o.Number, o.CustomerID, o.TotalPrice, string(o.Status), o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			o.ID, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET total_spent = total_spent + $1, orders_count = orders_count + 1
		WHERE id = $2 AND tenant_id = $3`,
		o.TotalPrice, o.CustomerID, o.TenantID)
	if err != nil {
		return models.Order{}, fmt.Errorf("update customer totals: %w", err)
	}

	return o, tx.Commit()
}

func (r *PostgresEntityRepository) Customers(tenantID string) ([]models.Customer, error) {
	query := `SELECT id, tenant_id, first_name, last_name, email, total_spent, orders_count, created_at
		FROM customers WHERE tenant_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email, &c.TotalSpent, &c.OrdersCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PostgresEntityRepository) Products(tenantID string) ([]models.Product, error) {
	query := `SELECT id, tenant_id, name, category, price, quantity, low_stock_threshold, created_at
		FROM products WHERE tenant_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Category, &p.Price, &p.Quantity, &p.LowStockThreshold, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresEntityRepository) Orders(tenantID string) ([]models.Order, error) {
	query := `SELECT id, tenant_id, order_number, customer_id, total_price, status, created_at
		FROM orders WHERE tenant_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int]int{}
	for rows.Next() {
		var o models.Order
		var status string
		if err := rows.Scan(&o.ID, &o.TenantID, &o.Number, &o.CustomerID, &o.TotalPrice, &status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.db.QueryContext(ctx,
		`SELECT oi.order_id, oi.product_id, oi.quantity, oi.price
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE o.tenant_id = $1 ORDER BY oi.id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer items.Close()

	for items.Next() {
		var orderID int
		var it models.OrderItem
		if err := items.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, items.Err()
}
