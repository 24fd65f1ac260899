package repo

import (
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
)

// InMemoryEntityRepository keeps customers, orders and products per tenant.
type InMemoryEntityRepository struct {
	mu        sync.RWMutex
	customers []models.Customer
	orders    []models.Order
	products  []models.Product
	nextID    int
}

func NewInMemoryEntityRepository() *InMemoryEntityRepository {
	return &InMemoryEntityRepository{nextID: 1}
}

func (r *InMemoryEntityRepository) id(current int) int {
	if current != 0 {
		return current
	}
	id := r.nextID
	r.nextID++
	return id
}

func (r *InMemoryEntityRepository) AddCustomer(c models.Customer) models.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.id(c.ID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.customers = append(r.customers, c)
	return c
}

func (r *InMemoryEntityRepository) AddProduct(p models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.id(p.ID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.products = append(r.products, p)
	return p
}

// AddOrder stores o and adds its total to the customer's lifetime figures.
func (r *InMemoryEntityRepository) AddOrder(o models.Order) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.id(o.ID)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	for i := range r.customers {
		c := &r.customers[i]
		if c.ID == o.CustomerID && c.TenantID == o.TenantID {
			c.TotalSpent = c.TotalSpent.Add(o.TotalPrice)
			c.OrdersCount++
		}
	}
	r.orders = append(r.orders, o)
	return o
}

func (r *InMemoryEntityRepository) CreateCustomer(c models.Customer) (models.Customer, error) {
	return r.AddCustomer(c), nil
}

func (r *InMemoryEntityRepository) CreateProduct(p models.Product) (models.Product, error) {
	return r.AddProduct(p), nil
}

func (r *InMemoryEntityRepository) CreateOrder(o models.Order) (models.Order, error) {
	return r.AddOrder(o), nil
}

func byTenant[T any](items []T, tenantID string, tenant func(T) string) []T {
	out := []T{}
	for _, it := range items {
		if tenant(it) == tenantID {
			out = append(out, it)
		}
	}
	return out
}

func (r *InMemoryEntityRepository) Customers(tenantID string) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return byTenant(r.customers, tenantID, func(c models.Customer) string { return c.TenantID }), nil
}

func (r *InMemoryEntityRepository) Orders(tenantID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := byTenant(r.orders, tenantID, func(o models.Order) string { return o.TenantID })
	for i := range orders {
		orders[i].Items = slices.Clone(orders[i].Items)
	}
	return orders, nil
}

func (r *InMemoryEntityRepository) Products(tenantID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return byTenant(r.products, tenantID, func(p models.Product) string { return p.TenantID }), nil
}
