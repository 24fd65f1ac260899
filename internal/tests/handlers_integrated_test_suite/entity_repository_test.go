package handlers_integrated_test_suite

import (
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/repo"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/shopspring/decimal"
)

func TestPostgresEntityRepository_CreateOrderUpdatesCustomer(t *testing.T) {
	requireDatabase(t)
	t.Cleanup(clearTenant)
	store := repo.NewPostgresEntityRepository(database)

	c, err := store.CreateCustomer(models.Customer{TenantID: tenant, FirstName: "Carol", LastName: "White", Email: "carol@example.com", CreatedAt: at(time.October, 2, 9)})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	p, err := store.CreateProduct(models.Product{TenantID: tenant, Name: "Resistance Bands", Category: "Fitness", Price: decimal.RequireFromString("24.50"), Quantity: 40})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	_, err = store.CreateOrder(models.Order{
		TenantID:   tenant,
		Number:     "#2001",
		CustomerID: c.ID,
		TotalPrice: decimal.RequireFromString("49"),
		Status:     models.StatusShipped,
		Items:      []models.OrderItem{{ProductID: p.ID, Quantity: 2, Price: p.Price}},
		CreatedAt:  at(time.October, 16, 14),
	})
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	customers, err := store.Customers(tenant)
	if err != nil || len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d (%v)", len(customers), err)
	}
	if customers[0].OrdersCount != 1 || !customers[0].TotalSpent.Equal(decimal.NewFromInt(49)) {
		t.Errorf("expected 1 order and 49 spent, got %d and %s", customers[0].OrdersCount, customers[0].TotalSpent)
	}

	orders, err := store.Orders(tenant)
	if err != nil || len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d (%v)", len(orders), err)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].Quantity != 2 {
		t.Errorf("expected one item of 2 units, got %+v", orders[0].Items)
	}
}

func TestSeedDemo_Postgres(t *testing.T) {
	requireDatabase(t)
	t.Cleanup(clearTenant)
	store := repo.NewPostgresEntityRepository(database)

	if err := repo.SeedDemo(store, tenant, clock, 10, synth.NewSeededSource(3)); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	products, err := store.Products(tenant)
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(products) != len(synth.DefaultCatalog) {
		t.Errorf("expected %d products, got %d", len(synth.DefaultCatalog), len(products))
	}

	w := get(newRouter(), "/dashboard?days=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
}
