package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/shopspring/decimal"
)

// SeedDemo fills r with a demo store for tenantID: the synthetic catalog
// and customer pool, and a few orders per day over the days before now.
func SeedDemo(r EntityStore, tenantID string, now time.Time, days int, src synth.Source) error {
	if src == nil {
		src = synth.NewSource()
	}
	today := utcDay(now)

	products := make([]models.Product, 0, len(synth.DefaultCatalog))
	for _, item := range synth.DefaultCatalog {
		p, err := r.CreateProduct(models.Product{
			TenantID:          tenantID,
			Name:              item.Name,
			Category:          item.Category,
			Price:             decimal.NewFromFloat(item.BasePrice),
			Quantity:          src.IntN(150),
			LowStockThreshold: 10,
			CreatedAt:         today.AddDate(0, 0, -(days + 90)),
		})
		if err != nil {
			return fmt.Errorf("seed product %q: %w", item.Name, err)
		}
		products = append(products, p)
	}

	customers := make([]models.Customer, 0, len(synth.DefaultCustomers))
	for _, p := range synth.DefaultCustomers {
		first, last, _ := strings.Cut(p.Name, " ")
		c, err := r.CreateCustomer(models.Customer{
			TenantID:   tenantID,
			FirstName:  first,
			LastName:   last,
			Email:      p.Email,
			TotalSpent: decimal.Zero,
			CreatedAt:  today.AddDate(0, 0, -src.IntN(days+60)).Add(time.Duration(src.IntN(24)) * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", p.Name, err)
		}
		customers = append(customers, c)
	}

	number := 1001
	for d := days - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		for range 2 + src.IntN(6) {
			c := customers[src.IntN(len(customers))]
			if c.CreatedAt.After(day.Add(23 * time.Hour)) {
				continue
			}

			var items []models.OrderItem
			total := decimal.Zero
			for range 1 + src.IntN(3) {
				p := products[src.IntN(len(products))]
				qty := 1 + src.IntN(3)
				items = append(items, models.OrderItem{ProductID: p.ID, Quantity: qty, Price: p.Price})
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
			}

			placed := day.Add(time.Duration(src.IntN(24*60)) * time.Minute)
			if placed.After(now) {
				placed = now
			}
			_, err := r.CreateOrder(models.Order{
				TenantID:   tenantID,
				Number:     fmt.Sprintf("#%d", number),
				CustomerID: c.ID,
				TotalPrice: total,
				Status:     models.OrderStatuses[src.IntN(len(models.OrderStatuses))],
				Items:      items,
				CreatedAt:  placed,
			})
			if err != nil {
				return fmt.Errorf("seed order #%d: %w", number, err)
			}
			number++
		}
	}
	return nil
}
