package handlers

import (
	"net/url"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/segment"
)

const dateLayout = "2006-01-02"

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// DashboardQuery holds the /dashboard parameters. A window is either a day
// count or an explicit start/end pair.
type DashboardQuery struct {
	Days         *int   `query:"days" validate:"omitempty,min=1,max=366,excluded_with=Start End"`
	Start        string `query:"start" validate:"required_with=End,omitempty,datetime=2006-01-02"`
	End          string `query:"end" validate:"required_with=Start,omitempty,datetime=2006-01-02"`
	TopCustomers *int   `query:"top_customers" validate:"omitempty,min=1,max=50"`
	TopProducts  *int   `query:"top_products" validate:"omitempty,min=1,max=50"`
	RecentOrders *int   `query:"recent_orders" validate:"omitempty,min=1,max=50"`
}

func parseDashboardQuery(q url.Values) (DashboardQuery, []ValidationError) {
	var errs []ValidationError
	dq := DashboardQuery{
		Days:         queryInt(q, "days", &errs),
		Start:        q.Get("start"),
		End:          q.Get("end"),
		TopCustomers: queryInt(q, "top_customers", &errs),
		TopProducts:  queryInt(q, "top_products", &errs),
		RecentOrders: queryInt(q, "recent_orders", &errs),
	}
	return dq, errs
}

// Window resolves the query against the clock. It assumes the query passed
// validation.
func (q DashboardQuery) Window(defaultDays int, now time.Time) (analytics.Window, error) {
	if q.Start != "" {
		start, err := time.Parse(dateLayout, q.Start)
		if err != nil {
			return analytics.Window{}, err
		}
		end, err := time.Parse(dateLayout, q.End)
		if err != nil {
			return analytics.Window{}, err
		}
		return analytics.NewWindowBetween(start, end)
	}

	days := defaultDays
	if q.Days != nil {
		days = *q.Days
	}
	return analytics.NewWindow(days, now)
}

func (q DashboardQuery) Limits() analytics.Limits {
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	return analytics.Limits{
		TopCustomers: deref(q.TopCustomers),
		TopProducts:  deref(q.TopProducts),
		RecentOrders: deref(q.RecentOrders),
	}
}

type CustomerSegmentQuery struct {
	TotalSpent  string `query:"total_spent" validate:"required,numeric"`
	OrdersCount *int   `query:"orders_count" validate:"required,min=0"`
}

type CustomerSegmentResponse struct {
	Tier    segment.Tier    `json:"tier"`
	Segment segment.Segment `json:"segment"`
}

type StockStatusQuery struct {
	Quantity  *int `query:"quantity" validate:"required"`
	Threshold *int `query:"threshold" validate:"required,min=0"`
}

type StockStatusResponse struct {
	Status segment.StockStatus `json:"status"`
}

type OrderProgressQuery struct {
	Status string `query:"status" validate:"required"`
}

type OrderProgressResponse struct {
	Status   models.OrderStatus `json:"status"`
	Progress float64            `json:"progress"`
}

type ResolutionsResult struct {
	Data []resolve.Event `json:"data"`
	Meta Meta            `json:"meta"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}
