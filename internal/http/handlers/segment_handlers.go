package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/segment"
	"github.com/shopspring/decimal"
)

// GetCustomerSegmentHandler godoc
// @Summary Classify a customer
// @Description Returns the loyalty tier and marketing segment for a spend total and order count.
// @Tags segments
// @Produce json
// @Param total_spent query number true "Lifetime spend"
// @Param orders_count query int true "Lifetime order count"
// @Success 200 {object} CustomerSegmentResponse
// @Failure 400 {object} ErrorResponse
// @Router /segments/customer [get]
func GetCustomerSegmentHandler(w http.ResponseWriter, r *http.Request) {
	var errs []ValidationError
	params := r.URL.Query()
	q := CustomerSegmentQuery{
		TotalSpent:  params.Get("total_spent"),
		OrdersCount: queryInt(params, "orders_count", &errs),
	}
	if len(errs) == 0 {
		errs = validateQuery(q)
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid customer query", errs...)
		return
	}

	spent, err := decimal.NewFromString(q.TotalSpent)
	if err != nil || spent.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid customer query",
			ValidationError{Field: "total_spent", Description: "total_spent must be a non-negative amount"})
		return
	}

	respond(w, http.StatusOK, CustomerSegmentResponse{
		Tier:    segment.CustomerTier(spent),
		Segment: segment.CustomerSegment(spent, *q.OrdersCount),
	})
}

// GetStockStatusHandler godoc
// @Summary Classify a stock level
// @Tags segments
// @Produce json
// @Param quantity query int true "Units on hand"
// @Param threshold query int true "Low stock threshold"
// @Success 200 {object} StockStatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /segments/stock [get]
func GetStockStatusHandler(w http.ResponseWriter, r *http.Request) {
	var errs []ValidationError
	params := r.URL.Query()
	q := StockStatusQuery{
		Quantity:  queryInt(params, "quantity", &errs),
		Threshold: queryInt(params, "threshold", &errs),
	}
	if len(errs) == 0 {
		errs = validateQuery(q)
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid stock query", errs...)
		return
	}

	respond(w, http.StatusOK, StockStatusResponse{Status: segment.ClassifyStock(*q.Quantity, *q.Threshold)})
}

// GetOrderProgressHandler godoc
// @Summary Order lifecycle progress
// @Description Returns the fraction of the fulfilment lifecycle an order has completed.
// @Tags segments
// @Produce json
// @Param status query string true "Order status"
// @Success 200 {object} OrderProgressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /segments/order-progress [get]
func GetOrderProgressHandler(w http.ResponseWriter, r *http.Request) {
	q := OrderProgressQuery{Status: r.URL.Query().Get("status")}
	if errs := validateQuery(q); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid order query", errs...)
		return
	}

	status, err := models.ParseOrderStatus(q.Status)
	if err == nil {
		var progress float64
		progress, err = segment.OrderProgress(status, segment.OrderLifecycle)
		if err == nil {
			respond(w, http.StatusOK, OrderProgressResponse{Status: status, Progress: progress})
			return
		}
	}

	if errors.Is(err, models.ErrUnknownStatus) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to compute progress")
}
