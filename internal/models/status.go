package models

import (
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the canonical order lifecycle vocabulary.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ErrUnknownStatus is returned when a status is outside the known vocabulary.
var ErrUnknownStatus = errors.New("unknown order status")

// OrderStatuses lists every known status in lifecycle order, Cancelled last.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus normalizes a raw status label. Completed and Fulfilled are
// reported by some sources for delivered orders and map to StatusDelivered.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "completed", "fulfilled":
		return StatusDelivered, nil
	case "canceled":
		return StatusCancelled, nil
	}
	for _, st := range OrderStatuses {
		if strings.ToLower(string(st)) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}
