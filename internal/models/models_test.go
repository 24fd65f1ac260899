package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	tests := map[string]OrderStatus{
		"pending":     StatusPending,
		" Confirmed ": StatusConfirmed,
		"PROCESSING":  StatusProcessing,
		"shipped":     StatusShipped,
		"Delivered":   StatusDelivered,
		"completed":   StatusDelivered,
		"Fulfilled":   StatusDelivered,
		"cancelled":   StatusCancelled,
		"canceled":    StatusCancelled,
	}
	for raw, want := range tests {
		got, err := ParseOrderStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
		assert.True(t, got.Valid())
	}

	_, err := ParseOrderStatus("lost in transit")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.False(t, OrderStatus("lost").Valid())
}

func TestWeekday_JSON(t *testing.T) {
	p := TrendPoint{
		Date:       time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC),
		OrderCount: 4,
		Revenue:    decimal.RequireFromString("210.5"),
		DayOfWeek:  Weekday(time.Sunday),
	}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"day_of_week":"Sun"`)
	assert.Contains(t, string(b), `"revenue":"210.5"`)

	var back TrendPoint
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Weekday(time.Sunday), back.DayOfWeek)

	var w Weekday
	assert.Error(t, w.UnmarshalText([]byte("Funday")))
}

func TestStatusDistribution_Total(t *testing.T) {
	d := StatusDistribution{StatusDelivered: 450, StatusPending: 65, StatusCancelled: 36}
	assert.Equal(t, 551, d.Total())
	assert.Equal(t, 0, StatusDistribution{}.Total())
}

func TestCustomer_FullName(t *testing.T) {
	assert.Equal(t, "Sarah Johnson", Customer{FirstName: "Sarah", LastName: "Johnson"}.FullName())
	assert.Equal(t, "Sarah", Customer{FirstName: "Sarah"}.FullName())
	assert.Equal(t, "Johnson", Customer{LastName: "Johnson"}.FullName())
}
