package synth

import (
	"math"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
)

// DailyTrend returns numDays synthetic trend points ending today, oldest
// first.
func (g *Generator) DailyTrend(numDays int) ([]models.TrendPoint, error) {
	return g.DailyTrendUntil(g.today(), numDays)
}

// DailyTrendUntil returns numDays synthetic trend points ending on the day of
// end, oldest first.
func (g *Generator) DailyTrendUntil(end time.Time, numDays int) ([]models.TrendPoint, error) {
	if numDays < 1 {
		return nil, ErrInvalidDays
	}
	last := Day(end)
	points := make([]models.TrendPoint, 0, numDays)

	for i := range numDays {
		date := last.AddDate(0, 0, i-numDays+1)
		wd := date.Weekday()

		weekday := g.orderWeekdayMultiplier(wd)
		growth := growthMultiplier(i, numDays, g.cfg.OrderGrowthRate)
		jitter := g.uniform(0.8, 0.4)

		orders := int(math.Floor(g.cfg.BaseOrders * weekday * growth * jitter))
		orders = max(orders, g.cfg.MinOrders)

		aov := g.uniform(g.cfg.AOVMin, g.cfg.AOVSpread)
		if isWeekend(wd) {
			aov += g.cfg.WeekendSurcharge
		}

		points = append(points, models.TrendPoint{
			Date:       date,
			OrderCount: orders,
			Revenue:    round2(float64(orders) * aov),
			DayOfWeek:  models.Weekday(wd),
		})
	}
	return points, nil
}

// Acquisition returns numDays synthetic acquisition points ending today,
// oldest first.
func (g *Generator) Acquisition(numDays int) ([]models.CustomerAcquisitionPoint, error) {
	return g.AcquisitionUntil(g.today(), numDays)
}

// AcquisitionUntil returns numDays synthetic acquisition points ending on the
// day of end. Campaign days boost new customers only.
func (g *Generator) AcquisitionUntil(end time.Time, numDays int) ([]models.CustomerAcquisitionPoint, error) {
	if numDays < 1 {
		return nil, ErrInvalidDays
	}
	last := Day(end)
	points := make([]models.CustomerAcquisitionPoint, 0, numDays)

	for i := range numDays {
		date := last.AddDate(0, 0, i-numDays+1)

		campaign := 1.0
		if g.src.Float64() < g.cfg.CampaignProbability {
			campaign = g.uniform(2.0, 1.0)
		}
		weekend := 1.0
		if isWeekend(date.Weekday()) {
			weekend = 1.2
		}
		growth := growthMultiplier(i, numDays, g.cfg.AcquisitionGrowthRate)

		newCustomers := int(math.Floor(g.cfg.BaseNewCustomers * campaign * weekend * growth * g.uniform(0.7, 0.6)))
		returning := int(math.Floor(g.cfg.BaseReturningCustomers * weekend * g.uniform(0.8, 0.4)))
		newCustomers = max(newCustomers, g.cfg.MinNewCustomers)
		returning = max(returning, g.cfg.MinReturningCustomers)

		points = append(points, models.CustomerAcquisitionPoint{
			Date:               date,
			NewCustomers:       newCustomers,
			ReturningCustomers: returning,
			TotalCustomers:     newCustomers + returning,
			ConversionRate:     round1(g.uniform(2.5, 2.0)),
		})
	}
	return points, nil
}

// orderWeekdayMultiplier boosts Friday to Sunday and slows Monday down.
func (g *Generator) orderWeekdayMultiplier(wd time.Weekday) float64 {
	switch wd {
	case time.Friday, time.Saturday, time.Sunday:
		return g.uniform(1.3, 0.4)
	case time.Monday:
		return 0.7
	default:
		return 1.0
	}
}

// growthMultiplier ramps linearly from 1 on the oldest day to 1+rate on the
// newest one.
func growthMultiplier(i, numDays int, rate float64) float64 {
	if numDays == 1 {
		return 1 + rate
	}
	return 1 + rate*float64(i)/float64(numDays-1)
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}
