package analytics

import (
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/shopspring/decimal"
)

// checker repairs what it can in assembled sections and records every
// post-condition it had to enforce.
type checker struct {
	violations []models.InvariantViolation
}

func (c *checker) report(check, format string, args ...any) {
	c.violations = append(c.violations, models.InvariantViolation{
		Check:  check,
		Detail: fmt.Sprintf(format, args...),
	})
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// densifyTrends returns exactly one point per window day, oldest first.
// Missing days become zero points and days outside the window are dropped.
func (c *checker) densifyTrends(w Window, in []models.TrendPoint) []models.TrendPoint {
	byDay := make(map[time.Time]models.TrendPoint, len(in))
	outside, duplicates := 0, 0
	for _, p := range in {
		d := day(p.Date)
		if !w.Contains(d) {
			outside++
			continue
		}
		if prev, ok := byDay[d]; ok {
			duplicates++
			p.OrderCount += prev.OrderCount
			p.Revenue = p.Revenue.Add(prev.Revenue)
		}
		byDay[d] = p
	}

	out := make([]models.TrendPoint, 0, w.Days)
	negative := 0
	for _, d := range w.Dates() {
		p := byDay[d]
		if p.OrderCount < 0 || p.Revenue.IsNegative() {
			negative++
			p.OrderCount = max(p.OrderCount, 0)
			p.Revenue = nonNegative(p.Revenue)
		}
		out = append(out, models.TrendPoint{
			Date:       d,
			OrderCount: p.OrderCount,
			Revenue:    p.Revenue.Round(2),
			DayOfWeek:  models.Weekday(d.Weekday()),
		})
	}

	if missing := w.Days - len(byDay); missing > 0 {
		c.report("trend_density", "%d of %d days had no trend point and were zero filled", missing, w.Days)
	}
	if outside > 0 {
		c.report("trend_window", "%d trend points fell outside the window", outside)
	}
	if duplicates > 0 {
		c.report("trend_duplicate", "%d trend points repeated a day and were summed", duplicates)
	}
	if negative > 0 {
		c.report("non_negative", "%d trend points had negative values", negative)
	}
	return out
}

// densifyAcquisition returns one point per window day and enforces
// total = new + returning. Points sharing a day are summed as in
// densifyTrends.
func (c *checker) densifyAcquisition(w Window, in []models.CustomerAcquisitionPoint) []models.CustomerAcquisitionPoint {
	byDay := make(map[time.Time]models.CustomerAcquisitionPoint, len(in))
	outside, duplicates := 0, 0
	for _, p := range in {
		d := day(p.Date)
		if !w.Contains(d) {
			outside++
			continue
		}
		if prev, ok := byDay[d]; ok {
			duplicates++
			p.NewCustomers += prev.NewCustomers
			p.ReturningCustomers += prev.ReturningCustomers
			p.TotalCustomers += prev.TotalCustomers
		}
		byDay[d] = p
	}

	out := make([]models.CustomerAcquisitionPoint, 0, w.Days)
	mismatched, negative := 0, 0
	for _, d := range w.Dates() {
		p := byDay[d]
		p.Date = d
		if p.NewCustomers < 0 || p.ReturningCustomers < 0 {
			negative++
			p.NewCustomers = max(p.NewCustomers, 0)
			p.ReturningCustomers = max(p.ReturningCustomers, 0)
		}
		if sum := p.NewCustomers + p.ReturningCustomers; p.TotalCustomers != sum {
			mismatched++
			p.TotalCustomers = sum
		}
		out = append(out, p)
	}

	if missing := w.Days - len(byDay); missing > 0 {
		c.report("acquisition_density", "%d of %d days had no acquisition point and were zero filled", missing, w.Days)
	}
	if outside > 0 {
		c.report("acquisition_window", "%d acquisition points fell outside the window", outside)
	}
	if duplicates > 0 {
		c.report("acquisition_duplicate", "%d acquisition points repeated a day and were summed", duplicates)
	}
	if mismatched > 0 {
		c.report("acquisition_total", "%d acquisition points had total != new + returning", mismatched)
	}
	if negative > 0 {
		c.report("non_negative", "%d acquisition points had negative counts", negative)
	}
	return out
}

// alignMonths returns one entry per month of the series in calendar order,
// zero filling months the source did not report.
func (c *checker) alignMonths(w Window, in []models.RevenueByPeriod) []models.RevenueByPeriod {
	labels := w.MonthLabels()
	byLabel := make(map[string]models.RevenueByPeriod, len(in))
	for _, p := range in {
		byLabel[p.PeriodLabel] = p
	}

	out := make([]models.RevenueByPeriod, 0, len(labels))
	found := 0
	for _, label := range labels {
		p, ok := byLabel[label]
		if ok {
			found++
		}
		p.PeriodLabel = label
		p.OrderCount = max(p.OrderCount, 0)
		p.Revenue = nonNegative(p.Revenue)
		out = append(out, p)
	}

	if found != len(in) {
		c.report("monthly_alignment", "%d of %d monthly entries matched the trailing %d months", found, len(in), len(labels))
	}
	return out
}

// checkStatuses drops keys outside the status vocabulary and negative
// counts.
func (c *checker) checkStatuses(in models.StatusDistribution) models.StatusDistribution {
	out := make(models.StatusDistribution, len(in))
	for status, n := range in {
		if !status.Valid() {
			c.report("status_vocabulary", "unknown status %q with %d orders dropped", status, n)
			continue
		}
		if n < 0 {
			c.report("non_negative", "status %s had negative count %d", status, n)
			n = 0
		}
		out[status] = n
	}
	return out
}

func (c *checker) checkMetrics(m *models.MetricSnapshot) {
	if m.TotalCustomers < 0 || m.TotalOrders < 0 || m.TotalRevenue.IsNegative() || m.AverageOrderValue.IsNegative() {
		c.report("non_negative", "metrics had negative values")
		m.TotalCustomers = max(m.TotalCustomers, 0)
		m.TotalOrders = max(m.TotalOrders, 0)
		m.TotalRevenue = nonNegative(m.TotalRevenue)
		m.AverageOrderValue = nonNegative(m.AverageOrderValue)
	}
}
