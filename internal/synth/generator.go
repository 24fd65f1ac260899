// Package synth generates plausible demo data for the dashboard when a live
// source cannot answer. The shape of every series is fixed (weekday effects,
// growth, campaign spikes) and only the magnitudes are random, drawn from an
// injected Source so tests can pin the output.
package synth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDays   = errors.New("number of days must be positive")
	ErrInvalidConfig = errors.New("invalid synth config")
)

// MinOrdersFloor is the lowest allowed daily order floor.
const MinOrdersFloor = 5

// Config holds the baselines of the synthetic series.
type Config struct {
	BaseOrders       float64 `mapstructure:"base_orders"`
	OrderGrowthRate  float64 `mapstructure:"order_growth_rate"`
	MinOrders        int     `mapstructure:"min_orders"`
	AOVMin           float64 `mapstructure:"aov_min"`
	AOVSpread        float64 `mapstructure:"aov_spread"`
	WeekendSurcharge float64 `mapstructure:"weekend_surcharge"`

	BaseNewCustomers       float64 `mapstructure:"base_new_customers"`
	BaseReturningCustomers float64 `mapstructure:"base_returning_customers"`
	AcquisitionGrowthRate  float64 `mapstructure:"acquisition_growth_rate"`
	CampaignProbability    float64 `mapstructure:"campaign_probability"`
	MinNewCustomers        int     `mapstructure:"min_new_customers"`
	MinReturningCustomers  int     `mapstructure:"min_returning_customers"`
}

func DefaultConfig() Config {
	return Config{
		BaseOrders:       35,
		OrderGrowthRate:  0.15,
		MinOrders:        5,
		AOVMin:           45,
		AOVSpread:        35,
		WeekendSurcharge: 15,

		BaseNewCustomers:       8,
		BaseReturningCustomers: 15,
		AcquisitionGrowthRate:  0.25,
		CampaignProbability:    0.15,
		MinNewCustomers:        1,
		MinReturningCustomers:  3,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinOrders < MinOrdersFloor:
		return fmt.Errorf("%w: min_orders must be at least %d, got %d", ErrInvalidConfig, MinOrdersFloor, c.MinOrders)
	case c.BaseOrders <= 0 || c.BaseNewCustomers <= 0 || c.BaseReturningCustomers <= 0:
		return fmt.Errorf("%w: base values must be positive", ErrInvalidConfig)
	case c.OrderGrowthRate < 0 || c.AcquisitionGrowthRate < 0:
		return fmt.Errorf("%w: growth rates must not be negative", ErrInvalidConfig)
	case c.AOVMin <= 0 || c.AOVSpread < 0 || c.WeekendSurcharge < 0:
		return fmt.Errorf("%w: order value range must be positive", ErrInvalidConfig)
	case c.CampaignProbability < 0 || c.CampaignProbability > 1:
		return fmt.Errorf("%w: campaign_probability must be within [0, 1], got %v", ErrInvalidConfig, c.CampaignProbability)
	case c.MinNewCustomers < 0 || c.MinReturningCustomers < 0:
		return fmt.Errorf("%w: customer minimums must not be negative", ErrInvalidConfig)
	}
	return nil
}

type Generator struct {
	src Source
	now func() time.Time
	cfg Config
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithConfig(cfg Config) Option {
	return func(g *Generator) { g.cfg = cfg }
}

// New returns a Generator drawing from src. A nil src gets a fresh
// auto-seeded source.
func New(src Source, opts ...Option) *Generator {
	if src == nil {
		src = NewSource()
	}
	g := &Generator{src: src, now: time.Now, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Config() Config {
	return g.cfg
}

// today is the current calendar day in UTC.
func (g *Generator) today() time.Time {
	return Day(g.now())
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// uniform draws from [lo, lo+spread).
func (g *Generator) uniform(lo, spread float64) float64 {
	return lo + g.src.Float64()*spread
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
