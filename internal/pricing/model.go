// Package pricing synthesizes plausible airline offers when live fares are unavailable.
package pricing

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/models/dtos"
)

const (
	jitterMin = 0.88
	jitterMax = 1.15

	fallbackBaseMin    = 200
	fallbackBaseMax    = 800
	fallbackSampleSize = 3
)

// Rand is the subset of *rand.Rand the model draws from
type Rand interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

// Query describes one synthesis request
type Query struct {
	Origin        string
	Destination   string
	DepartureDate string // YYYY-MM-DD
	ReturnDate    string
	CabinClass    string
}

// Model turns a query into a sorted set of synthetic offers
type Model struct {
	catalog  *catalog.Catalog
	currency string
	now      func() time.Time

	mu  sync.Mutex
	rnd Rand
}

type Option func(*Model)

// WithRand replaces the random source, mainly for seeded tests
func WithRand(r Rand) Option {
	return func(m *Model) { m.rnd = r }
}

// WithClock replaces the clock used for days-until-departure
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithCurrency sets the reporting currency stamped on every offer
func WithCurrency(currency string) Option {
	return func(m *Model) {
		if currency != "" {
			m.currency = currency
		}
	}
}

func NewModel(cat *catalog.Catalog, opts ...Option) *Model {
	m := &Model{
		catalog:  cat,
		currency: constants.DefaultCurrency,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Synthesize returns one offer per candidate airline, ascending by price
func (m *Model) Synthesize(q Query) []dtos.Offer {
	origin := strings.ToUpper(q.Origin)
	destination := strings.ToUpper(q.Destination)

	seasonal, urgency := 1.0, 1.0
	if dep, err := time.Parse(constants.DateLayout, q.DepartureDate); err == nil {
		seasonal = SeasonalMultiplier(dep.Month())
		urgency = UrgencyMultiplier(DaysUntil(m.now(), dep))
	}
	cabin := CabinMultiplier(q.CabinClass)

	m.mu.Lock()
	carriers := m.candidateAirlines(origin, destination)
	base := m.baseFare(origin, destination)
	jitters := make([]float64, len(carriers))
	for i := range carriers {
		jitters[i] = jitterMin + m.rnd.Float64()*(jitterMax-jitterMin)
	}
	m.mu.Unlock()

	cabinClass := strings.ToUpper(strings.TrimSpace(q.CabinClass))
	if cabinClass == "" {
		cabinClass = constants.CabinEconomy
	}

	offers := make([]dtos.Offer, 0, len(carriers))
	for i, code := range carriers {
		raw := base * m.catalog.AirlineMultiplier(code) * seasonal * urgency * cabin * jitters[i]
		offers = append(offers, dtos.Offer{
			AirlineCode:   code,
			AirlineName:   m.catalog.AirlineName(code),
			Price:         roundPrice(raw),
			Currency:      m.currency,
			CabinClass:    cabinClass,
			DepartureDate: q.DepartureDate,
			ReturnDate:    q.ReturnDate,
			Source:        constants.SourceSynthetic,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})
	return offers
}

// caller holds m.mu
func (m *Model) candidateAirlines(origin, destination string) []string {
	if carriers, ok := m.catalog.Carriers(origin, destination); ok {
		return carriers
	}

	roster := m.catalog.Roster()
	n := fallbackSampleSize
	if len(roster) < n {
		n = len(roster)
	}
	perm := m.rnd.Perm(len(roster))
	sample := make([]string, 0, n)
	for _, idx := range perm[:n] {
		sample = append(sample, roster[idx])
	}
	return sample
}

// caller holds m.mu
func (m *Model) baseFare(origin, destination string) float64 {
	if base, ok := m.catalog.BasePrice(origin, destination); ok {
		return base
	}
	return float64(fallbackBaseMin + m.rnd.Intn(fallbackBaseMax-fallbackBaseMin+1))
}

// SeasonalMultiplier prices peak travel months higher
func SeasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.June, time.July, time.August:
		return 1.30
	case time.December, time.January:
		return 1.25
	case time.March, time.April:
		return 1.10
	default:
		return 1.00
	}
}

// UrgencyMultiplier prices close-in departures higher
func UrgencyMultiplier(daysUntil int) float64 {
	switch {
	case daysUntil < 7:
		return 1.50
	case daysUntil < 14:
		return 1.30
	case daysUntil < 30:
		return 1.15
	case daysUntil < 60:
		return 1.00
	default:
		return 0.90
	}
}

// CabinMultiplier returns the fare scale of a cabin class; unknown cabins price as economy
func CabinMultiplier(cabinClass string) float64 {
	switch strings.ToUpper(cabinClass) {
	case constants.CabinPremiumEconomy:
		return 1.6
	case constants.CabinBusiness:
		return 3.2
	case constants.CabinFirst:
		return 5.5
	default:
		return 1.0
	}
}

// DaysUntil counts UTC calendar days from now to the departure date
func DaysUntil(now, departure time.Time) int {
	today := truncateToUTCDay(now)
	dep := truncateToUTCDay(departure)
	return int(dep.Sub(today).Hours() / 24)
}

func truncateToUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
