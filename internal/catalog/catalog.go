// Package catalog holds the static route and carrier tables the monitor is seeded from.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Airline is a monitored carrier and its pricing position relative to the route base fare
type Airline struct {
	Code            string  `yaml:"code"`
	Name            string  `yaml:"name"`
	Country         string  `yaml:"country"`
	LogoURL         string  `yaml:"logo_url"`
	PriceMultiplier float64 `yaml:"price_multiplier"`
}

// Route is a monitored origin/destination pair with its curated fare data
type Route struct {
	Origin          string   `yaml:"origin"`
	Destination     string   `yaml:"destination"`
	OriginCity      string   `yaml:"origin_city"`
	DestinationCity string   `yaml:"destination_city"`
	Region          string   `yaml:"region"`
	BasePrice       float64  `yaml:"base_price"`
	Carriers        []string `yaml:"carriers"`
}

// Key identifies a route by its IATA pair
type Key struct {
	Origin      string
	Destination string
}

func (k Key) String() string {
	return k.Origin + "-" + k.Destination
}

// Catalog is an immutable view over the parsed tables. Accessors return copies.
type Catalog struct {
	alliance string
	airlines []Airline
	routes   []Route

	airlineByCode map[string]Airline
	routeByKey    map[Key]Route
}

type catalogFile struct {
	Alliance string    `yaml:"alliance"`
	Airlines []Airline `yaml:"airlines"`
	Routes   []Route   `yaml:"routes"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog parsed from the embedded tables
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{
		alliance:      strings.TrimSpace(file.Alliance),
		airlineByCode: make(map[string]Airline, len(file.Airlines)),
		routeByKey:    make(map[Key]Route, len(file.Routes)),
	}
	if c.alliance == "" {
		c.alliance = "oneworld"
	}

	for _, a := range file.Airlines {
		a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
		if a.Code == "" {
			return nil, fmt.Errorf("airline with empty code")
		}
		if _, dup := c.airlineByCode[a.Code]; dup {
			return nil, fmt.Errorf("duplicate airline %s", a.Code)
		}
		if a.PriceMultiplier <= 0 {
			a.PriceMultiplier = 1.0
		}
		if a.Name == "" {
			a.Name = a.Code
		}
		c.airlineByCode[a.Code] = a
		c.airlines = append(c.airlines, a)
	}

	for _, r := range file.Routes {
		r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
		r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
		key := Key{Origin: r.Origin, Destination: r.Destination}
		if r.Origin == "" || r.Destination == "" || r.Origin == r.Destination {
			return nil, fmt.Errorf("invalid route %s", key)
		}
		if _, dup := c.routeByKey[key]; dup {
			return nil, fmt.Errorf("duplicate route %s", key)
		}
		if r.BasePrice < 0 {
			return nil, fmt.Errorf("route %s has negative base price", key)
		}
		for i, code := range r.Carriers {
			code = strings.ToUpper(strings.TrimSpace(code))
			if _, ok := c.airlineByCode[code]; !ok {
				return nil, fmt.Errorf("route %s references unknown airline %s", key, code)
			}
			r.Carriers[i] = code
		}
		c.routeByKey[key] = r
		c.routes = append(c.routes, r)
	}

	if len(c.airlines) == 0 {
		return nil, fmt.Errorf("catalog has no airlines")
	}

	return c, nil
}

// Alliance returns the alliance tag every catalog airline belongs to
func (c *Catalog) Alliance() string {
	return c.alliance
}

// Airlines returns all catalog airlines in document order
func (c *Catalog) Airlines() []Airline {
	out := make([]Airline, len(c.airlines))
	copy(out, c.airlines)
	return out
}

// Routes returns all catalog routes in document order
func (c *Catalog) Routes() []Route {
	out := make([]Route, len(c.routes))
	for i, r := range c.routes {
		r.Carriers = append([]string(nil), r.Carriers...)
		out[i] = r
	}
	return out
}

// Roster returns the supported airline codes in document order
func (c *Catalog) Roster() []string {
	out := make([]string, len(c.airlines))
	for i, a := range c.airlines {
		out[i] = a.Code
	}
	return out
}

// Supports reports whether the airline code belongs to the monitored roster
func (c *Catalog) Supports(code string) bool {
	_, ok := c.airlineByCode[strings.ToUpper(code)]
	return ok
}

// Carriers returns the curated carrier list for a route, if one exists
func (c *Catalog) Carriers(origin, destination string) ([]string, bool) {
	r, ok := c.routeByKey[Key{Origin: origin, Destination: destination}]
	if !ok || len(r.Carriers) == 0 {
		return nil, false
	}
	return append([]string(nil), r.Carriers...), true
}

// BasePrice returns the curated economy one-way base fare for a route, if one exists
func (c *Catalog) BasePrice(origin, destination string) (float64, bool) {
	r, ok := c.routeByKey[Key{Origin: origin, Destination: destination}]
	if !ok || r.BasePrice == 0 {
		return 0, false
	}
	return r.BasePrice, true
}

// AirlineMultiplier returns the carrier's price position, 1.0 for unlisted carriers
func (c *Catalog) AirlineMultiplier(code string) float64 {
	if a, ok := c.airlineByCode[code]; ok {
		return a.PriceMultiplier
	}
	return 1.0
}

// AirlineName returns the display name, or the code itself when unknown
func (c *Catalog) AirlineName(code string) string {
	if a, ok := c.airlineByCode[code]; ok {
		return a.Name
	}
	return code
}
