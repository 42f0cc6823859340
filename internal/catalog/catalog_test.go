package catalog

import "testing"

func TestDefault_LoadsEmbeddedTables(t *testing.T) {
	c := Default()

	if got := len(c.Airlines()); got != 14 {
		t.Errorf("Expected 14 airlines, got %d", got)
	}
	if got := len(c.Routes()); got != 24 {
		t.Errorf("Expected 24 routes, got %d", got)
	}
	if c.Alliance() != "oneworld" {
		t.Errorf("Expected oneworld alliance, got %s", c.Alliance())
	}
}

func TestDefault_CuratedLookups(t *testing.T) {
	c := Default()

	base, ok := c.BasePrice("LHR", "JFK")
	if !ok || base != 450 {
		t.Errorf("Expected LHR-JFK base 450, got %v (found=%v)", base, ok)
	}

	carriers, ok := c.Carriers("LHR", "JFK")
	if !ok || len(carriers) != 5 || carriers[0] != "BA" {
		t.Errorf("Unexpected LHR-JFK carriers: %v", carriers)
	}

	if _, ok := c.Carriers("LHR", "CDG"); ok {
		t.Error("Expected no curated carriers for unknown route")
	}

	if m := c.AirlineMultiplier("QR"); m != 1.20 {
		t.Errorf("Expected QR multiplier 1.20, got %v", m)
	}
	if m := c.AirlineMultiplier("ZZ"); m != 1.0 {
		t.Errorf("Expected default multiplier 1.0, got %v", m)
	}
	if name := c.AirlineName("ZZ"); name != "ZZ" {
		t.Errorf("Expected unknown airline name to fall back to code, got %s", name)
	}
}

func TestDefault_CarriersAreOnRoster(t *testing.T) {
	c := Default()
	for _, r := range c.Routes() {
		for _, code := range r.Carriers {
			if !c.Supports(code) {
				t.Errorf("Route %s-%s lists unsupported carrier %s", r.Origin, r.Destination, code)
			}
		}
	}
}

func TestCarriers_ReturnsCopy(t *testing.T) {
	c := Default()
	carriers, _ := c.Carriers("DOH", "LHR")
	carriers[0] = "XX"

	again, _ := c.Carriers("DOH", "LHR")
	if again[0] != "QR" {
		t.Errorf("Catalog mutated through returned slice: %v", again)
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown carrier",
			doc: `
airlines:
  - code: AA
    name: American Airlines
routes:
  - origin: JFK
    destination: LAX
    base_price: 180
    carriers: [ZZ]
`,
		},
		{
			name: "duplicate route",
			doc: `
airlines:
  - code: AA
routes:
  - origin: JFK
    destination: LAX
  - origin: JFK
    destination: LAX
`,
		},
		{
			name: "no airlines",
			doc:  `routes: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
