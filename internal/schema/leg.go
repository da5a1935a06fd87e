package schema

// Mode transport mode of a freight leg
type Mode string

const (
	ModeAir   Mode = "air"
	ModeSea   Mode = "sea"
	ModeTruck Mode = "truck"
)

// Valid reports whether the mode is one of the three supported modes
func (m Mode) Valid() bool {
	switch m {
	case ModeAir, ModeSea, ModeTruck:
		return true
	}
	return false
}

// Address resolved street address of a truck leg endpoint
type Address struct {
	Postal  string
	Country string // ISO 3166-1 alpha-2
	City    string
	Street  string
}

// Empty reports whether the address carries no usable location at all
func (a Address) Empty() bool {
	return a.Postal == "" && a.Country == ""
}

// Context negotiation metadata a calculation is recorded against
type Context struct {
	QuoteID            string
	BidID              string
	CalculatedByUserID string
	Warnings           []string
}

// Request one freight leg to estimate, as accepted at the boundary
type Request struct {
	Mode     Mode
	WeightKg float64

	OriginAirport      string
	DestinationAirport string
	OriginSeaport      string
	DestinationSeaport string
	OriginAddress      Address
	DestinationAddress Address

	OriginText             string
	OriginCountryHint      string
	DestinationText        string
	DestinationCountryHint string

	Quote   bool
	Cooling bool

	AirService  string
	VehicleType string
	LoadFactor  *float64

	Context *Context
}

// NormalizedInput a request with defaults applied and every location resolved
// to concrete codes or addresses, never free text
type NormalizedInput struct {
	Mode     Mode
	WeightKg float64

	OriginAirport      string
	DestinationAirport string
	OriginSeaport      string
	DestinationSeaport string
	OriginAddress      Address
	DestinationAddress Address

	Quote   bool
	Cooling bool

	AirService  string
	VehicleType string
	LoadFactor  *float64
}

// Emissions CO2e components in kilograms; always numeric, zero when the
// upstream response did not carry a value
type Emissions struct {
	Tot           float64
	Ops           float64
	Ene           float64
	TotEiGrPerTkm float64
}

// Result parsed outcome of one emissions response. Km and Tkm stay nil when
// the upstream response did not carry them; zero emissions and absent
// distance are different states.
type Result struct {
	Km          *float64
	Tkm         *float64
	EmissionsKg Emissions
	Raw         map[string]any
}

// Estimate externally visible outcome of one estimation run
type Estimate struct {
	Mode          Mode
	Inputs        NormalizedInput
	Result        Result
	CalculationID *string
	CO2Estimate   float64
	Warnings      []string
}
