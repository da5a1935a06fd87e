package estimate_v1_dto

import "errors"

// EstimateRequest dto of estimateV1 api
type EstimateRequest struct {
	Mode     string  `json:"mode"`
	WeightKg float64 `json:"weightKg,omitempty"`

	OriginAirport      string `json:"originAirport,omitempty"`
	DestinationAirport string `json:"destinationAirport,omitempty"`
	OriginSeaport      string `json:"originSeaport,omitempty"`
	DestinationSeaport string `json:"destinationSeaport,omitempty"`

	OriginPostal       string `json:"originPostal,omitempty"`
	OriginCountry      string `json:"originCountry,omitempty"`
	OriginCity         string `json:"originCity,omitempty"`
	OriginStreet       string `json:"originStreet,omitempty"`
	DestinationPostal  string `json:"destinationPostal,omitempty"`
	DestinationCountry string `json:"destinationCountry,omitempty"`
	DestinationCity    string `json:"destinationCity,omitempty"`
	DestinationStreet  string `json:"destinationStreet,omitempty"`

	OriginText             string `json:"originText,omitempty"`
	OriginCountryHint      string `json:"originCountryHint,omitempty"`
	DestinationText        string `json:"destinationText,omitempty"`
	DestinationCountryHint string `json:"destinationCountryHint,omitempty"`

	Quote   bool `json:"quote,omitempty"`
	Cooling bool `json:"cooling,omitempty"`

	AirService  string   `json:"airService,omitempty"`
	VehicleType string   `json:"vehicleType,omitempty"`
	LoadFactor  *float64 `json:"loadFactor,omitempty"`

	Context *Context `json:"context,omitempty"`
}

// Context negotiation ids the calculation is recorded against
type Context struct {
	QuoteID            string   `json:"quoteId,omitempty"`
	BidID              string   `json:"bidId,omitempty"`
	CalculatedByUserID string   `json:"calculatedByUserId,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Validate validation of request
func (r EstimateRequest) Validate() error {
	if r.Mode == "" {
		return errors.New("wrong request, missed mode")
	}
	return nil
}

// Emissions CO2e components of the response
type Emissions struct {
	Tot           float64 `json:"tot"`
	Ops           float64 `json:"ops"`
	Ene           float64 `json:"ene"`
	TotEiGrPerTkm float64 `json:"totEiGrPerTkm"`
}

// Result parsed emissions result
type Result struct {
	Km          *float64       `json:"km,omitempty"`
	Tkm         *float64       `json:"tkm,omitempty"`
	EmissionsKg Emissions      `json:"emissionsKg"`
	Raw         map[string]any `json:"raw,omitempty"`
}

// Inputs echo of the normalized request
type Inputs struct {
	Mode     string  `json:"mode"`
	WeightKg float64 `json:"weightKg"`

	OriginAirport      string `json:"originAirport,omitempty"`
	DestinationAirport string `json:"destinationAirport,omitempty"`
	OriginSeaport      string `json:"originSeaport,omitempty"`
	DestinationSeaport string `json:"destinationSeaport,omitempty"`

	OriginPostal       string `json:"originPostal,omitempty"`
	OriginCountry      string `json:"originCountry,omitempty"`
	DestinationPostal  string `json:"destinationPostal,omitempty"`
	DestinationCountry string `json:"destinationCountry,omitempty"`

	Quote   bool `json:"quote"`
	Cooling bool `json:"cooling"`
}

// EstimateResponse structure for response
type EstimateResponse struct {
	OK            bool     `json:"ok"`
	Mode          string   `json:"mode,omitempty"`
	Inputs        *Inputs  `json:"inputs,omitempty"`
	Result        *Result  `json:"result,omitempty"`
	CalculationID *string  `json:"calculationId"`
	CO2Estimate   float64  `json:"co2Estimate"`
	Warnings      []string `json:"warnings"`
}

// ErrorResponse structure for any failed request
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
