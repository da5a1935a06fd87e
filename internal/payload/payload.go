// Package payload builds the provider-specific XML request for one freight
// leg. Builders are pure: given a well-formed normalized input they cannot
// fail, and every interpolated string is escaped before embedding.
package payload

import (
	"fmt"
	"strconv"
	"strings"

	"freightcarbon/internal/schema"
)

// fixed measurement units of the outer envelope
const (
	volumeUnit = "m3"
	weightUnit = "kg"
)

// air service types accepted by the provider
const (
	AirServiceEconomy  = "economy"
	AirServiceStandard = "standard"
	AirServiceExpress  = "express"
)

// truck vehicle types accepted by the provider, smallest to largest
const (
	VehicleRigid7T  = "rigid7_5"
	VehicleRigid18T = "rigid18"
	VehicleSemi40T  = "semi40"
)

// Builder assembles the wire payload around a configured API key. The key is
// validated once at construction and never mutated.
type Builder struct {
	apiKey string
}

func NewBuilder(apiKey string) (*Builder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("emissions api key is empty")
	}
	return &Builder{apiKey: apiKey}, nil
}

// Build returns the XML payload for the leg's mode.
func (b *Builder) Build(in schema.NormalizedInput) (string, error) {
	var leg string
	switch in.Mode {
	case schema.ModeAir:
		leg = airLeg(in)
	case schema.ModeSea:
		leg = seaLeg(in)
	case schema.ModeTruck:
		leg = truckLeg(in)
	default:
		return "", fmt.Errorf("unsupported mode %q", in.Mode)
	}
	return envelope(b.apiKey, in, leg), nil
}

func envelope(apiKey string, in schema.NormalizedInput, leg string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString("<emissionsRequest>")
	sb.WriteString("<login><apiKey>" + escape(apiKey) + "</apiKey></login>")
	sb.WriteString("<units><volume>" + volumeUnit + "</volume><weight>" + weightUnit + "</weight></units>")
	sb.WriteString("<quote>" + strconv.FormatBool(in.Quote) + "</quote>")
	sb.WriteString("<shipment>")
	sb.WriteString("<weight>" + formatNumber(in.WeightKg) + "</weight>")
	sb.WriteString("<cooling>" + strconv.FormatBool(in.Cooling) + "</cooling>")
	sb.WriteString(leg)
	sb.WriteString("</shipment>")
	sb.WriteString("</emissionsRequest>")
	return sb.String()
}

func airLeg(in schema.NormalizedInput) string {
	service := in.AirService
	switch service {
	case AirServiceEconomy, AirServiceStandard, AirServiceExpress:
	default:
		service = AirServiceStandard
	}
	var sb strings.Builder
	sb.WriteString(`<leg mode="air">`)
	sb.WriteString("<origin><airport>" + escape(in.OriginAirport) + "</airport></origin>")
	sb.WriteString("<destination><airport>" + escape(in.DestinationAirport) + "</airport></destination>")
	sb.WriteString("<service>" + service + "</service>")
	sb.WriteString("</leg>")
	return sb.String()
}

func seaLeg(in schema.NormalizedInput) string {
	var sb strings.Builder
	sb.WriteString(`<leg mode="sea">`)
	sb.WriteString("<origin><seaport>" + escape(in.OriginSeaport) + "</seaport></origin>")
	sb.WriteString("<destination><seaport>" + escape(in.DestinationSeaport) + "</seaport></destination>")
	sb.WriteString("</leg>")
	return sb.String()
}

func truckLeg(in schema.NormalizedInput) string {
	vehicle := in.VehicleType
	switch vehicle {
	case VehicleRigid7T, VehicleRigid18T, VehicleSemi40T:
	default:
		vehicle = VehicleSemi40T
	}
	load := 1.0
	if in.LoadFactor != nil {
		load = clamp01(*in.LoadFactor)
	}
	var sb strings.Builder
	sb.WriteString(`<leg mode="truck">`)
	sb.WriteString("<origin>" + addressNode(in.OriginAddress) + "</origin>")
	sb.WriteString("<destination>" + addressNode(in.DestinationAddress) + "</destination>")
	sb.WriteString("<vehicleType>" + vehicle + "</vehicleType>")
	sb.WriteString("<loadFactor>" + formatNumber(load) + "</loadFactor>")
	sb.WriteString("</leg>")
	return sb.String()
}

func addressNode(a schema.Address) string {
	var sb strings.Builder
	sb.WriteString("<address>")
	sb.WriteString("<postalCode>" + escape(a.Postal) + "</postalCode>")
	sb.WriteString("<countryCode>" + escape(a.Country) + "</countryCode>")
	sb.WriteString("<countryName>" + escape(countryName(a.Country)) + "</countryName>")
	if a.City != "" {
		sb.WriteString("<city>" + escape(a.City) + "</city>")
	}
	if a.Street != "" {
		sb.WriteString("<street>" + escape(a.Street) + "</street>")
	}
	sb.WriteString("</address>")
	return sb.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// the 5 reserved XML characters
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
