package normalizer

import (
	"context"

	"freightcarbon/internal/errs"
	"freightcarbon/internal/schema"
)

const (
	defaultWeightKg = 20

	// WeightDefaultWarning recorded whenever weightKg was missing or invalid
	WeightDefaultWarning = "weightKg missing or invalid; defaulted to 20kg"

	// candidate limit passed to the location resolver
	resolveLimit = 5
)

// Normalizer validates a request, applies defaults and resolves free-text
// locations into concrete carrier codes or addresses.
type Normalizer struct {
	resolver locationResolver
}

func New(resolver locationResolver) *Normalizer {
	return &Normalizer{
		resolver: resolver,
	}
}

// Normalize returns a fully resolved input or fails. Resolution errors
// propagate verbatim; the pipeline cannot proceed without codes.
func (n *Normalizer) Normalize(ctx context.Context, req schema.Request, warnings *schema.Warnings) (schema.NormalizedInput, error) {
	if !req.Mode.Valid() {
		if req.Mode == "" {
			return schema.NormalizedInput{}, &errs.ValidationError{Msg: "mode is required"}
		}
		return schema.NormalizedInput{}, &errs.ValidationError{Msg: "unknown mode " + string(req.Mode)}
	}

	weight := req.WeightKg
	if weight <= 0 {
		weight = defaultWeightKg
		warnings.Add(WeightDefaultWarning)
	}

	result := schema.NormalizedInput{
		Mode:        req.Mode,
		WeightKg:    weight,
		Quote:       req.Quote,
		Cooling:     req.Cooling,
		AirService:  req.AirService,
		VehicleType: req.VehicleType,
		LoadFactor:  req.LoadFactor,
	}

	var err error
	switch req.Mode {
	case schema.ModeAir:
		result.OriginAirport, err = n.airport(ctx, req.OriginAirport, req.OriginText, req.OriginCountryHint, "origin")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
		result.DestinationAirport, err = n.airport(ctx, req.DestinationAirport, req.DestinationText, req.DestinationCountryHint, "destination")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
	case schema.ModeSea:
		result.OriginSeaport, err = n.seaport(ctx, req.OriginSeaport, req.OriginText, req.OriginCountryHint, "origin")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
		result.DestinationSeaport, err = n.seaport(ctx, req.DestinationSeaport, req.DestinationText, req.DestinationCountryHint, "destination")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
	case schema.ModeTruck:
		result.OriginAddress, err = n.address(ctx, req.OriginAddress, req.OriginText, req.OriginCountryHint, "origin")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
		result.DestinationAddress, err = n.address(ctx, req.DestinationAddress, req.DestinationText, req.DestinationCountryHint, "destination")
		if err != nil {
			return schema.NormalizedInput{}, err
		}
	}

	return result, nil
}

func (n *Normalizer) airport(ctx context.Context, code, text, hint, side string) (string, error) {
	if code != "" {
		return code, nil
	}
	if text == "" {
		return "", &errs.ValidationError{Msg: side + " location is required"}
	}
	return n.resolver.ResolveAirport(ctx, text, hint, resolveLimit)
}

func (n *Normalizer) seaport(ctx context.Context, code, text, hint, side string) (string, error) {
	if code != "" {
		return code, nil
	}
	if text == "" {
		return "", &errs.ValidationError{Msg: side + " location is required"}
	}
	return n.resolver.ResolveSeaport(ctx, text, hint, resolveLimit)
}

func (n *Normalizer) address(ctx context.Context, addr schema.Address, text, hint, side string) (schema.Address, error) {
	if !addr.Empty() {
		return addr, nil
	}
	if text == "" {
		return schema.Address{}, &errs.ValidationError{Msg: side + " location is required"}
	}
	return n.resolver.ResolveAddress(ctx, text, hint, resolveLimit)
}
