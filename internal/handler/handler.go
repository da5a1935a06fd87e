package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"freightcarbon/internal/dto/estimate_v1_dto"
	"freightcarbon/internal/schema"
)

type Handler struct {
	estimator      emissionsEstimator
	requestTimeout time.Duration
}

func New(estimator emissionsEstimator, timeout time.Duration) *Handler {
	return &Handler{
		estimator:      estimator,
		requestTimeout: timeout,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var request estimate_v1_dto.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if err := request.Validate(); err != nil {
		writeError(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	reqStart := time.Now()
	estimate, err := h.estimator.Estimate(ctx, toModel(request))
	latency := time.Since(reqStart)

	log.Info().Str("latency", latency.String()).Str("mode", request.Mode).Msg("estimate latency")

	if err != nil {
		log.Err(err).Msg("estimation failed")
		writeError(w, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(convert(estimate)); err != nil {
		log.Error().Err(err).Msg("couldn't encode a response")
	}
}

// failures of any pipeline stage surface as a 400 with a readable message
func writeError(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(estimate_v1_dto.ErrorResponse{OK: false, Error: msg}); err != nil {
		log.Error().Err(err).Msg("couldn't encode an error response")
	}
}

func toModel(request estimate_v1_dto.EstimateRequest) schema.Request {
	req := schema.Request{
		Mode:     schema.Mode(strings.ToLower(request.Mode)),
		WeightKg: request.WeightKg,

		OriginAirport:      request.OriginAirport,
		DestinationAirport: request.DestinationAirport,
		OriginSeaport:      request.OriginSeaport,
		DestinationSeaport: request.DestinationSeaport,
		OriginAddress: schema.Address{
			Postal:  request.OriginPostal,
			Country: request.OriginCountry,
			City:    request.OriginCity,
			Street:  request.OriginStreet,
		},
		DestinationAddress: schema.Address{
			Postal:  request.DestinationPostal,
			Country: request.DestinationCountry,
			City:    request.DestinationCity,
			Street:  request.DestinationStreet,
		},

		OriginText:             request.OriginText,
		OriginCountryHint:      request.OriginCountryHint,
		DestinationText:        request.DestinationText,
		DestinationCountryHint: request.DestinationCountryHint,

		Quote:   request.Quote,
		Cooling: request.Cooling,

		AirService:  request.AirService,
		VehicleType: request.VehicleType,
		LoadFactor:  request.LoadFactor,
	}
	if request.Context != nil {
		req.Context = &schema.Context{
			QuoteID:            request.Context.QuoteID,
			BidID:              request.Context.BidID,
			CalculatedByUserID: request.Context.CalculatedByUserID,
			Warnings:           request.Context.Warnings,
		}
	}
	return req
}

func convert(estimate *schema.Estimate) estimate_v1_dto.EstimateResponse {
	return estimate_v1_dto.EstimateResponse{
		OK:   true,
		Mode: string(estimate.Mode),
		Inputs: &estimate_v1_dto.Inputs{
			Mode:               string(estimate.Inputs.Mode),
			WeightKg:           estimate.Inputs.WeightKg,
			OriginAirport:      estimate.Inputs.OriginAirport,
			DestinationAirport: estimate.Inputs.DestinationAirport,
			OriginSeaport:      estimate.Inputs.OriginSeaport,
			DestinationSeaport: estimate.Inputs.DestinationSeaport,
			OriginPostal:       estimate.Inputs.OriginAddress.Postal,
			OriginCountry:      estimate.Inputs.OriginAddress.Country,
			DestinationPostal:  estimate.Inputs.DestinationAddress.Postal,
			DestinationCountry: estimate.Inputs.DestinationAddress.Country,
			Quote:              estimate.Inputs.Quote,
			Cooling:            estimate.Inputs.Cooling,
		},
		Result: &estimate_v1_dto.Result{
			Km:  estimate.Result.Km,
			Tkm: estimate.Result.Tkm,
			EmissionsKg: estimate_v1_dto.Emissions{
				Tot:           estimate.Result.EmissionsKg.Tot,
				Ops:           estimate.Result.EmissionsKg.Ops,
				Ene:           estimate.Result.EmissionsKg.Ene,
				TotEiGrPerTkm: estimate.Result.EmissionsKg.TotEiGrPerTkm,
			},
			Raw: estimate.Result.Raw,
		},
		CalculationID: estimate.CalculationID,
		CO2Estimate:   estimate.CO2Estimate,
		Warnings:      estimate.Warnings,
	}
}
