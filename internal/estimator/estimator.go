package estimator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"freightcarbon/internal/parser"
	"freightcarbon/internal/schema"
	"freightcarbon/internal/store"
)

const (
	// NoContextWarning recorded when the request carried no quote or bid
	NoContextWarning = "No bid or quote context supplied; skipping carbon calculation persistence"

	// NoStoreWarning recorded when the service runs without a database
	NoStoreWarning = "calculation persistence is disabled; no database configured"
)

// Service sequences the estimation pipeline: normalize, build, send, parse,
// persist when a negotiation context is present, then promote the persisted
// row to the bid's primary calculation.
type Service struct {
	normalizer requestNormalizer
	builder    payloadBuilder
	client     protocolClient
	store      calculationStore
}

func New(normalizer requestNormalizer,
	builder payloadBuilder,
	client protocolClient,
	calculations calculationStore,
) *Service {
	return &Service{
		normalizer: normalizer,
		builder:    builder,
		client:     client,
		store:      calculations,
	}
}

func (s *Service) Estimate(ctx context.Context, req schema.Request) (*schema.Estimate, error) {
	warnings := schema.NewWarnings()

	norm, err := s.normalizer.Normalize(ctx, req, warnings)
	if err != nil {
		return nil, err
	}
	if req.Context != nil {
		warnings.AddAll(req.Context.Warnings)
	}

	payload, err := s.builder.Build(norm)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Send(ctx, payload)
	if err != nil {
		return nil, err
	}

	result, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	estimate := &schema.Estimate{
		Mode:        norm.Mode,
		Inputs:      norm,
		Result:      result,
		CO2Estimate: result.EmissionsKg.Tot,
	}

	cctx := req.Context
	if cctx == nil || (cctx.QuoteID == "" && cctx.BidID == "") {
		warnings.Add(NoContextWarning)
		estimate.Warnings = warnings.List()
		return estimate, nil
	}
	if s.store == nil {
		warnings.Add(NoStoreWarning)
		estimate.Warnings = warnings.List()
		return estimate, nil
	}

	row, err := s.store.Persist(ctx, store.Record{
		Context:     *cctx,
		Result:      result,
		Request:     req,
		Normalized:  norm,
		RawResponse: result.Raw,
	})
	if err != nil {
		return nil, err
	}
	estimate.CalculationID = &row.ID
	// keep the visible number consistent with what was durably recorded
	estimate.CO2Estimate = row.EmissionsTot

	if cctx.BidID != "" {
		if err := s.store.MarkPrimary(ctx, row.ID, cctx.BidID); err != nil {
			log.Warn().Err(err).Str("calculation", row.ID).Msg("couldn't mark calculation as primary")
			warnings.Add(fmt.Sprintf("calculation %s was saved but could not be marked primary: %v", row.ID, err))
		}
	}

	estimate.Warnings = warnings.List()
	return estimate, nil
}
