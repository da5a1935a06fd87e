// Package store persists calculation rows and promotes one of them to the
// primary calculation of its bid. Persist and MarkPrimary are deliberately
// two separate, non-transactional writes: a calculation that was persisted
// but not promoted is a valid, not-yet-authoritative state readers tolerate.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightcarbon/internal/errs"
	"freightcarbon/internal/schema"
)

const insertCalculationSQL = `
INSERT INTO carbon_calculations (
    id,
    quote_id,
    bid_id,
    calculated_by,
    distance_km,
    emissions_tot,
    emissions_ops,
    emissions_ene,
    emissions_intensity,
    request,
    normalized,
    response,
    created_at
)
VALUES (
    @id,
    NULLIF(@quote_id, ''),
    NULLIF(@bid_id, ''),
    NULLIF(@calculated_by, ''),
    @distance_km,
    @emissions_tot,
    @emissions_ops,
    @emissions_ene,
    @emissions_intensity,
    @request::jsonb,
    @normalized::jsonb,
    @response::jsonb,
    NOW()
)
RETURNING id, emissions_tot;
`

const markPrimarySQL = `
UPDATE bids
SET primary_calculation_id = @calculation_id,
    updated_at = NOW()
WHERE id = @bid_id;
`

// Record everything one persisted calculation captures: the negotiation
// ids, the parsed result, and snapshots of what went in and what came back.
type Record struct {
	Context     schema.Context
	Result      schema.Result
	Request     schema.Request
	Normalized  schema.NormalizedInput
	RawResponse any
}

// Row the persisted identity of a calculation.
type Row struct {
	ID           string
	EmissionsTot float64
}

// Store pgx-backed calculation persistence.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Persist inserts one calculation row and returns its identity. A failed
// insert is fatal to the request: the persisted row decides which
// calculation is primary, so dropping it silently would be misleading.
func (s *Store) Persist(ctx context.Context, rec Record) (Row, error) {
	args := pgx.NamedArgs{
		"id":                  uuid.NewString(),
		"quote_id":            rec.Context.QuoteID,
		"bid_id":              rec.Context.BidID,
		"calculated_by":       rec.Context.CalculatedByUserID,
		"distance_km":         rec.Result.Km,
		"emissions_tot":       rec.Result.EmissionsKg.Tot,
		"emissions_ops":       rec.Result.EmissionsKg.Ops,
		"emissions_ene":       rec.Result.EmissionsKg.Ene,
		"emissions_intensity": rec.Result.EmissionsKg.TotEiGrPerTkm,
		"request":             snapshot(rec.Request),
		"normalized":          snapshot(rec.Normalized),
		"response":            snapshot(rec.RawResponse),
	}

	var row Row
	if err := s.pool.QueryRow(ctx, insertCalculationSQL, args).Scan(&row.ID, &row.EmissionsTot); err != nil {
		return Row{}, &errs.PersistenceError{Err: fmt.Errorf("insert calculation: %w", err)}
	}
	return row, nil
}

// MarkPrimary records calculationID as the authoritative calculation of the
// bid. Callers downgrade a failure here to a warning: a valid, non-primary
// calculation is still a usable result.
func (s *Store) MarkPrimary(ctx context.Context, calculationID, bidID string) error {
	args := pgx.NamedArgs{
		"calculation_id": calculationID,
		"bid_id":         bidID,
	}
	if _, err := s.pool.Exec(ctx, markPrimarySQL, args); err != nil {
		return fmt.Errorf("mark calculation %s primary: %w", calculationID, err)
	}
	return nil
}
