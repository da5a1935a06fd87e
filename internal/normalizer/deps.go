package normalizer

import (
	"context"

	"freightcarbon/internal/schema"
)

type locationResolver interface {
	ResolveAirport(ctx context.Context, query, countryHint string, limit int) (string, error)
	ResolveSeaport(ctx context.Context, query, countryHint string, limit int) (string, error)
	ResolveAddress(ctx context.Context, query, countryHint string, limit int) (schema.Address, error)
}
