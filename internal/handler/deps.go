package handler

import (
	"context"

	"freightcarbon/internal/schema"
)

type emissionsEstimator interface {
	Estimate(ctx context.Context, req schema.Request) (*schema.Estimate, error)
}
