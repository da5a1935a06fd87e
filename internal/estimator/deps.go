package estimator

import (
	"context"

	"freightcarbon/internal/schema"
	"freightcarbon/internal/store"
)

type requestNormalizer interface {
	Normalize(ctx context.Context, req schema.Request, warnings *schema.Warnings) (schema.NormalizedInput, error)
}

type payloadBuilder interface {
	Build(in schema.NormalizedInput) (string, error)
}

type protocolClient interface {
	Send(ctx context.Context, payload string) (string, error)
}

type calculationStore interface {
	Persist(ctx context.Context, rec store.Record) (store.Row, error)
	MarkPrimary(ctx context.Context, calculationID, bidID string) error
}
