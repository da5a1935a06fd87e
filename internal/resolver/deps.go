package resolver

import "context"

type localCache interface {
	Get(key string) (Location, bool)
	Set(key string, value Location)
}

type remoteCache interface {
	Get(ctx context.Context, key string) (Location, error)
	SetAsync(key string, value Location)
}
