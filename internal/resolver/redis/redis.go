package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// how long a resolved location stays cached; codes are stable, so long
const defaultExpiration = 7 * 24 * time.Hour

// common wrapper above a redis, with async saver
type Client[V any] struct {
	rdb       *redis.Client
	marshal   func(V) (string, error)
	unmarshal func(string) (V, error)
	saveChan  chan redisEntity[V]
}

type redisEntity[V any] struct {
	key   string
	value V
}

func NewClient[V any](ctx context.Context,
	addr string,
	password string,
	db int,
	marshal func(V) (string, error),
	unmarshal func(string) (V, error),
	chanSize int) *Client[V] {

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := &Client[V]{
		rdb:       rdb,
		marshal:   marshal,
		unmarshal: unmarshal,
		saveChan:  make(chan redisEntity[V], chanSize),
	}

	//goroutine that saves elems async
	go client.runUpdater(ctx)

	return client
}

func (c *Client[V]) Set(ctx context.Context, key string, value V, expiration time.Duration) error {
	strValue, err := c.marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, strValue, expiration).Err()
}

func (c *Client[V]) Get(ctx context.Context, key string) (V, error) {
	strValue, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		var zero V
		return zero, err
	}
	return c.unmarshal(strValue)
}

// SetAsync queues the value for saving off the request path
func (c *Client[V]) SetAsync(key string, value V) {
	select {
	case c.saveChan <- redisEntity[V]{key: key, value: value}:
	default:
		//if blocked do new goroutine
		go func(key string, value V) {
			c.saveChan <- redisEntity[V]{key: key, value: value}
		}(key, value)
	}
}

func (c *Client[V]) runUpdater(ctx context.Context) {
	for {
		select {
		case entity, ok := <-c.saveChan:
			if !ok {
				return
			}
			if err := c.Set(ctx, entity.key, entity.value, defaultExpiration); err != nil {
				log.Error().Err(err).Str("key", entity.key).Msg("couldn't save a resolved location")
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}
