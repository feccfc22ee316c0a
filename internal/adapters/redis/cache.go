package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eventify/booking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

// GetConcertEvent returns a cached catalog read, or nil on miss. Pricing is
// cached briefly only to spare the catalog on hot events; verification
// always re-derives the amount from what is stored here or in the catalog,
// never from the client.
func (c *Cache) GetConcertEvent(ctx context.Context, id uuid.UUID) (*domain.ConcertEvent, error) {
	val, err := c.client.Get(ctx, "concert:"+id.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ev domain.ConcertEvent
	if err := json.Unmarshal(val, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Cache) SetConcertEvent(ctx context.Context, ev domain.ConcertEvent, ttl time.Duration) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "concert:"+ev.ID.String(), data, ttl).Err()
}
