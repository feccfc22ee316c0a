package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventify/booking/internal/domain"
	"github.com/eventify/booking/internal/observability"
	"github.com/redis/go-redis/v9"
)

// Client resolves bearer tokens against the auth service. Verified
// identities are cached in redis so hot tokens cost one lookup per TTL.
type Client struct {
	baseURL string
	http    *http.Client
	redis   *redis.Client
	ttl     time.Duration
	logger  observability.Logger
}

func NewClient(baseURL string, redisClient *redis.Client, timeout time.Duration, logger observability.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		redis:   redisClient,
		ttl:     5 * time.Minute,
		logger:  logger,
	}
}

func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, domain.ErrUnauthenticated
	}

	cacheKey := "auth:" + token
	if c.redis != nil {
		if val, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var id Identity
			if json.Unmarshal(val, &id) == nil {
				return id, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth service unreachable", err)
		return Identity{}, domain.ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, domain.ErrUnauthenticated
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, err
	}

	if c.redis != nil {
		if data, err := json.Marshal(id); err == nil {
			c.redis.Set(ctx, cacheKey, data, c.ttl)
		}
	}
	return id, nil
}
