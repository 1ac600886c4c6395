package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

const (
	productKeyPrefix = "product:"
	productListKey   = "products"
)

// ProductCache is a TTL-bounded read-through cache for catalog entries,
// keyed by entity id and invalidated explicitly on writes. Cache failures
// degrade to the database and never fail a request.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache builds the cache around an existing redis client.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

// GetProduct returns the cached entry for id, if present.
func (c *ProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("product cache read failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil, false
	}
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProduct stores an entry with the configured TTL.
func (c *ProductCache) SetProduct(ctx context.Context, product *domain.Product) {
	if c == nil || c.client == nil || product == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(product.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("product cache write failed", zap.Int64("id", product.ID), zap.Error(err))
	}
}

// GetList returns the cached full listing, if present.
func (c *ProductCache) GetList(ctx context.Context) ([]*domain.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("product list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var products []*domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetList stores the full listing with the configured TTL.
func (c *ProductCache) SetList(ctx context.Context, products []*domain.Product) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productListKey, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("product list cache write failed", zap.Error(err))
	}
}

// Invalidate drops the entry for id along with the listing.
func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, productKey(id), productListKey).Err(); err != nil {
		c.logger.Debug("product cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
}

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}
