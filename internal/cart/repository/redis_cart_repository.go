package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wingedsheep/eco-logique/internal/cart/domain"
	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
)

const (
	cartKeyPrefix = "cart:"

	// updatedAtField holds the cart timestamp next to the item fields.
	updatedAtField = "_updated_at"
)

// storedItem is the JSON value of one hash field; Position keeps insertion order.
type storedItem struct {
	domain.CartItem
	Position int `json:"position"`
}

// RedisCartRepository keeps each cart in a Redis hash keyed by product id and expires
// untouched carts after the configured TTL.
type RedisCartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(client redis.UniversalClient, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Get loads the user's cart, or an empty cart when the key does not exist.
func (r *RedisCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	fields, err := r.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "failed to load cart: "+err.Error())
	}

	cart := domain.NewCart(userID)
	items := make([]storedItem, 0, len(fields))
	for field, value := range fields {
		if field == updatedAtField {
			if nanos, err := strconv.ParseInt(value, 10, 64); err == nil {
				cart.UpdatedAt = time.Unix(0, nanos).UTC()
			}
			continue
		}
		var item storedItem
		if err := json.Unmarshal([]byte(value), &item); err != nil {
			return nil, apperrors.Wrapf(err, "failed to decode cart item %s", field)
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	for _, item := range items {
		cart.Items = append(cart.Items, item.CartItem)
	}
	return cart, nil
}

// Save replaces the stored cart atomically and refreshes its TTL.
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := cartKey(cart.UserID)

	values := make([]any, 0, 2*len(cart.Items)+2)
	for i, item := range cart.Items {
		encoded, err := json.Marshal(storedItem{CartItem: item, Position: i})
		if err != nil {
			return apperrors.Wrap(err, "failed to encode cart item")
		}
		values = append(values, item.ProductID, string(encoded))
	}
	values = append(values, updatedAtField, strconv.FormatInt(cart.UpdatedAt.UnixNano(), 10))

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(cart.Items) == 0 {
			return nil
		}
		pipe.HSet(ctx, key, values...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrUnavailable, "failed to save cart: "+err.Error())
	}
	return nil
}

// Delete removes the user's cart.
func (r *RedisCartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrUnavailable, "failed to delete cart: "+err.Error())
	}
	return nil
}
