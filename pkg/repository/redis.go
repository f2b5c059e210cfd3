package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/pharmstock/pkg/config"
)

const medicineKeyPrefix = "medicine:name:"

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// MedicineCache is the slice of a catalog row the order intake path needs:
// the id to reference and the price to capture.
type MedicineCache struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	PricePerTablet float64 `json:"price_per_tablet"`
}

func (r *RedisRepository) CacheMedicine(ctx context.Context, med *MedicineCache) error {
	key := fmt.Sprintf("%s%s", medicineKeyPrefix, med.Name)
	return r.SetJSON(ctx, key, med, 30*time.Minute)
}

func (r *RedisRepository) GetMedicineCache(ctx context.Context, name string) (*MedicineCache, error) {
	key := fmt.Sprintf("%s%s", medicineKeyPrefix, name)
	var med MedicineCache
	if err := r.GetJSON(ctx, key, &med); err != nil {
		return nil, err
	}
	return &med, nil
}

// InvalidateMedicines drops every cached catalog entry. Called after a catalog
// import so intake never serves a price the import just overwrote. Keys are
// walked with SCAN and deleted in batches; a large cache never blocks the
// instance the way KEYS would.
func (r *RedisRepository) InvalidateMedicines(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, medicineKeyPrefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}
