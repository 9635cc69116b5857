package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent. Callers fall through to the
// database on it.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	// Property caching
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error)
	SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error
	DeleteProperty(ctx context.Context, propertyID uuid.UUID) error

	// Tenant caching
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	DeleteTenant(ctx context.Context, tenantID uuid.UUID) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func propertyKey(propertyID uuid.UUID) string {
	return fmt.Sprintf("kosmart:property:%s", propertyID.String())
}

func tenantKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("kosmart:tenant:%s", tenantID.String())
}

func (r *redisCacheService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	data, err := r.client.Get(ctx, propertyKey(propertyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	property := &models.Property{}
	if err := json.Unmarshal(data, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (r *redisCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, propertyKey(property.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	return r.client.Del(ctx, propertyKey(propertyID)).Err()
}

func (r *redisCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	data, err := r.client.Get(ctx, tenantKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	tenant := &models.Tenant{}
	if err := json.Unmarshal(data, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *redisCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tenantKey(tenant.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, tenantKey(tenantID)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
