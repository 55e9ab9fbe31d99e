package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Кэш балансов, инвалидируется после каждого расчета с движениями по счетам
type CacheService struct {
	client *redis.Client
}

func NewCacheService() (serv *CacheService, err error) {

	// config
	addr := os.Getenv("REWEAR_CACHE_URL")
	if addr == "" {
		return nil, fmt.Errorf("env REWEAR_CACHE_URL is not set")
	}
	user := os.Getenv("REWEAR_CACHE_USER")
	pwd := os.Getenv("REWEAR_CACHE_PWD")

	// redis
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    pwd,
		Username:    user,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	err = client.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}

	return &CacheService{client}, nil
}

func balanceKey(user uuid.UUID) string {
	return "balance:" + user.String()
}

func (c *CacheService) GetBalance(ctx context.Context, user uuid.UUID) (points int, err error) {
	val, err := c.client.Get(ctx, balanceKey(user)).Result()
	if err == redis.Nil {
		return 0, fmt.Errorf("not found")
	} else if err != nil {
		return 0, err
	}

	points, err = strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (c *CacheService) SetBalance(ctx context.Context, user uuid.UUID, points int) (err error) {
	err = c.client.Set(ctx, balanceKey(user), points, 5*time.Minute).Err()
	if err != nil {
		return err
	}
	return nil
}

func (c *CacheService) InvalidateBalance(ctx context.Context, user uuid.UUID) error {
	err := c.client.Del(ctx, balanceKey(user)).Err()
	if err != nil {
		return err
	}
	return nil
}
