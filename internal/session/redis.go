// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/order"
)

const (
	keyContext = "hazel:ctx:"
	keyOrder   = "hazel:order:"
	keyActive  = "hazel:active:"

	redisOpTimeout = 2 * time.Second
	sessionTTL     = 24 * time.Hour
)

// Redis stores sessions in a shared Redis so several instances can
// serve the same users. Values are JSON; everything expires after a
// day of inactivity.
type Redis struct {
	client *redis.Client
}

// RedisConfig carries connection settings for the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects and pings the backend before returning.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	sessLog := log.WithComponent("session")
	sessLog.Info().Str("addr", cfg.Addr).Msg("redis session store connected")
	return &Redis{client: client}, nil
}

func (r *Redis) getJSON(ctx context.Context, key string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.Unmarshal(data, out)
}

func (r *Redis) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Context(ctx context.Context, userID string) (*conversation.Context, error) {
	var c conversation.Context
	if err := r.getJSON(ctx, keyContext+userID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Redis) PutContext(ctx context.Context, c *conversation.Context) error {
	return r.setJSON(ctx, keyContext+c.UserID, c)
}

func (r *Redis) ActiveOrder(ctx context.Context, userID string) (*order.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	id, err := r.client.Get(opCtx, keyActive+userID).Result()
	cancel()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get active order: %w", err)
	}
	return r.OrderByID(ctx, id)
}

func (r *Redis) PutActiveOrder(ctx context.Context, o *order.Order) error {
	if err := r.PutOrder(ctx, o); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.client.Set(opCtx, keyActive+o.UserID, o.ID, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set active order: %w", err)
	}
	return nil
}

func (r *Redis) DeleteActiveOrder(ctx context.Context, userID string) error {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	id, err := r.client.GetDel(opCtx, keyActive+userID).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis del active order: %w", err)
	}
	if err := r.client.Del(opCtx, keyOrder+id).Err(); err != nil {
		return fmt.Errorf("redis del order: %w", err)
	}
	return nil
}

func (r *Redis) OrderByID(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := r.getJSON(ctx, keyOrder+orderID, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Redis) PutOrder(ctx context.Context, o *order.Order) error {
	return r.setJSON(ctx, keyOrder+o.ID, o)
}

func (r *Redis) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error {
	o, err := r.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	o.Status = status
	if err := r.PutOrder(ctx, o); err != nil {
		return err
	}
	if status == order.StatusReady {
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		active, err := r.client.Get(opCtx, keyActive+o.UserID).Result()
		if err == nil && active == orderID {
			_ = r.client.Del(opCtx, keyActive+o.UserID).Err()
		}
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
