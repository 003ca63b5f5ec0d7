package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ocx/limbo-gate/internal/admission"
)

const redisKeyPrefix = "limbo_gate:verified:"

// Redis persists verified entries as JSON values under one key per (IP,
// UUID) pair, scanned back on Load via the prefix.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func OpenRedis(addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: connecting to redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

type redisEntry struct {
	IP       string    `json:"ip"`
	UUID     string    `json:"uuid"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

func (r *Redis) Load() ([]admission.VerifiedEntry, error) {
	ctx := context.Background()
	var out []admission.VerifiedEntry
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		var re redisEntry
		if err := json.Unmarshal([]byte(val), &re); err != nil {
			continue
		}
		id, err := parseUUID(re.UUID)
		if err != nil {
			continue
		}
		out = append(out, admission.VerifiedEntry{IP: re.IP, UUID: id, Username: re.Username, At: re.At})
	}
	return out, iter.Err()
}

func (r *Redis) Put(e admission.VerifiedEntry) error {
	ctx := context.Background()
	payload, err := json.Marshal(redisEntry{IP: e.IP, UUID: e.UUID.String(), Username: e.Username, At: e.At})
	if err != nil {
		return fmt.Errorf("store: marshaling verified entry: %w", err)
	}
	key := redisKeyPrefix + e.IP + ":" + e.UUID.String()
	return r.client.Set(ctx, key, payload, r.ttl).Err()
}

func (r *Redis) Remove(ip string) error {
	ctx := context.Background()
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+ip+":*", 0).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
	return iter.Err()
}

func (r *Redis) Close() error { return r.client.Close() }
