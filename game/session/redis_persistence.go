package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

const redisKeyPrefix = "labyrinth:session:"

// RedisStore implements SnapshotStore on a Redis instance. Snapshots are
// stored as JSON strings under labyrinth:session:<id>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. A zero TTL
// keeps snapshots forever.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	// Remove redis:// prefix if present
	addr = strings.TrimPrefix(addr, "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &PersistenceError{Op: "init", Err: err}
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client, used by tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save stores the snapshot under the session's key.
func (rs *RedisStore) Save(ctx context.Context, data *PersistedSession) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}
	if err := rs.client.Set(ctx, rs.key(data.ID), payload, rs.ttl).Err(); err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}
	return nil
}

// Load retrieves and decodes a snapshot.
func (rs *RedisStore) Load(ctx context.Context, id string) (*PersistedSession, error) {
	payload, err := rs.client.Get(ctx, rs.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrSessionNotFound
		}
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}

	var data PersistedSession
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}
	return &data, nil
}

// Delete removes a snapshot key.
func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := rs.client.Del(ctx, rs.key(id)).Result()
	if err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	if removed == 0 {
		return service.ErrSessionNotFound
	}
	return nil
}

// ListIDs scans the keyspace for session keys.
func (rs *RedisStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return ids, nil
}

// Exists checks for the snapshot key.
func (rs *RedisStore) Exists(ctx context.Context, id string) bool {
	count, err := rs.client.Exists(ctx, rs.key(id)).Result()
	return err == nil && count > 0
}

// Close releases the client's connections.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) key(id string) string {
	return redisKeyPrefix + strings.ToLower(id)
}
